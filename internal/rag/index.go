package rag

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/personahub/rag-go/internal/logger"
	"go.uber.org/zap"
)

// State 索引状态
type State string

const (
	StateEmpty State = "empty"
	StateReady State = "ready"
)

// Index 语料检索索引。启动期一次性构建，之后只读。
// Build成功后状态进入ready，未就绪时不得对外服务
type Index struct {
	loader   *CorpusLoader
	embedder Embedder
	store    VectorStore
	topK     int
	state    State
}

// NewIndex 创建索引
func NewIndex(loader *CorpusLoader, embedder Embedder, store VectorStore, topK int) *Index {
	if topK <= 0 {
		topK = 4
	}
	return &Index{
		loader:   loader,
		embedder: embedder,
		store:    store,
		topK:     topK,
		state:    StateEmpty,
	}
}

// State 当前状态
func (idx *Index) State() State {
	return idx.state
}

// TopK 默认检索条数
func (idx *Index) TopK() int {
	return idx.topK
}

// Build 构建索引。存储中已有数据时跳过写入直接就绪（幂等重启），
// 否则加载语料、向量化并批量写入。语料为空或任一步失败即返回错误
func (idx *Index) Build(ctx context.Context) error {
	count, err := idx.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("检查索引状态失败: %w", err)
	}
	if count > 0 {
		idx.state = StateReady
		logger.Info("索引已存在，跳过构建", zap.Int64("entries", count))
		return nil
	}

	chunks, err := idx.loader.Load()
	if err != nil {
		return err
	}

	vectors, err := idx.embedder.Encode(ctx, chunks)
	if err != nil {
		return fmt.Errorf("语料向量化失败: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("向量数量不符: 文本%d 向量%d", len(chunks), len(vectors))
	}

	entries := make([]Entry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = Entry{
			ID:     uuid.NewString(),
			Seq:    int64(i),
			Text:   chunk,
			Vector: vectors[i],
		}
	}

	if err := idx.store.Upsert(ctx, entries); err != nil {
		return fmt.Errorf("写入索引失败: %w", err)
	}

	idx.state = StateReady
	logger.Info("索引构建完成", zap.Int("entries", len(entries)))
	return nil
}

// Search 检索与查询文本最相近的语料块。
// 查询向量化失败向调用方传播错误；存储查询失败属于尽力而为，
// 记录告警并返回空结果
func (idx *Index) Search(ctx context.Context, query string) ([]string, error) {
	if idx.state != StateReady {
		return nil, fmt.Errorf("索引未就绪")
	}

	vectors, err := idx.embedder.Encode(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("查询向量化失败: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("查询向量化结果为空")
	}

	matches, err := idx.store.Search(ctx, vectors[0], idx.topK)
	if err != nil {
		logger.Warn("向量检索失败，返回空检索结果", zap.Error(err))
		return []string{}, nil
	}

	docs := make([]string, 0, len(matches))
	for _, m := range matches {
		docs = append(docs, m.Text)
	}
	return docs, nil
}
