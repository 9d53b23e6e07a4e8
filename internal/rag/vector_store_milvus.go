package rag

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/personahub/rag-go/internal/logger"
	"go.uber.org/zap"
)

// MilvusOptions Milvus客户端配置
type MilvusOptions struct {
	Address    string
	Username   string
	Password   string
	Collection string
	Database   string
	VectorSize int
	UseTLS     bool
	Timeout    time.Duration
}

type milvusVectorStore struct {
	milvusClient client.Client
	collection   string
	vectorSize   int

	loadMu sync.Mutex
	loaded bool
}

// NewMilvusVectorStore 创建Milvus向量存储。
// 集合不存在时自动创建（varchar主键 + 插入序号 + 文本 + 向量），
// 度量固定为COSINE
func NewMilvusVectorStore(opts MilvusOptions) (VectorStore, error) {
	if opts.Address == "" {
		opts.Address = "localhost:19530"
	}
	if opts.Collection == "" {
		opts.Collection = "persona_quotes"
	}
	if opts.VectorSize == 0 {
		opts.VectorSize = 1024
	}
	if opts.Database == "" {
		opts.Database = "default"
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	milvusClient, err := client.NewClient(ctx, client.Config{
		Address:       opts.Address,
		DBName:        opts.Database,
		Username:      opts.Username,
		Password:      opts.Password,
		EnableTLSAuth: opts.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus client: %w", err)
	}

	store := &milvusVectorStore{
		milvusClient: milvusClient,
		collection:   opts.Collection,
		vectorSize:   opts.VectorSize,
	}

	if err := store.ensureCollection(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *milvusVectorStore) ensureCollection(ctx context.Context) error {
	hasCollection, err := s.milvusClient.HasCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if hasCollection {
		return nil
	}

	schema := &entity.Schema{
		CollectionName: s.collection,
		Description:    "persona corpus vectors",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "seq",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "content",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": strconv.Itoa(s.vectorSize),
				},
			},
		},
	}

	if err := s.milvusClient.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	var index entity.Index
	var indexErr error
	index, indexErr = entity.NewIndexHNSW(entity.COSINE, 8, 64)
	if indexErr != nil {
		// HNSW不可用时退回IVF_FLAT
		index, indexErr = entity.NewIndexIvfFlat(entity.COSINE, 128)
		if indexErr != nil {
			return fmt.Errorf("failed to create index: %w", indexErr)
		}
	}

	if err := s.milvusClient.CreateIndex(ctx, s.collection, "vector", index, false); err != nil {
		logger.Warn("索引创建失败，集合仍可使用",
			zap.String("collection", s.collection), zap.Error(err))
	}

	return nil
}

// ensureLoaded 搜索前将集合加载进内存，成功后不再重复加载。
// 加载失败不记状态，下次搜索重试
func (s *milvusVectorStore) ensureLoaded(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.loaded {
		return nil
	}
	if err := s.milvusClient.LoadCollection(ctx, s.collection, false); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	s.loaded = true
	return nil
}

func (s *milvusVectorStore) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]string, len(entries))
	seqs := make([]int64, len(entries))
	contents := make([]string, len(entries))
	vectors := make([][]float32, len(entries))
	for i, e := range entries {
		if len(e.Vector) != s.vectorSize {
			return fmt.Errorf("向量维度不符: 期望%d 实际%d", s.vectorSize, len(e.Vector))
		}
		ids[i] = e.ID
		seqs[i] = e.Seq
		contents[i] = e.Text
		vectors[i] = e.Vector
	}

	idColumn := entity.NewColumnVarChar("id", ids)
	seqColumn := entity.NewColumnInt64("seq", seqs)
	contentColumn := entity.NewColumnVarChar("content", contents)
	vectorColumn := entity.NewColumnFloatVector("vector", s.vectorSize, vectors)

	if _, err := s.milvusClient.Insert(ctx, s.collection, "", idColumn, seqColumn, contentColumn, vectorColumn); err != nil {
		return fmt.Errorf("milvus insert failed: %w", err)
	}

	if err := s.milvusClient.Flush(ctx, s.collection, false); err != nil {
		logger.Warn("flush失败，数据已写入",
			zap.String("collection", s.collection), zap.Error(err))
	}

	return nil
}

func (s *milvusVectorStore) Search(ctx context.Context, vector []float32, k int) ([]Match, error) {
	if len(vector) == 0 || k <= 0 {
		return []Match{}, nil
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	sp, _ := entity.NewIndexHNSWSearchParam(64)
	searchResults, err := s.milvusClient.Search(
		ctx,
		s.collection,
		[]string{},
		"",
		[]string{"seq", "content"},
		[]entity.Vector{entity.FloatVector(vector)},
		"vector",
		entity.COSINE,
		k,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("milvus search failed: %w", err)
	}

	if len(searchResults) == 0 {
		return []Match{}, nil
	}
	result := searchResults[0]
	if result.Err != nil {
		return nil, fmt.Errorf("milvus search error: %w", result.Err)
	}
	if result.ResultCount == 0 {
		return []Match{}, nil
	}

	var ids []string
	if idCol, ok := result.IDs.(*entity.ColumnVarChar); ok {
		ids = idCol.Data()
	}

	var seqs []int64
	var contents []string
	for _, field := range result.Fields {
		switch field.Name() {
		case "seq":
			if val, ok := field.(*entity.ColumnInt64); ok {
				seqs = val.Data()
			}
		case "content":
			if val, ok := field.(*entity.ColumnVarChar); ok {
				contents = val.Data()
			}
		}
	}

	matches := make([]Match, 0, result.ResultCount)
	for i := 0; i < result.ResultCount; i++ {
		m := Match{}
		if i < len(ids) {
			m.ID = ids[i]
		}
		if i < len(seqs) {
			m.Seq = seqs[i]
		}
		if i < len(contents) {
			m.Text = contents[i]
		}
		if i < len(result.Scores) {
			m.Score = float64(result.Scores[i])
		}
		matches = append(matches, m)
	}

	// 相似度降序，同分先插入优先
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Seq < matches[j].Seq
	})

	return matches, nil
}

func (s *milvusVectorStore) Count(ctx context.Context) (int64, error) {
	stats, err := s.milvusClient.GetCollectionStatistics(ctx, s.collection)
	if err != nil {
		return 0, fmt.Errorf("failed to get collection statistics: %w", err)
	}
	raw, ok := stats["row_count"]
	if !ok {
		return 0, nil
	}
	count, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid row_count %q: %w", raw, err)
	}
	return count, nil
}

func (s *milvusVectorStore) Ready() bool {
	if s.milvusClient == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := s.milvusClient.ListCollections(ctx)
	return err == nil
}
