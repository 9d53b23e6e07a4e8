package rag

import (
	"fmt"
	"os"
	"strings"

	"github.com/personahub/rag-go/internal/logger"
	"go.uber.org/zap"
)

// CorpusLoader 从本地文件加载人设语料并切分
type CorpusLoader struct {
	path     string
	splitter Splitter
}

// NewCorpusLoader 创建语料加载器
func NewCorpusLoader(path string, splitter Splitter) *CorpusLoader {
	return &CorpusLoader{path: path, splitter: splitter}
}

// Load 读取语料文件并切分为文本块。
// 文件缺失或不可读视为部署错误，直接返回错误（启动期应终止进程）；
// 切分结果为空同样返回错误，禁止以空索引对外服务
func (l *CorpusLoader) Load() ([]string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("读取语料文件失败 %s: %w", l.path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("语料文件为空: %s", l.path)
	}

	chunks := l.splitter.Split(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("语料切分结果为空: %s", l.path)
	}

	logger.Info("语料加载完成",
		zap.String("path", l.path),
		zap.Int("chunks", len(chunks)))

	return chunks, nil
}
