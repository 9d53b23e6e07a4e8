package rag

import (
	"context"
	"errors"
	"fmt"

	"github.com/personahub/rag-go/internal/dashscope"
)

// DashScopeEmbedder 使用DashScope兼容模式Embedding API
type DashScopeEmbedder struct {
	service    *dashscope.Service
	model      string
	dimensions int
	batchSize  int
}

// NewDashScopeEmbedder 创建DashScope嵌入向量生成器。
// batchSize为单次API调用的最大文本数，超出时自动分批
func NewDashScopeEmbedder(service *dashscope.Service, model string, dimensions, batchSize int) *DashScopeEmbedder {
	if model == "" {
		model = "text-embedding-v4"
	}
	if dimensions <= 0 {
		dimensions = 1024
	}
	if batchSize <= 0 {
		batchSize = 10
	}
	return &DashScopeEmbedder{
		service:    service,
		model:      model,
		dimensions: dimensions,
		batchSize:  batchSize,
	}
}

func (e *DashScopeEmbedder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if e.service == nil || !e.service.Ready() {
		return nil, errors.New("DashScope service not ready")
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		resp, err := e.service.CreateEmbeddings(ctx, dashscope.EmbeddingRequest{
			Model:      e.model,
			Input:      batch,
			Dimensions: &e.dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("向量化失败(batch %d-%d): %w", start, end, err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("向量化结果数量不符: 期望%d 实际%d", len(batch), len(resp.Data))
		}

		for _, item := range resp.Data {
			vec := make([]float32, len(item.Embedding))
			for i, v := range item.Embedding {
				vec[i] = float32(v)
			}
			vectors = append(vectors, vec)
		}
	}

	return vectors, nil
}

func (e *DashScopeEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *DashScopeEmbedder) Ready() bool {
	return e.service != nil && e.service.Ready()
}
