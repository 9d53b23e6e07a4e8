package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/personahub/rag-go/internal/dashscope"
	"github.com/personahub/rag-go/internal/logger"
	"go.uber.org/zap"
)

// fallbackReply 调用失败时的兜底回复
const fallbackReply = "抱歉，我这边好像出了一点问题，稍后再和我说一次好吗？"

// GenerationParams 固定的采样参数，来自配置而非用户输入
type GenerationParams struct {
	Model           string
	Temperature     float64
	TopP            float64
	TopK            int
	MaxTokens       int
	PresencePenalty float64
	EnableThinking  bool
}

// CompletionResult 归一化后的生成结果
type CompletionResult struct {
	ID               string
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Degraded         bool
}

// LLMGateway 封装LLM调用。Complete永不返回错误：
// 任何失败都降级为兜底回复（用量全零 + 新生成的completion_id），
// 不做自动重试
type LLMGateway struct {
	service *dashscope.Service
	params  GenerationParams
}

// NewLLMGateway 创建LLM网关
func NewLLMGateway(service *dashscope.Service, params GenerationParams) *LLMGateway {
	return &LLMGateway{service: service, params: params}
}

// Complete 调用LLM生成回复
func (g *LLMGateway) Complete(ctx context.Context, messages []dashscope.ChatMessage) CompletionResult {
	req := dashscope.ChatRequest{
		Model:           g.params.Model,
		Messages:        messages,
		Temperature:     &g.params.Temperature,
		TopP:            &g.params.TopP,
		TopK:            &g.params.TopK,
		MaxTokens:       &g.params.MaxTokens,
		PresencePenalty: &g.params.PresencePenalty,
		ChatTemplateKwargs: map[string]any{
			"enable_thinking": g.params.EnableThinking,
		},
	}

	resp, err := g.service.ChatCompletion(ctx, req)
	if err != nil {
		logger.Error("LLM调用失败，返回兜底回复", zap.Error(err))
		return fallbackResult()
	}
	if len(resp.Choices) == 0 {
		logger.Error("LLM响应无choices，返回兜底回复")
		return fallbackResult()
	}

	result := CompletionResult{
		ID:               resp.ID,
		Content:          resp.Choices[0].Message.Content.Text,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	// 上游偶发缺失id，本地补一个保证非空
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	return result
}

func fallbackResult() CompletionResult {
	return CompletionResult{
		ID:       uuid.NewString(),
		Content:  fallbackReply,
		Degraded: true,
	}
}
