package services

import (
	"context"
	"fmt"
	"time"

	"github.com/personahub/rag-go/internal/dashscope"
	"github.com/personahub/rag-go/internal/logger"
	"github.com/personahub/rag-go/internal/models"
	"github.com/personahub/rag-go/internal/sentiment"
	"go.uber.org/zap"
)

// EmotionClassifier 情绪分类
type EmotionClassifier interface {
	Classify(text string) sentiment.Label
}

// Retriever 语料检索。存储侧失败降级为空结果；
// 查询向量化失败返回错误
type Retriever interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// Completer LLM生成。永不返回错误
type Completer interface {
	Complete(ctx context.Context, messages []dashscope.ChatMessage) CompletionResult
}

// GenerateService 回复生成编排。
// 固定流水线：情绪分类 → 语料检索 → 提示词拼装 → LLM生成 → 响应组装。
// 中途任一不可恢复错误中止整条流水线，不返回部分结果
type GenerateService struct {
	classifier EmotionClassifier
	retriever  Retriever
	assembler  *PromptAssembler
	gateway    Completer
	metrics    *MetricsService
	timeout    time.Duration
}

// NewGenerateService 创建回复生成服务。timeout<=0时不限制单请求时长
func NewGenerateService(
	classifier EmotionClassifier,
	retriever Retriever,
	assembler *PromptAssembler,
	gateway Completer,
	metrics *MetricsService,
	timeout time.Duration,
) *GenerateService {
	return &GenerateService{
		classifier: classifier,
		retriever:  retriever,
		assembler:  assembler,
		gateway:    gateway,
		metrics:    metrics,
		timeout:    timeout,
	}
}

// Handle 处理一次生成请求
func (s *GenerateService) Handle(ctx context.Context, req models.GenerateRequest) (*models.GenerateResponse, error) {
	start := time.Now()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	logger.Info("收到生成请求",
		zap.String("message_id", req.MessageID),
		zap.Int("attachments", len(req.Attachments)))

	emotion := s.classifier.Classify(req.Text)

	docs, err := s.retriever.Search(ctx, req.Text)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveGenerate("error", time.Since(start))
		}
		return nil, fmt.Errorf("语料检索失败: %w", err)
	}
	if len(docs) == 0 && s.metrics != nil {
		s.metrics.CountEmptyRetrieval()
	}

	messages, ignored := s.assembler.Assemble(req.Text, emotion, docs, req.Attachments)
	if s.metrics != nil {
		s.metrics.CountIgnoredAttachments(ignored)
	}

	result := s.gateway.Complete(ctx, messages)
	if result.Degraded && s.metrics != nil {
		s.metrics.CountFallback()
	}

	resp := &models.GenerateResponse{
		MessageID:        req.MessageID,
		ResponseText:     result.Content,
		UserText:         req.Text,
		Emotion:          string(emotion),
		RagDocs:          docs,
		CompletionID:     result.ID,
		CompletionTokens: result.CompletionTokens,
		TotalTokens:      result.TotalTokens,
		PromptTokens:     result.PromptTokens,
		Attachments:      req.Attachments,
		HasAttachments:   req.HasAttachments,
		AttachmentCount:  len(req.Attachments),
	}
	if resp.RagDocs == nil {
		resp.RagDocs = []string{}
	}
	if resp.Attachments == nil {
		resp.Attachments = []models.Attachment{}
	}

	if s.metrics != nil {
		s.metrics.ObserveGenerate("ok", time.Since(start))
	}

	logger.Info("生成完成",
		zap.String("message_id", req.MessageID),
		zap.String("emotion", string(emotion)),
		zap.Int("rag_docs", len(docs)),
		zap.String("completion_id", result.ID),
		zap.Bool("degraded", result.Degraded),
		zap.Duration("elapsed", time.Since(start)))

	return resp, nil
}
