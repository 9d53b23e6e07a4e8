package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personahub/rag-go/internal/dashscope"
	"github.com/personahub/rag-go/internal/models"
	"github.com/personahub/rag-go/internal/sentiment"
)

type fakeRetriever struct {
	docs []string
	err  error
}

func (f *fakeRetriever) Search(ctx context.Context, query string) ([]string, error) {
	return f.docs, f.err
}

type fakeCompleter struct {
	result   CompletionResult
	messages []dashscope.ChatMessage
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []dashscope.ChatMessage) CompletionResult {
	f.messages = messages
	return f.result
}

func newTestService(retriever Retriever, completer Completer) *GenerateService {
	return NewGenerateService(
		sentiment.NewClassifier(),
		retriever,
		NewPromptAssembler("测试背景"),
		completer,
		nil,
		30*time.Second,
	)
}

func TestHandleComposesResponse(t *testing.T) {
	completer := &fakeCompleter{result: CompletionResult{
		ID:               "cmpl-1",
		Content:          "我在呢。",
		PromptTokens:     12,
		CompletionTokens: 5,
		TotalTokens:      17,
	}}
	svc := newTestService(&fakeRetriever{docs: []string{"资料一", "资料二"}}, completer)

	req := models.GenerateRequest{
		MessageID: "msg-1",
		Text:      "今天心情不好",
	}
	resp, err := svc.Handle(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "msg-1", resp.MessageID)
	assert.Equal(t, "我在呢。", resp.ResponseText)
	assert.Equal(t, "今天心情不好", resp.UserText)
	assert.True(t, sentiment.Label(resp.Emotion).Valid())
	assert.Equal(t, []string{"资料一", "资料二"}, resp.RagDocs)
	assert.Equal(t, "cmpl-1", resp.CompletionID)
	assert.Equal(t, 5, resp.CompletionTokens)
	assert.Equal(t, 12, resp.PromptTokens)
	assert.Equal(t, resp.PromptTokens+resp.CompletionTokens, resp.TotalTokens)

	assert.Empty(t, resp.Attachments)
	assert.False(t, resp.HasAttachments)
	assert.Zero(t, resp.AttachmentCount)

	// 检索结果注入了提示词
	require.Len(t, completer.messages, 2)
	assert.Contains(t, completer.messages[1].Content.Text, "资料一")
}

func TestHandleEchoesAttachments(t *testing.T) {
	completer := &fakeCompleter{result: CompletionResult{ID: "cmpl-2", Content: "好看！"}}
	svc := newTestService(&fakeRetriever{}, completer)

	attachments := []models.Attachment{
		{URL: "https://example.com/a.jpg", Filename: "a.jpg", MimeType: "image/jpeg", SizeBytes: 1024},
		{URL: "https://example.com/b.zip", Filename: "b.zip", MimeType: "application/zip"},
	}
	resp, err := svc.Handle(context.Background(), models.GenerateRequest{
		MessageID:      "msg-2",
		Text:           "看照片",
		Attachments:    attachments,
		HasAttachments: true,
	})
	require.NoError(t, err)

	// 附件原样回显，计数含被忽略的非图片附件
	assert.Equal(t, attachments, resp.Attachments)
	assert.True(t, resp.HasAttachments)
	assert.Equal(t, 2, resp.AttachmentCount)

	// 但提示词只包含图片
	require.True(t, completer.messages[1].Content.IsMultipart())
	imageCount := 0
	for _, p := range completer.messages[1].Content.Parts {
		if p.Type == "image_url" {
			imageCount++
		}
	}
	assert.Equal(t, 1, imageCount)
}

func TestHandleEmptyRetrieval(t *testing.T) {
	completer := &fakeCompleter{result: CompletionResult{ID: "cmpl-3", Content: "嗯。"}}
	svc := newTestService(&fakeRetriever{docs: nil}, completer)

	resp, err := svc.Handle(context.Background(), models.GenerateRequest{
		MessageID: "msg-3",
		Text:      "你好",
	})
	require.NoError(t, err)

	// 空检索不是错误，rag_docs为空数组而非null
	assert.NotNil(t, resp.RagDocs)
	assert.Empty(t, resp.RagDocs)
}

func TestHandleRetrievalError(t *testing.T) {
	completer := &fakeCompleter{result: CompletionResult{ID: "cmpl-x", Content: "好"}}
	svc := newTestService(&fakeRetriever{err: errors.New("encode backend down")}, completer)

	// 检索错误中止流水线，不返回部分结果
	resp, err := svc.Handle(context.Background(), models.GenerateRequest{
		MessageID: "msg-err",
		Text:      "你好",
	})
	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Nil(t, completer.messages) // 未触达LLM
}

func TestHandleDegradedCompletion(t *testing.T) {
	completer := &fakeCompleter{result: CompletionResult{
		ID:       "fallback-id",
		Content:  "抱歉，我这边好像出了一点问题。",
		Degraded: true,
	}}
	svc := newTestService(&fakeRetriever{}, completer)

	resp, err := svc.Handle(context.Background(), models.GenerateRequest{
		MessageID: "msg-4",
		Text:      "在吗",
	})
	require.NoError(t, err)

	// 降级回复按正常响应返回
	assert.NotEmpty(t, resp.ResponseText)
	assert.Equal(t, "fallback-id", resp.CompletionID)
	assert.Zero(t, resp.TotalTokens)
}
