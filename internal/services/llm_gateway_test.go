package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personahub/rag-go/internal/dashscope"
)

func testParams() GenerationParams {
	return GenerationParams{
		Model:           "qwen-vl-max-latest",
		Temperature:     0.4,
		TopP:            0.8,
		TopK:            20,
		MaxTokens:       1024,
		PresencePenalty: 1.5,
	}
}

func testMessages() []dashscope.ChatMessage {
	return []dashscope.ChatMessage{
		{Role: "system", Content: dashscope.TextContent("系统提示")},
		{Role: "user", Content: dashscope.TextContent("你好")},
	}
}

func TestCompleteSuccess(t *testing.T) {
	var received dashscope.ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]any{
			"id": "chatcmpl-123",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": "晚上好呀"}},
			},
			"usage": map[string]any{
				"prompt_tokens":     11,
				"completion_tokens": 7,
				"total_tokens":      18,
			},
		})
	}))
	defer server.Close()

	gw := NewLLMGateway(dashscope.NewService(server.URL, "test-key", time.Second), testParams())
	result := gw.Complete(context.Background(), testMessages())

	assert.False(t, result.Degraded)
	assert.Equal(t, "chatcmpl-123", result.ID)
	assert.Equal(t, "晚上好呀", result.Content)
	assert.Equal(t, 11, result.PromptTokens)
	assert.Equal(t, 7, result.CompletionTokens)
	assert.Equal(t, 18, result.TotalTokens)

	// 采样参数来自配置
	require.NotNil(t, received.Temperature)
	assert.InDelta(t, 0.4, *received.Temperature, 1e-9)
	require.NotNil(t, received.TopK)
	assert.Equal(t, 20, *received.TopK)
	require.NotNil(t, received.PresencePenalty)
	assert.InDelta(t, 1.5, *received.PresencePenalty, 1e-9)
	assert.Equal(t, false, received.ChatTemplateKwargs["enable_thinking"])
}

func TestCompleteFallbackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom","code":"500"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	gw := NewLLMGateway(dashscope.NewService(server.URL, "test-key", time.Second), testParams())
	result := gw.Complete(context.Background(), testMessages())

	assert.True(t, result.Degraded)
	assert.NotEmpty(t, result.Content)
	assert.NotEmpty(t, result.ID)
	assert.Zero(t, result.PromptTokens)
	assert.Zero(t, result.CompletionTokens)
	assert.Zero(t, result.TotalTokens)
}

func TestCompleteFallbackOnNetworkError(t *testing.T) {
	// 指向无监听端口
	gw := NewLLMGateway(dashscope.NewService("http://127.0.0.1:1", "test-key", time.Second), testParams())

	first := gw.Complete(context.Background(), testMessages())
	second := gw.Complete(context.Background(), testMessages())

	assert.True(t, first.Degraded)
	assert.True(t, second.Degraded)
	// 每次降级生成全新的completion_id
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCompleteFallbackOnMissingCredential(t *testing.T) {
	gw := NewLLMGateway(dashscope.NewService("http://127.0.0.1:1", "", time.Second), testParams())
	result := gw.Complete(context.Background(), testMessages())

	assert.True(t, result.Degraded)
	assert.Zero(t, result.TotalTokens)
}

func TestCompleteGeneratesIDWhenMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": "好"}},
			},
			"usage": map[string]any{"total_tokens": 1},
		})
	}))
	defer server.Close()

	gw := NewLLMGateway(dashscope.NewService(server.URL, "test-key", time.Second), testParams())
	result := gw.Complete(context.Background(), testMessages())

	assert.False(t, result.Degraded)
	assert.NotEmpty(t, result.ID)
}
