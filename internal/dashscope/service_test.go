package dashscope

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageContentMarshalText(t *testing.T) {
	msg := ChatMessage{Role: "user", Content: TextContent("你好")}

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","content":"你好"}`, string(data))
}

func TestMessageContentMarshalParts(t *testing.T) {
	msg := ChatMessage{Role: "user", Content: PartsContent([]ContentPart{
		{Type: "text", Text: "看看这个"},
		{Type: "image_url", ImageURL: &ImageURL{URL: "https://example.com/a.jpg"}},
	})}

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"role": "user",
		"content": [
			{"type": "text", "text": "看看这个"},
			{"type": "image_url", "image_url": {"url": "https://example.com/a.jpg"}}
		]
	}`, string(data))
}

func TestMessageContentUnmarshal(t *testing.T) {
	var textMsg ChatMessage
	require.NoError(t, json.Unmarshal([]byte(`{"role":"assistant","content":"好的"}`), &textMsg))
	assert.False(t, textMsg.Content.IsMultipart())
	assert.Equal(t, "好的", textMsg.Content.Text)

	var partsMsg ChatMessage
	require.NoError(t, json.Unmarshal([]byte(`{"role":"user","content":[{"type":"text","text":"hi"}]}`), &partsMsg))
	require.True(t, partsMsg.Content.IsMultipart())
	assert.Equal(t, "hi", partsMsg.Content.Parts[0].Text)
}

func TestChatCompletionRequiresAPIKey(t *testing.T) {
	s := NewService("http://127.0.0.1:1", "", time.Second)
	_, err := s.ChatCompletion(context.Background(), ChatRequest{Model: "m"})
	assert.Error(t, err)
}

func TestChatCompletionErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(Error{Code: "InvalidParameter", Message: "model not found", RequestID: "req-1"})
	}))
	defer server.Close()

	s := NewService(server.URL, "key", time.Second)
	_, err := s.ChatCompletion(context.Background(), ChatRequest{Model: "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
	assert.Contains(t, err.Error(), "InvalidParameter")
}

func TestCreateEmbeddingsRestoresOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		// 故意乱序返回
		json.NewEncoder(w).Encode(EmbeddingResponse{
			Object: "list",
			Data: []EmbeddingResponseData{
				{Object: "embedding", Embedding: []float64{2}, Index: 1},
				{Object: "embedding", Embedding: []float64{1}, Index: 0},
			},
			Model: req.Model,
		})
	}))
	defer server.Close()

	s := NewService(server.URL, "key", time.Second)
	resp, err := s.CreateEmbeddings(context.Background(), EmbeddingRequest{
		Model: "text-embedding-v4",
		Input: []string{"一", "二"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, 0, resp.Data[0].Index)
	assert.Equal(t, 1, resp.Data[1].Index)
	assert.Equal(t, []float64{1}, resp.Data[0].Embedding)
}

func TestBaseURLTrailingSlash(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(ChatResponse{ID: "x"})
	}))
	defer server.Close()

	s := NewService(server.URL+"/", "key", time.Second)
	_, err := s.ChatCompletion(context.Background(), ChatRequest{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "/chat/completions", gotPath)
}
