package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	require.NoError(t, LoadConfig())

	assert.Equal(t, "8080", AppConfig.Server.Port)
	assert.Equal(t, "paragraph", AppConfig.Persona.Chunking.Strategy)
	assert.Equal(t, 4, AppConfig.Retrieval.TopK)
	assert.Equal(t, "persona_quotes", AppConfig.VectorStore.Milvus.Collection)
	assert.Equal(t, "dashscope", AppConfig.Embedding.Provider)
	// 默认provider必须自带可用端点，否则索引构建无法完成启动
	assert.Equal(t, "https://dashscope.aliyuncs.com/compatible-mode/v1", AppConfig.Embedding.BaseURL)
	assert.Equal(t, "qwen-vl-max-latest", AppConfig.ChatModel.Model)
	assert.InDelta(t, 0.4, AppConfig.ChatModel.Temperature, 1e-9)
	assert.InDelta(t, 1.5, AppConfig.ChatModel.PresencePenalty, 1e-9)
	assert.False(t, AppConfig.ChatModel.EnableThinking)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CHARACTER_QUOTES_PATH", "/data/quotes.txt")
	t.Setenv("MILVUS_ADDRESS", "milvus:19530")
	t.Setenv("DASHSCOPE_API_KEY", "sk-test")
	t.Setenv("MODEL_SERVICE_URL", "http://llm.internal/v1")
	t.Setenv("CHUNK_STRATEGY", "window")

	require.NoError(t, LoadConfig())

	assert.Equal(t, "9090", AppConfig.Server.Port)
	assert.Equal(t, "/data/quotes.txt", AppConfig.Persona.QuotesPath)
	assert.Equal(t, "milvus:19530", AppConfig.VectorStore.Milvus.Address)
	assert.Equal(t, "window", AppConfig.Persona.Chunking.Strategy)
	assert.Equal(t, "http://llm.internal/v1", AppConfig.ChatModel.BaseURL)

	// DashScope密钥同时配置向量化与对话模型
	assert.Equal(t, "sk-test", AppConfig.Embedding.APIKey)
	assert.Equal(t, "sk-test", AppConfig.ChatModel.APIKey)
}

func TestEmbeddingBaseURLOverride(t *testing.T) {
	t.Setenv("EMBEDDING_BASE_URL", "http://embed.internal/v1")

	require.NoError(t, LoadConfig())
	assert.Equal(t, "http://embed.internal/v1", AppConfig.Embedding.BaseURL)
}

func TestBackgroundFromRawString(t *testing.T) {
	t.Setenv("BACKGROUND", "他是一名星际航行员。")

	require.NoError(t, LoadConfig())
	assert.Equal(t, "他是一名星际航行员。", AppConfig.Persona.Background)
}

func TestBackgroundFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "background.txt")
	require.NoError(t, os.WriteFile(path, []byte("  文件里的背景设定。\n"), 0o644))
	t.Setenv("BACKGROUND", path)

	require.NoError(t, LoadConfig())
	assert.Equal(t, "文件里的背景设定。", AppConfig.Persona.Background)
}
