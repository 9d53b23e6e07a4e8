package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Persona     PersonaConfig
	Retrieval   RetrievalConfig
	VectorStore VectorStoreConfig
	Embedding   EmbeddingConfig
	ChatModel   ChatModelConfig
	Pipeline    PipelineConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// PersonaConfig 角色语料与人设配置
type PersonaConfig struct {
	QuotesPath string
	Background string
	Chunking   ChunkingConfig
}

// ChunkingConfig 语料分块策略配置
type ChunkingConfig struct {
	Strategy     string // paragraph | window
	ChunkSize    int
	ChunkOverlap int
}

type RetrievalConfig struct {
	TopK int
}

type VectorStoreConfig struct {
	Milvus MilvusConfig
}

// MilvusConfig Milvus连接配置。向量维度跟随embedding.dimensions，
// 相似度度量固定为余弦
type MilvusConfig struct {
	Address    string
	Username   string
	Password   string
	Collection string
	Database   string
	TLS        bool
}

// EmbeddingConfig 向量化模型配置
type EmbeddingConfig struct {
	Provider       string // dashscope | openai
	APIKey         string
	BaseURL        string
	Model          string
	Dimensions     int
	BatchSize      int
	TimeoutSeconds int
}

// ChatModelConfig 对话模型配置（生成参数为固定常量，不受请求控制）
type ChatModelConfig struct {
	BaseURL         string
	APIKey          string
	Model           string
	Temperature     float64
	TopP            float64
	TopK            int
	MaxTokens       int
	PresencePenalty float64
	TimeoutSeconds  int
	EnableThinking  bool
}

type PipelineConfig struct {
	RequestTimeoutSeconds int
}

var AppConfig *Config

func LoadConfig() error {
	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.env", "development")

	// 角色语料默认值
	viper.SetDefault("persona.quotes_path", "data/character_quotes.txt")
	viper.SetDefault("persona.background", "")
	viper.SetDefault("persona.chunking.strategy", "paragraph")
	viper.SetDefault("persona.chunking.chunk_size", 800)
	viper.SetDefault("persona.chunking.chunk_overlap", 120)

	// 检索默认值
	viper.SetDefault("retrieval.top_k", 4)

	// 向量库默认值
	viper.SetDefault("vector_store.milvus.address", "localhost:19530")
	viper.SetDefault("vector_store.milvus.collection", "persona_quotes")
	viper.SetDefault("vector_store.milvus.database", "default")
	viper.SetDefault("vector_store.milvus.tls", false)

	// 向量化模型默认值
	viper.SetDefault("embedding.provider", "dashscope")
	viper.SetDefault("embedding.base_url", "https://dashscope.aliyuncs.com/compatible-mode/v1")
	viper.SetDefault("embedding.model", "text-embedding-v4")
	viper.SetDefault("embedding.dimensions", 1024)
	viper.SetDefault("embedding.batch_size", 10)
	viper.SetDefault("embedding.timeout_secs", 30)

	// 对话模型默认值（与线上服务保持一致的采样参数）
	viper.SetDefault("chat_model.base_url", "https://dashscope.aliyuncs.com/compatible-mode/v1")
	viper.SetDefault("chat_model.model", "qwen-vl-max-latest")
	viper.SetDefault("chat_model.temperature", 0.4)
	viper.SetDefault("chat_model.top_p", 0.8)
	viper.SetDefault("chat_model.top_k", 20)
	viper.SetDefault("chat_model.max_tokens", 1024)
	viper.SetDefault("chat_model.presence_penalty", 1.5)
	viper.SetDefault("chat_model.timeout_secs", 60)
	viper.SetDefault("chat_model.enable_thinking", false)

	viper.SetDefault("pipeline.request_timeout_secs", 60)

	// 读取环境变量
	viper.SetEnvPrefix("PERSONA")
	viper.AutomaticEnv()

	if port := os.Getenv("PORT"); port != "" {
		viper.Set("server.port", port)
	}
	if env := os.Getenv("ENV"); env != "" {
		viper.Set("server.env", env)
	}
	if quotesPath := os.Getenv("CHARACTER_QUOTES_PATH"); quotesPath != "" {
		viper.Set("persona.quotes_path", quotesPath)
	}
	if background := os.Getenv("BACKGROUND"); background != "" {
		viper.Set("persona.background", background)
	}
	if strategy := os.Getenv("CHUNK_STRATEGY"); strategy != "" {
		viper.Set("persona.chunking.strategy", strategy)
	}
	if address := os.Getenv("MILVUS_ADDRESS"); address != "" {
		viper.Set("vector_store.milvus.address", address)
	}
	if collection := os.Getenv("MILVUS_COLLECTION"); collection != "" {
		viper.Set("vector_store.milvus.collection", collection)
	}
	if provider := os.Getenv("EMBEDDING_PROVIDER"); provider != "" {
		viper.Set("embedding.provider", provider)
	}
	if model := os.Getenv("EMBEDDING_MODEL"); model != "" {
		viper.Set("embedding.model", model)
	}
	if baseURL := os.Getenv("EMBEDDING_BASE_URL"); baseURL != "" {
		viper.Set("embedding.base_url", baseURL)
	}
	// DashScope密钥同时用于向量化与对话模型
	if dashscopeKey := os.Getenv("DASHSCOPE_API_KEY"); dashscopeKey != "" {
		viper.Set("embedding.api_key", dashscopeKey)
		viper.Set("chat_model.api_key", dashscopeKey)
	}
	if openaiKey := os.Getenv("OPENAI_API_KEY"); openaiKey != "" && strings.EqualFold(viper.GetString("embedding.provider"), "openai") {
		viper.Set("embedding.api_key", openaiKey)
	}
	if serviceURL := os.Getenv("MODEL_SERVICE_URL"); serviceURL != "" {
		viper.Set("chat_model.base_url", serviceURL)
	}
	if chatModel := os.Getenv("CHAT_MODEL"); chatModel != "" {
		viper.Set("chat_model.model", chatModel)
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
			Env:  viper.GetString("server.env"),
		},
		Persona: PersonaConfig{
			QuotesPath: viper.GetString("persona.quotes_path"),
			Background: resolveBackground(viper.GetString("persona.background")),
			Chunking: ChunkingConfig{
				Strategy:     viper.GetString("persona.chunking.strategy"),
				ChunkSize:    viper.GetInt("persona.chunking.chunk_size"),
				ChunkOverlap: viper.GetInt("persona.chunking.chunk_overlap"),
			},
		},
		Retrieval: RetrievalConfig{
			TopK: viper.GetInt("retrieval.top_k"),
		},
		VectorStore: VectorStoreConfig{
			Milvus: MilvusConfig{
				Address:    viper.GetString("vector_store.milvus.address"),
				Username:   viper.GetString("vector_store.milvus.username"),
				Password:   viper.GetString("vector_store.milvus.password"),
				Collection: viper.GetString("vector_store.milvus.collection"),
				Database:   viper.GetString("vector_store.milvus.database"),
				TLS:        viper.GetBool("vector_store.milvus.tls"),
			},
		},
		Embedding: EmbeddingConfig{
			Provider:       viper.GetString("embedding.provider"),
			APIKey:         viper.GetString("embedding.api_key"),
			BaseURL:        viper.GetString("embedding.base_url"),
			Model:          viper.GetString("embedding.model"),
			Dimensions:     viper.GetInt("embedding.dimensions"),
			BatchSize:      viper.GetInt("embedding.batch_size"),
			TimeoutSeconds: viper.GetInt("embedding.timeout_secs"),
		},
		ChatModel: ChatModelConfig{
			BaseURL:         viper.GetString("chat_model.base_url"),
			APIKey:          viper.GetString("chat_model.api_key"),
			Model:           viper.GetString("chat_model.model"),
			Temperature:     viper.GetFloat64("chat_model.temperature"),
			TopP:            viper.GetFloat64("chat_model.top_p"),
			TopK:            viper.GetInt("chat_model.top_k"),
			MaxTokens:       viper.GetInt("chat_model.max_tokens"),
			PresencePenalty: viper.GetFloat64("chat_model.presence_penalty"),
			TimeoutSeconds:  viper.GetInt("chat_model.timeout_secs"),
			EnableThinking:  viper.GetBool("chat_model.enable_thinking"),
		},
		Pipeline: PipelineConfig{
			RequestTimeoutSeconds: viper.GetInt("pipeline.request_timeout_secs"),
		},
	}

	return validate(AppConfig)
}

// validate 校验启动必需项，缺失直接失败
func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Persona.QuotesPath) == "" {
		return fmt.Errorf("missing required config: persona.quotes_path (CHARACTER_QUOTES_PATH)")
	}
	if strings.TrimSpace(cfg.ChatModel.BaseURL) == "" {
		return fmt.Errorf("missing required config: chat_model.base_url (MODEL_SERVICE_URL)")
	}
	if cfg.Persona.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("persona.chunking.chunk_size must be positive")
	}
	if cfg.Persona.Chunking.ChunkOverlap < 0 || cfg.Persona.Chunking.ChunkOverlap >= cfg.Persona.Chunking.ChunkSize {
		return fmt.Errorf("persona.chunking.chunk_overlap must be in [0, chunk_size)")
	}
	return nil
}

// resolveBackground 人设背景支持直接文本或文件路径两种形式：
// 若值指向存在的文件则读取文件内容，否则按原始文本使用
func resolveBackground(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if info, err := os.Stat(value); err == nil && !info.IsDir() {
		data, err := os.ReadFile(value)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(data))
	}
	return value
}
