package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/personahub/rag-go/internal/config"
	"github.com/personahub/rag-go/internal/dashscope"
	"github.com/personahub/rag-go/internal/logger"
	"github.com/personahub/rag-go/internal/rag"
	"github.com/personahub/rag-go/internal/sentiment"
	"github.com/personahub/rag-go/internal/services"
)

// App encapsulates lifecycle resources that need to be cleaned up on shutdown.
type App struct {
	cleanupTasks    []func() error
	index           *rag.Index
	store           rag.VectorStore
	generateService *services.GenerateService
	metricsService  *services.MetricsService
}

// GenerateService returns the request pipeline instance.
func (a *App) GenerateService() *services.GenerateService {
	return a.generateService
}

// MetricsService returns the metrics service instance.
func (a *App) MetricsService() *services.MetricsService {
	return a.metricsService
}

// HealthStatus 汇总依赖就绪状态
func (a *App) HealthStatus() map[string]string {
	status := map[string]string{
		"status": "healthy",
		"index":  string(a.index.State()),
	}
	if a.index.State() != rag.StateReady {
		status["status"] = "unhealthy"
	}
	if a.store != nil && !a.store.Ready() {
		status["status"] = "unhealthy"
		status["vector_store"] = "unreachable"
	}
	return status
}

// Global app instance for controllers to access
var globalApp *App

// GetApp returns the global app instance
func GetApp() *App {
	return globalApp
}

// SetGlobalApp sets the global app instance
func SetGlobalApp(app *App) {
	globalApp = app
}

// Init bootstraps configuration, logger, the retrieval index and the request
// pipeline required by the Beego application. 索引构建失败直接返回错误，
// 进程不得以空索引对外服务
func Init() (*App, error) {
	// Load environment variables from .env if present (non-fatal if missing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize structured logger.
	if err := logger.InitLogger(); err != nil {
		return nil, err
	}

	// Load dynamic configuration.
	if err := config.LoadConfig(); err != nil {
		return nil, err
	}
	cfg := config.AppConfig

	app := &App{}
	app.cleanupTasks = append(app.cleanupTasks, func() error {
		logger.Sync()
		return nil
	})

	// LLM网关走DashScope兼容模式端点
	chatService := dashscope.NewService(
		cfg.ChatModel.BaseURL,
		cfg.ChatModel.APIKey,
		time.Duration(cfg.ChatModel.TimeoutSeconds)*time.Second,
	)
	if !chatService.Ready() {
		logger.Warn("LLM服务未配置API key，所有请求将返回兜底回复")
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	store, err := rag.NewMilvusVectorStore(rag.MilvusOptions{
		Address:    cfg.VectorStore.Milvus.Address,
		Username:   cfg.VectorStore.Milvus.Username,
		Password:   cfg.VectorStore.Milvus.Password,
		Collection: cfg.VectorStore.Milvus.Collection,
		Database:   cfg.VectorStore.Milvus.Database,
		VectorSize: embedder.Dimensions(),
		UseTLS:     cfg.VectorStore.Milvus.TLS,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化向量存储失败: %w", err)
	}
	app.store = store

	splitter := rag.NewSplitter(
		cfg.Persona.Chunking.Strategy,
		cfg.Persona.Chunking.ChunkSize,
		cfg.Persona.Chunking.ChunkOverlap,
	)
	loader := rag.NewCorpusLoader(cfg.Persona.QuotesPath, splitter)

	index := rag.NewIndex(loader, embedder, store, cfg.Retrieval.TopK)
	if err := index.Build(context.Background()); err != nil {
		return nil, fmt.Errorf("构建检索索引失败: %w", err)
	}
	app.index = index

	classifier := sentiment.NewClassifier()
	assembler := services.NewPromptAssembler(cfg.Persona.Background)
	gateway := services.NewLLMGateway(chatService, services.GenerationParams{
		Model:           cfg.ChatModel.Model,
		Temperature:     cfg.ChatModel.Temperature,
		TopP:            cfg.ChatModel.TopP,
		TopK:            cfg.ChatModel.TopK,
		MaxTokens:       cfg.ChatModel.MaxTokens,
		PresencePenalty: cfg.ChatModel.PresencePenalty,
		EnableThinking:  cfg.ChatModel.EnableThinking,
	})

	app.metricsService = services.NewMetricsService()
	app.generateService = services.NewGenerateService(
		classifier,
		index,
		assembler,
		gateway,
		app.metricsService,
		time.Duration(cfg.Pipeline.RequestTimeoutSeconds)*time.Second,
	)

	logger.Info("服务初始化完成",
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("chat_model", cfg.ChatModel.Model),
		zap.Int("top_k", cfg.Retrieval.TopK))

	return app, nil
}

// buildEmbedder 按配置创建向量化后端。
// 向量化是索引与检索的前提，未配置视为部署错误
func buildEmbedder(cfg *config.Config) (rag.Embedder, error) {
	var embedder rag.Embedder
	switch {
	case strings.EqualFold(cfg.Embedding.Provider, "openai"):
		embedder = rag.NewOpenAIEmbedder(
			cfg.Embedding.APIKey,
			cfg.Embedding.BaseURL,
			cfg.Embedding.Model,
		)
	default:
		embedService := dashscope.NewService(
			cfg.Embedding.BaseURL,
			cfg.Embedding.APIKey,
			time.Duration(cfg.Embedding.TimeoutSeconds)*time.Second,
		)
		embedder = rag.NewDashScopeEmbedder(
			embedService,
			cfg.Embedding.Model,
			cfg.Embedding.Dimensions,
			cfg.Embedding.BatchSize,
		)
	}
	if !embedder.Ready() {
		return nil, fmt.Errorf("向量化后端未配置(provider=%s)", cfg.Embedding.Provider)
	}
	return embedder, nil
}

// Shutdown flushes/logs and closes resources gracefully.
func (a *App) Shutdown() {
	for i := len(a.cleanupTasks) - 1; i >= 0; i-- {
		if err := a.cleanupTasks[i](); err != nil {
			log.Printf("Cleanup error: %v\n", err)
		}
	}
}
