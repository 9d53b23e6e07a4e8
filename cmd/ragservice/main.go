package main

import (
	"log"
	"strconv"

	"github.com/beego/beego/v2/server/web"
	"go.uber.org/zap"

	"github.com/personahub/rag-go/app/bootstrap"
	"github.com/personahub/rag-go/app/router"
	"github.com/personahub/rag-go/internal/config"
	"github.com/personahub/rag-go/internal/logger"
)

func main() {
	app, err := bootstrap.Init()
	if err != nil {
		log.Fatalf("failed to bootstrap application: %v", err)
	}
	defer app.Shutdown()
	bootstrap.SetGlobalApp(app)

	router.Init()

	web.BConfig.AppName = "Persona RAG Service"
	web.BConfig.CopyRequestBody = true
	if p, err := strconv.Atoi(config.AppConfig.Server.Port); err == nil {
		web.BConfig.Listen.HTTPPort = p
	}

	logger.Info("🚀 Starting Persona RAG Service",
		zap.Int("port", web.BConfig.Listen.HTTPPort))
	web.Run()
}
