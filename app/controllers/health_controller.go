package controllers

import (
	"net/http"

	"github.com/personahub/rag-go/app/bootstrap"
)

// RootController 根控制器
type RootController struct {
	BaseController
}

func (c *RootController) Index() {
	c.JSONSuccess(map[string]string{"message": "Persona RAG Service API"})
}

// HealthController 健康检查控制器
type HealthController struct {
	BaseController
}

// Health 进程存活与依赖就绪状态
func (c *HealthController) Health() {
	app := bootstrap.GetApp()
	if app == nil {
		c.JSONError(http.StatusServiceUnavailable, "App instance not available")
		return
	}

	status := app.HealthStatus()
	if status["status"] != "healthy" {
		c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"success": false,
			"data":    status,
		})
		return
	}
	c.JSONSuccess(status)
}
