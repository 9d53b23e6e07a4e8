package controllers

import (
	"net/http"

	"github.com/personahub/rag-go/app/bootstrap"
)

// MetricsController Prometheus指标控制器
type MetricsController struct {
	BaseController
}

// Metrics 输出Prometheus指标
func (c *MetricsController) Metrics() {
	app := bootstrap.GetApp()
	if app == nil || app.MetricsService() == nil {
		c.JSONError(http.StatusServiceUnavailable, "metrics not available")
		return
	}
	app.MetricsService().ServeHTTP(c.Ctx.ResponseWriter, c.Ctx.Request)
}
