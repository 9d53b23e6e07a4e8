package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/personahub/rag-go/app/bootstrap"
	"github.com/personahub/rag-go/internal/logger"
	"github.com/personahub/rag-go/internal/models"
	"github.com/personahub/rag-go/internal/services"
	"go.uber.org/zap"
)

var validate = validator.New()

// GenerateController 回复生成控制器
type GenerateController struct {
	BaseController
	generateService *services.GenerateService
}

// Prepare Beego每请求实例化控制器，从全局App取服务
func (c *GenerateController) Prepare() {
	if app := bootstrap.GetApp(); app != nil {
		c.generateService = app.GenerateService()
	}
}

// Generate 处理 POST /generate
func (c *GenerateController) Generate() {
	if c.generateService == nil {
		c.JSONError(http.StatusServiceUnavailable, "service not initialized")
		return
	}

	var req models.GenerateRequest
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, &req); err != nil {
		c.JSONError(http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSONError(http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	resp, err := c.generateService.Handle(c.Ctx.Request.Context(), req)
	if err != nil {
		logger.Error("生成请求处理失败",
			zap.String("message_id", req.MessageID), zap.Error(err))
		c.JSONError(http.StatusInternalServerError, "Internal error: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, resp)
}
