package services

import (
	"fmt"
	"strings"

	"github.com/personahub/rag-go/internal/dashscope"
	"github.com/personahub/rag-go/internal/logger"
	"github.com/personahub/rag-go/internal/models"
	"github.com/personahub/rag-go/internal/sentiment"
	"go.uber.org/zap"
)

// PromptAssembler 拼装发给LLM的消息序列。
// 系统消息承载人设、背景与用户当前情绪；用户消息承载输入与参考资料。
// 图片附件转为多模态分段，非图片附件计数后丢弃
type PromptAssembler struct {
	background string
}

// NewPromptAssembler 创建提示词拼装器
func NewPromptAssembler(background string) *PromptAssembler {
	return &PromptAssembler{background: strings.TrimSpace(background)}
}

// Assemble 拼装消息序列。返回消息与被忽略的非图片附件数。
// 无图片附件时用户消息为纯文本；有图片时文本分段在前、
// 图片分段按附件原始顺序排在其后
func (a *PromptAssembler) Assemble(userText string, emotion sentiment.Label, docs []string, attachments []models.Attachment) ([]dashscope.ChatMessage, int) {
	systemContent := fmt.Sprintf(
		"你是夏鸣星，是用户的恋人。夏鸣星背景 %s 用户她现在情绪是：%s。\n"+
			"请用温柔、真实的语气回应她。\n"+
			"不要重复她说的话，不要总结，不要分析，只表达你真实的回应。\n"+
			"只能参考资料，不允许编造，不要描述对方的任何具体生理外貌特征。",
		a.background, emotion.Chinese())

	userContent := fmt.Sprintf("【用户输入】：%s\n【你可以参考的资料】：%s",
		userText, strings.Join(docs, "\n"))

	var imageParts []dashscope.ContentPart
	ignored := 0
	for _, att := range attachments {
		if !att.IsImage() {
			ignored++
			logger.Warn("忽略非图片附件",
				zap.String("filename", att.Filename),
				zap.String("type", att.MimeType))
			continue
		}
		imageParts = append(imageParts, dashscope.ContentPart{
			Type:     "image_url",
			ImageURL: &dashscope.ImageURL{URL: att.URL},
		})
	}

	userMessage := dashscope.ChatMessage{Role: "user"}
	if len(imageParts) == 0 {
		userMessage.Content = dashscope.TextContent(userContent)
	} else {
		parts := make([]dashscope.ContentPart, 0, len(imageParts)+1)
		parts = append(parts, dashscope.ContentPart{Type: "text", Text: userContent})
		parts = append(parts, imageParts...)
		userMessage.Content = dashscope.PartsContent(parts)
	}

	messages := []dashscope.ChatMessage{
		{Role: "system", Content: dashscope.TextContent(systemContent)},
		userMessage,
	}
	return messages, ignored
}
