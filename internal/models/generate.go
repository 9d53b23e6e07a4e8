package models

// Attachment 消息附件。Type为MIME类型，仅image/*参与多模态输入
type Attachment struct {
	URL       string `json:"url" validate:"required"`
	Filename  string `json:"filename"`
	MimeType  string `json:"type"`
	SizeBytes int64  `json:"size"`
}

// IsImage 是否为图片附件
func (a Attachment) IsImage() bool {
	return len(a.MimeType) >= 6 && a.MimeType[:6] == "image/"
}

// GenerateRequest 回复生成请求
type GenerateRequest struct {
	MessageID      string       `json:"message_id" validate:"required"`
	Text           string       `json:"text" validate:"required"`
	Attachments    []Attachment `json:"attachments" validate:"dive"`
	HasAttachments bool         `json:"has_attachments"`
}

// GenerateResponse 回复生成响应。
// 字段与上游契约一一对应，emotion为五值情绪标签，
// rag_docs为本次实际注入提示词的参考语料
type GenerateResponse struct {
	MessageID        string       `json:"message_id"`
	ResponseText     string       `json:"response_text"`
	UserText         string       `json:"user_text"`
	Emotion          string       `json:"emotion"`
	RagDocs          []string     `json:"rag_docs"`
	CompletionID     string       `json:"completion_id"`
	CompletionTokens int          `json:"completion_tokens"`
	TotalTokens      int          `json:"total_tokens"`
	PromptTokens     int          `json:"prompt_tokens"`
	Attachments      []Attachment `json:"attachments"`
	HasAttachments   bool         `json:"has_attachments"`
	AttachmentCount  int          `json:"attachment_count"`
}
