package rag

import (
	"regexp"
	"strings"
)

// Splitter 将原始语料切分为可检索的文本块
type Splitter interface {
	Split(text string) []string
}

// NewSplitter 按策略名创建切分器，未知策略回退到段落切分
func NewSplitter(strategy string, chunkSize, chunkOverlap int) Splitter {
	if strings.EqualFold(strategy, "window") {
		return NewWindowSplitter(chunkSize, chunkOverlap)
	}
	return &ParagraphSplitter{}
}

var paragraphBreakPattern = regexp.MustCompile(`\n\s*\n`)

// ParagraphSplitter 按空行边界切分，去除首尾空白并丢弃空结果
type ParagraphSplitter struct{}

func (s *ParagraphSplitter) Split(text string) []string {
	parts := paragraphBreakPattern.Split(text, -1)
	chunks := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		chunks = append(chunks, p)
	}
	return chunks
}

// WindowSplitter 固定窗口切分：窗口长chunkSize个字符，
// 相邻窗口重叠chunkOverlap个字符，覆盖全部输入
type WindowSplitter struct {
	chunkSize    int
	chunkOverlap int
}

// NewWindowSplitter 创建固定窗口切分器
func NewWindowSplitter(chunkSize, overlap int) *WindowSplitter {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &WindowSplitter{
		chunkSize:    chunkSize,
		chunkOverlap: overlap,
	}
}

func (s *WindowSplitter) Split(text string) []string {
	runes := []rune(text)
	var chunks []string

	step := s.chunkSize - s.chunkOverlap
	if step <= 0 {
		step = s.chunkSize
	}

	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		// 仅去除窗口首尾空白，非空白字符全部保留
		chunkText := strings.TrimSpace(string(runes[start:end]))
		if chunkText != "" {
			chunks = append(chunks, chunkText)
		}
		if end == len(runes) {
			break
		}
	}

	return chunks
}
