package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParagraphSplitter(t *testing.T) {
	s := &ParagraphSplitter{}

	text := "第一段内容。\n\n第二段内容。\n   \n第三段内容。"
	chunks := s.Split(text)

	assert.Equal(t, []string{"第一段内容。", "第二段内容。", "第三段内容。"}, chunks)
}

func TestParagraphSplitterDropsEmpty(t *testing.T) {
	s := &ParagraphSplitter{}

	assert.Empty(t, s.Split(""))
	assert.Empty(t, s.Split("\n\n\n\n"))
	assert.Equal(t, []string{"单段"}, s.Split("  单段  "))
}

func TestWindowSplitterCoverage(t *testing.T) {
	s := NewWindowSplitter(100, 20)

	var b strings.Builder
	for i := 0; i < 450; i++ {
		b.WriteRune(rune('a' + i%26))
	}
	text := b.String()

	chunks := s.Split(text)
	assert.NotEmpty(t, chunks)

	// 每块不超过窗口大小
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 100)
	}

	// 相邻窗口重叠20个字符，步长80：450字符需要6个窗口
	assert.Len(t, chunks, 6)

	// 首尾字符都被覆盖
	assert.Equal(t, text[:1], chunks[0][:1])
	last := chunks[len(chunks)-1]
	assert.Equal(t, text[len(text)-1:], last[len(last)-1:])
}

func TestWindowSplitterOverlap(t *testing.T) {
	s := NewWindowSplitter(10, 4)

	text := "0123456789abcdefghij"
	chunks := s.Split(text)

	// 步长6：窗口起点0、6、12，末窗触底后停止
	assert.Equal(t, []string{"0123456789", "6789abcdef", "cdefghij"}, chunks)
}

func TestWindowSplitterSkipsWhitespaceOnly(t *testing.T) {
	s := NewWindowSplitter(4, 0)

	chunks := s.Split("ab      cd")
	for _, c := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
}

func TestNewSplitterStrategy(t *testing.T) {
	assert.IsType(t, &WindowSplitter{}, NewSplitter("window", 100, 10))
	assert.IsType(t, &ParagraphSplitter{}, NewSplitter("paragraph", 100, 10))
	assert.IsType(t, &ParagraphSplitter{}, NewSplitter("unknown", 100, 10))
}
