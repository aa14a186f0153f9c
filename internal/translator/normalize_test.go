package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 测试包围引号剥除
func TestTrimSurroundingQuotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"英文双引号", `"Pressione "`, "Pressione"},
		{"弯引号", "“Pressione”", "Pressione"},
		{"书名号", "«Pressione»", "Pressione"},
		{"无引号时首尾空白保留", "  Pressione  ", "  Pressione  "},
		{"只有左引号不剥除", `"Pressione`, `"Pressione`},
		{"内部引号保留", `Press "A" now`, `Press "A" now`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TrimSurroundingQuotes(tt.input))
		})
	}
}

// 测试结尾括号注释剥除
func TestStripTrailingParenthetical(t *testing.T) {
	assert.Equal(t, "Saltar", StripTrailingParenthetical("Saltar (jump)"))
	assert.Equal(t, "Saltar", StripTrailingParenthetical("Saltar (jump) "))
	assert.Equal(t, "Press (A) to jump", StripTrailingParenthetical("Press (A) to jump"))
	// 整条译文都是括号时保留原样
	assert.Equal(t, "(Saltar)", StripTrailingParenthetical("(Saltar)"))
}

// 测试弯引号统一为 ASCII 引号
func TestCanonicalizeQuotes(t *testing.T) {
	assert.Equal(t, `"ola" e 'tchau'`, CanonicalizeQuotes("“ola” e ‘tchau’"))
}

// 测试按提供商组装的清理链
func TestNewNormalizerFor(t *testing.T) {
	t.Run("llm后端剥除结尾括号注释", func(t *testing.T) {
		n := NewNormalizerFor("openai")
		assert.Equal(t, "Saltar", n.Normalize(`"Saltar (jump)"`))
	})

	t.Run("api后端保留括号", func(t *testing.T) {
		n := NewNormalizerFor("google")
		assert.Equal(t, "Saltar (jump)", n.Normalize("Saltar (jump)"))
	})
}
