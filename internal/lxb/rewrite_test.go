package lxb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRewriter(t *testing.T) *Rewriter {
	t.Helper()
	codec, err := NewCodec("")
	require.NoError(t, err)
	return NewRewriter(codec)
}

// 测试基本的字节替换
func TestSubstitute(t *testing.T) {
	rewriter := newTestRewriter(t)

	buf := []byte("Press \x00Press \x00jump")
	out, err := rewriter.Substitute(buf, "Press ", "Pressione ")
	require.NoError(t, err)
	assert.Equal(t, []byte("Pressione \x00Pressione \x00jump"), out)
}

// 测试替换文本含扩展拉丁字符时按容器编码写回
func TestSubstituteEncodesReplacement(t *testing.T) {
	rewriter := newTestRewriter(t)

	out, err := rewriter.Substitute([]byte("Action"), "Action", "Ação")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x41, 0xE7, 0xE3, 0x6F}, out)
}

// 测试搜索文本不存在时缓冲区原样返回
func TestSubstituteMissingSearchIsNoOp(t *testing.T) {
	rewriter := newTestRewriter(t)

	buf := []byte("unrelated content")
	out, err := rewriter.Substitute(buf, "missing", "anything")
	require.NoError(t, err)
	assert.Equal(t, buf, out)
}

// 测试按首次出现顺序套用全部替换
func TestApply(t *testing.T) {
	rewriter := newTestRewriter(t)
	codec, err := NewCodec("")
	require.NoError(t, err)
	scanner := NewScanner(3, codec, nil)

	buf := []byte("Press $BUT_A$ to jump")
	set, err := scanner.Scan(buf)
	require.NoError(t, err)

	translations := map[string]string{
		"Press ":   "Pressione ",
		" to jump": " para saltar",
	}

	out, err := rewriter.Apply(buf, set, func(f Fragment) string {
		if translated, ok := translations[f.Text]; ok {
			return translated
		}
		return f.Text
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("Pressione $BUT_A$ para saltar"), out)
}

// 测试全部译文等于原文时缓冲区保持不变
func TestApplyIdentityIsNoOp(t *testing.T) {
	rewriter := newTestRewriter(t)
	codec, err := NewCodec("")
	require.NoError(t, err)
	scanner := NewScanner(3, codec, nil)

	buf := []byte("Press $BUT_A$ to jump")
	set, err := scanner.Scan(buf)
	require.NoError(t, err)

	out, err := rewriter.Apply(buf, set, func(f Fragment) string {
		return f.Text
	})
	require.NoError(t, err)
	assert.Equal(t, buf, out)
}
