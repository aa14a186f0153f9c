package lxb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScanner(t *testing.T, minLength int) *Scanner {
	t.Helper()
	codec, err := NewCodec("")
	require.NoError(t, err)
	return NewScanner(minLength, codec, nil)
}

// 测试保护标记与普通片段的基本切分
func TestScanProtectedBlock(t *testing.T) {
	scanner := newTestScanner(t, 3)

	set, err := scanner.Scan([]byte("Press $BUT_A$ to jump"))
	require.NoError(t, err)

	fragments := set.Fragments()
	require.Len(t, fragments, 3)
	assert.Equal(t, Fragment{Text: "Press ", Kind: KindPlain}, fragments[0])
	assert.Equal(t, Fragment{Text: "$BUT_A$", Kind: KindProtected}, fragments[1])
	assert.Equal(t, Fragment{Text: " to jump", Kind: KindPlain}, fragments[2])
}

// 测试保护块内的不可打印字节原样保留
func TestScanProtectedBlockKeepsNonPrintableBytes(t *testing.T) {
	scanner := newTestScanner(t, 3)

	buf := []byte{'$', 'A', 'C', 'C', 0x01, '$'}
	set, err := scanner.Scan(buf)
	require.NoError(t, err)

	fragments := set.Fragments()
	require.Len(t, fragments, 1)
	assert.Equal(t, KindProtected, fragments[0].Kind)
	assert.Equal(t, "$ACC\x01$", fragments[0].Text)
}

// 测试不可打印字节终止普通片段
func TestScanControlByteTerminatesPlainRun(t *testing.T) {
	scanner := newTestScanner(t, 3)

	buf := []byte("abc\x00defg\x00hi")
	set, err := scanner.Scan(buf)
	require.NoError(t, err)

	fragments := set.Fragments()
	require.Len(t, fragments, 2)
	assert.Equal(t, "abc", fragments[0].Text)
	assert.Equal(t, "defg", fragments[1].Text)
}

// 测试长度与字母过滤
func TestScanFilters(t *testing.T) {
	scanner := newTestScanner(t, 3)

	t.Run("低于最小长度的片段被丢弃", func(t *testing.T) {
		set, err := scanner.Scan([]byte("ab\x00xyz"))
		require.NoError(t, err)
		require.Equal(t, 1, set.Len())
		assert.Equal(t, "xyz", set.Fragments()[0].Text)
	})

	t.Run("不含字母的片段被丢弃", func(t *testing.T) {
		set, err := scanner.Scan([]byte("12345\x00 -- \x00v1.2"))
		require.NoError(t, err)
		require.Equal(t, 1, set.Len())
		assert.Equal(t, "v1.2", set.Fragments()[0].Text)
	})
}

// 测试重复文本只保留首次出现
func TestScanDeduplicates(t *testing.T) {
	scanner := newTestScanner(t, 3)

	set, err := scanner.Scan([]byte("Save\x00Load\x00Save"))
	require.NoError(t, err)

	fragments := set.Fragments()
	require.Len(t, fragments, 2)
	assert.Equal(t, "Save", fragments[0].Text)
	assert.Equal(t, "Load", fragments[1].Text)
	assert.True(t, set.Contains("Save"))
}

// 测试扩展拉丁字节按容器编码解码
func TestScanExtendedLatin(t *testing.T) {
	scanner := newTestScanner(t, 3)

	// "Ação" 的 latin-1 字节
	buf := []byte{0x41, 0xE7, 0xE3, 0x6F}
	set, err := scanner.Scan(buf)
	require.NoError(t, err)

	fragments := set.Fragments()
	require.Len(t, fragments, 1)
	assert.Equal(t, "Ação", fragments[0].Text)
}

// 测试文件结尾未闭合的保护块被丢弃
func TestScanUnterminatedProtectedBlock(t *testing.T) {
	scanner := newTestScanner(t, 3)

	set, err := scanner.Scan([]byte("menu\x00$BUT_B"))
	require.NoError(t, err)

	fragments := set.Fragments()
	require.Len(t, fragments, 1)
	assert.Equal(t, "menu", fragments[0].Text)
}

// 测试空缓冲区
func TestScanEmptyBuffer(t *testing.T) {
	scanner := newTestScanner(t, 3)

	set, err := scanner.Scan(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

// 测试保护标记判断
func TestIsProtected(t *testing.T) {
	assert.True(t, IsProtected("$BUT_A$"))
	assert.True(t, IsProtected("$$"))
	assert.False(t, IsProtected("$BUT_A"))
	assert.False(t, IsProtected("BUT_A$"))
	assert.False(t, IsProtected("plain"))
	assert.False(t, IsProtected("$"))
}
