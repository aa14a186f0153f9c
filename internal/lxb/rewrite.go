package lxb

import "bytes"

// Rewriter 对工作缓冲区执行字节级替换
type Rewriter struct {
	codec *Codec
}

// NewRewriter 创建替换器
func NewRewriter(codec *Codec) *Rewriter {
	return &Rewriter{codec: codec}
}

// Substitute 将缓冲区中 search 的每个非重叠出现替换为 replace，
// 匹配是字面字节序列匹配；search 不存在时原样返回输入。
func (r *Rewriter) Substitute(buf []byte, search, replace string) ([]byte, error) {
	searchBytes, err := r.codec.Encode(search)
	if err != nil {
		return nil, err
	}
	if len(searchBytes) == 0 || !bytes.Contains(buf, searchBytes) {
		return buf, nil
	}
	replaceBytes, err := r.codec.Encode(replace)
	if err != nil {
		return nil, err
	}
	return bytes.ReplaceAll(buf, searchBytes, replaceBytes), nil
}

// Apply 按集合的首次出现顺序，在同一工作副本上依次套用全部替换。
// translate 返回每个片段文本对应的替换文本；返回原文时跳过替换。
func (r *Rewriter) Apply(buf []byte, set *FragmentSet, translate func(Fragment) string) ([]byte, error) {
	working := buf
	for _, frag := range set.Fragments() {
		replacement := translate(frag)
		if replacement == frag.Text {
			continue
		}
		var err error
		working, err = r.Substitute(working, frag.Text, replacement)
		if err != nil {
			return nil, err
		}
	}
	return working, nil
}
