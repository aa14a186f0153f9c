package lxb

import "strings"

// Delimiter 保护标记的分隔符字节
const Delimiter = '$'

// FragmentKind 片段类型
type FragmentKind int

const (
	// KindPlain 可翻译的普通文本片段
	KindPlain FragmentKind = iota
	// KindProtected $...$ 包裹的保护标记，原样透传
	KindProtected
)

// String 返回片段类型的可读名称
func (k FragmentKind) String() string {
	switch k {
	case KindProtected:
		return "protected"
	default:
		return "plain"
	}
}

// Fragment 从二进制缓冲区提取出的一个文本片段
type Fragment struct {
	Text string
	Kind FragmentKind
}

// IsProtected 判断文本是否为保护标记（两端均为分隔符）
func IsProtected(text string) bool {
	return len(text) >= 2 &&
		strings.HasPrefix(text, string(Delimiter)) &&
		strings.HasSuffix(text, string(Delimiter))
}

// FragmentSet 一个缓冲区内的去重片段集合，保持首次出现顺序
type FragmentSet struct {
	fragments []Fragment
	seen      map[string]struct{}
}

// NewFragmentSet 创建空片段集合
func NewFragmentSet() *FragmentSet {
	return &FragmentSet{
		seen: make(map[string]struct{}),
	}
}

// Add 加入片段；重复文本被忽略
func (s *FragmentSet) Add(f Fragment) {
	if _, ok := s.seen[f.Text]; ok {
		return
	}
	s.seen[f.Text] = struct{}{}
	s.fragments = append(s.fragments, f)
}

// Contains 判断文本是否已在集合中
func (s *FragmentSet) Contains(text string) bool {
	_, ok := s.seen[text]
	return ok
}

// Fragments 按首次出现顺序返回全部片段
func (s *FragmentSet) Fragments() []Fragment {
	return s.fragments
}

// Len 返回片段数量
func (s *FragmentSet) Len() int {
	return len(s.fragments)
}
