package lxb

import (
	"unicode"

	"go.uber.org/zap"
)

// DefaultMinFragmentLength 普通片段的默认最小长度
const DefaultMinFragmentLength = 3

// Scanner 从 .lxb 缓冲区提取文本片段
type Scanner struct {
	minLength int
	codec     *Codec
	logger    *zap.Logger
}

// NewScanner 创建扫描器
func NewScanner(minLength int, codec *Codec, logger *zap.Logger) *Scanner {
	if minLength <= 0 {
		minLength = DefaultMinFragmentLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		minLength: minLength,
		codec:     codec,
		logger:    logger,
	}
}

// Scan 对缓冲区做单次从左到右扫描，返回去重后的片段集合。
// 分隔符 $ 切换保护块状态；保护块内的任意字节原样累积，
// 保护块外只累积可打印字节，其余字节作为普通片段的终止符。
func (s *Scanner) Scan(buf []byte) (*FragmentSet, error) {
	set := NewFragmentSet()
	var acc []byte
	inProtected := false

	for _, b := range buf {
		if b == Delimiter {
			if inProtected {
				text, err := s.codec.Decode(acc)
				if err != nil {
					return nil, err
				}
				set.Add(Fragment{
					Text: string(Delimiter) + text + string(Delimiter),
					Kind: KindProtected,
				})
			} else if err := s.flushPlain(set, acc); err != nil {
				return nil, err
			}
			acc = acc[:0]
			inProtected = !inProtected
			continue
		}

		if inProtected || isPrintable(b) {
			acc = append(acc, b)
			continue
		}

		if err := s.flushPlain(set, acc); err != nil {
			return nil, err
		}
		acc = acc[:0]
	}

	if inProtected {
		// 缓冲区结尾缺少闭合分隔符的保护块无法往返，丢弃
		s.logger.Debug("discarding unterminated protected block",
			zap.Int("pending_bytes", len(acc)))
		return set, nil
	}
	if err := s.flushPlain(set, acc); err != nil {
		return nil, err
	}
	return set, nil
}

// flushPlain 对累积的普通字节做长度与字母测试，通过则加入集合
func (s *Scanner) flushPlain(set *FragmentSet, acc []byte) error {
	if len(acc) < s.minLength {
		return nil
	}
	text, err := s.codec.Decode(acc)
	if err != nil {
		return err
	}
	if !hasLetter(text) {
		return nil
	}
	set.Add(Fragment{Text: text, Kind: KindPlain})
	return nil
}

// isPrintable 判断字节是否属于可打印范围：ASCII 0x20–0x7E 或扩展拉丁 0xA0 以上
func isPrintable(b byte) bool {
	return (b >= 0x20 && b <= 0x7E) || b >= 0xA0
}

// hasLetter 判断解码后的文本是否至少包含一个字母
func hasLetter(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
