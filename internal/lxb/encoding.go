package lxb

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Codec .lxb 容器的字节编码器，负责字节序列与文本之间的转换
type Codec struct {
	name string
	enc  encoding.Encoding
}

// NewCodec 根据编码名称创建编码器
func NewCodec(name string) (*Codec, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "", "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		// 默认 Latin-1：每个字节与码点一一对应，保证字节级往返
		return &Codec{name: "iso-8859-1", enc: charmap.ISO8859_1}, nil
	case "windows-1252", "cp1252":
		return &Codec{name: "windows-1252", enc: charmap.Windows1252}, nil
	case "iso-8859-15", "iso8859-15":
		return &Codec{name: "iso-8859-15", enc: charmap.ISO8859_15}, nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", name)
	}
}

// Name 返回编码名称
func (c *Codec) Name() string {
	return c.name
}

// Decode 将容器字节解码为文本
func (c *Codec) Decode(data []byte) (string, error) {
	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", c.name, err)
	}
	return string(out), nil
}

// Encode 将文本编码为容器字节
func (c *Codec) Encode(text string) ([]byte, error) {
	out, err := c.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.name, err)
	}
	return out, nil
}
