package providers

import (
	"context"
	"time"
)

// BaseConfig 基础配置
type BaseConfig struct {
	// API配置
	APIKey      string `json:"api_key,omitempty"`
	APIEndpoint string `json:"api_endpoint,omitempty"`

	// 超时
	Timeout time.Duration `json:"timeout"`

	// 自定义头部
	Headers map[string]string `json:"headers,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() BaseConfig {
	return BaseConfig{
		Timeout: 2 * time.Minute,
		Headers: make(map[string]string),
	}
}

// TranslationProvider 提供商基础接口
type TranslationProvider interface {
	// Translate 执行翻译
	Translate(ctx context.Context, req *Request) (*Response, error)

	// GetName 获取提供商名称
	GetName() string
}

// Request 提供商请求
type Request struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language,omitempty"`
	TargetLanguage string `json:"target_language,omitempty"`
}

// Response 提供商响应
type Response struct {
	Text     string            `json:"text"`
	Model    string            `json:"model,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// 错误代码。调度器对各类失败一视同仁：有限重试后回退原文。
const (
	ErrCodeTransport   = "transport"
	ErrCodeAuth        = "auth"
	ErrCodeBadResponse = "bad_response"
	ErrCodeRateLimit   = "rate_limit"
)

// Error 提供商错误
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// NewError 创建提供商错误
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}
