package openai

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nerdneilsfield/lxb-translator/pkg/providers"
)

// Config OpenAI配置
type Config struct {
	providers.BaseConfig
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		BaseConfig:  providers.DefaultConfig(),
		Model:       "gpt-4o-mini",
		Temperature: 0.3,
		MaxTokens:   1024,
	}
}

// Provider OpenAI提供商
type Provider struct {
	config Config
	client *openai.Client
}

// 确保 Provider 实现 providers.TranslationProvider 接口
var _ providers.TranslationProvider = (*Provider)(nil)

// New 创建新的OpenAI提供商
func New(config Config) *Provider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.APIEndpoint != "" {
		// go-openai 的 API 后缀以斜杠开头，去掉结尾斜杠避免双斜杠
		clientConfig.BaseURL = strings.TrimSuffix(config.APIEndpoint, "/")
	}

	return &Provider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a professional translator. Translate accurately while preserving the original meaning and tone. Return only the translated text.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Translate the following text from " + req.SourceLanguage + " to " + req.TargetLanguage + ":\n\n" + req.Text,
			},
		},
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, providers.NewError(providers.ErrCodeTransport, err.Error())
	}

	if len(resp.Choices) == 0 {
		return nil, providers.NewError(providers.ErrCodeBadResponse, "no choices returned")
	}

	return &providers.Response{
		Text:  strings.TrimSpace(resp.Choices[0].Message.Content),
		Model: resp.Model,
	}, nil
}

// GetName 获取提供商名称
func (p *Provider) GetName() string {
	return "openai"
}
