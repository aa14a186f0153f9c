package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nerdneilsfield/lxb-translator/pkg/providers"
)

// Config 通用LLM网关配置（任意OpenAI兼容端点）
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

// Provider LLM网关提供商，使用官方SDK对接OpenAI兼容端点
type Provider struct {
	config Config
	client openai.Client
}

// 确保 Provider 实现 providers.TranslationProvider 接口
var _ providers.TranslationProvider = (*Provider)(nil)

// New 创建新的网关提供商
func New(config Config) *Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}

	if config.APIEndpoint != "" {
		opts = append(opts, option.WithBaseURL(config.APIEndpoint))
	}

	for k, v := range config.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.Timeout))
	}

	return &Provider{
		config: config,
		client: openai.NewClient(opts...),
	}
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage("You are a professional translator. Translate accurately while preserving the original meaning and tone. Return only the translated text."),
		openai.UserMessage(fmt.Sprintf("Translate the following text from %s to %s:\n\n%s",
			req.SourceLanguage, req.TargetLanguage, req.Text)),
	}

	params := openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    openai.ChatModel(p.config.Model),
	}

	if p.config.Temperature > 0 {
		params.Temperature = openai.Float(float64(p.config.Temperature))
	}
	if p.config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.config.MaxTokens))
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, providers.NewError(providers.ErrCodeTransport, err.Error())
	}

	if len(completion.Choices) == 0 {
		return nil, providers.NewError(providers.ErrCodeBadResponse, "no choices returned")
	}

	return &providers.Response{
		Text:  strings.TrimSpace(completion.Choices[0].Message.Content),
		Model: completion.Model,
		Metadata: map[string]string{
			"finish_reason": string(completion.Choices[0].FinishReason),
			"id":            completion.ID,
		},
	}, nil
}

// GetName 获取提供商名称
func (p *Provider) GetName() string {
	return "gateway"
}
