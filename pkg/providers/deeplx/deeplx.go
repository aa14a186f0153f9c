package deeplx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/nerdneilsfield/lxb-translator/pkg/providers"
)

// Config DeepLX配置
type Config struct {
	providers.BaseConfig
	// 可选的访问令牌
	AccessToken string `json:"access_token,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	config := Config{
		BaseConfig: providers.DefaultConfig(),
	}
	// 默认使用本地DeepLX服务
	config.APIEndpoint = "http://localhost:1188/translate"
	return config
}

// Provider DeepLX提供商
type Provider struct {
	config     Config
	httpClient *http.Client
}

// 确保 Provider 实现 providers.TranslationProvider 接口
var _ providers.TranslationProvider = (*Provider)(nil)

// New 创建新的DeepLX提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = "http://localhost:1188/translate"
	}

	return &Provider{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	deeplxReq := TranslateRequest{
		Text:       req.Text,
		SourceLang: normalizeLanguageCode(req.SourceLanguage),
		TargetLang: normalizeLanguageCode(req.TargetLanguage),
	}

	resp, err := p.translate(ctx, deeplxReq)
	if err != nil {
		return nil, err
	}

	if resp.Code != 200 {
		return nil, providers.NewError(providers.ErrCodeBadResponse,
			fmt.Sprintf("translation failed: %s", resp.Message))
	}

	metadata := make(map[string]string)
	if resp.SourceLang != "" {
		metadata["detected_source"] = resp.SourceLang
	}

	return &providers.Response{
		Text:     resp.Data,
		Model:    "deeplx",
		Metadata: metadata,
	}, nil
}

// GetName 获取提供商名称
func (p *Provider) GetName() string {
	return "deeplx"
}

// translate 执行翻译请求
func (p *Provider) translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		p.config.APIEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if p.config.AccessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.config.AccessToken)
	}
	for k, v := range p.config.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, providers.NewError(providers.ErrCodeTransport, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, providers.NewError(providers.ErrCodeAuth, resp.Status)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, providers.NewError(providers.ErrCodeRateLimit, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, providers.NewError(providers.ErrCodeTransport, resp.Status)
	}

	var translateResp TranslateResponse
	if err := json.NewDecoder(resp.Body).Decode(&translateResp); err != nil {
		return nil, providers.NewError(providers.ErrCodeBadResponse, "failed to decode response: "+err.Error())
	}

	return &translateResp, nil
}

// normalizeLanguageCode DeepLX使用大写语言代码
func normalizeLanguageCode(lang string) string {
	if lang == "" || strings.EqualFold(lang, "auto") {
		return "auto"
	}
	// 取主语言部分：pt-BR → PT
	if idx := strings.IndexAny(lang, "-_"); idx > 0 {
		lang = lang[:idx]
	}
	return strings.ToUpper(lang)
}

// TranslateRequest 翻译请求
type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// TranslateResponse 翻译响应
type TranslateResponse struct {
	Code       int    `json:"code"`
	Message    string `json:"message,omitempty"`
	Data       string `json:"data"`
	SourceLang string `json:"source_lang,omitempty"`
	TargetLang string `json:"target_lang,omitempty"`
}
