package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nerdneilsfield/lxb-translator/pkg/providers"
)

// Config Google Translate配置
type Config struct {
	providers.BaseConfig
	ProjectID string `json:"project_id,omitempty"` // 用于Google Cloud Translation API
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	config := Config{
		BaseConfig: providers.DefaultConfig(),
	}
	config.APIEndpoint = "https://translation.googleapis.com/language/translate/v2"
	return config
}

// Provider Google Translate提供商
type Provider struct {
	config     Config
	httpClient *http.Client
}

// 确保 Provider 实现 providers.TranslationProvider 接口
var _ providers.TranslationProvider = (*Provider)(nil)

// New 创建新的Google Translate提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = "https://translation.googleapis.com/language/translate/v2"
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
	translateReq := TranslateRequest{
		Q:      req.Text,
		Source: normalizeLanguageCode(req.SourceLanguage),
		Target: normalizeLanguageCode(req.TargetLanguage),
		Format: "text",
	}

	resp, err := p.translate(ctx, translateReq)
	if err != nil {
		return nil, err
	}

	if len(resp.Data.Translations) == 0 {
		return nil, providers.NewError(providers.ErrCodeBadResponse, "no translation returned")
	}

	return &providers.Response{
		Text:  resp.Data.Translations[0].TranslatedText,
		Model: "google-translate",
		Metadata: map[string]string{
			"detected_source": resp.Data.Translations[0].DetectedSourceLanguage,
		},
	}, nil
}

// GetName 获取提供商名称
func (p *Provider) GetName() string {
	return "google"
}

// translate 执行翻译请求
func (p *Provider) translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	params := url.Values{}
	params.Set("key", p.config.APIKey)
	params.Set("q", req.Q)
	params.Set("source", req.Source)
	params.Set("target", req.Target)
	params.Set("format", req.Format)

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		p.config.APIEndpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range p.config.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, providers.NewError(providers.ErrCodeTransport, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(resp.Body)

		var apiErr APIError
		msg := resp.Status
		if err := json.Unmarshal(errBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, providers.NewError(providers.ErrCodeAuth, msg)
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, providers.NewError(providers.ErrCodeRateLimit, msg)
		default:
			return nil, providers.NewError(providers.ErrCodeTransport, msg)
		}
	}

	var translateResp TranslateResponse
	if err := json.NewDecoder(resp.Body).Decode(&translateResp); err != nil {
		return nil, providers.NewError(providers.ErrCodeBadResponse, "failed to decode response: "+err.Error())
	}

	return &translateResp, nil
}

// normalizeLanguageCode 标准化语言代码
func normalizeLanguageCode(lang string) string {
	replacements := map[string]string{
		"english":    "en",
		"spanish":    "es",
		"french":     "fr",
		"german":     "de",
		"italian":    "it",
		"japanese":   "ja",
		"korean":     "ko",
		"portuguese": "pt",
		"russian":    "ru",
	}

	lower := strings.ToLower(lang)
	if normalized, ok := replacements[lower]; ok {
		return normalized
	}

	// 处理 xx_YY 格式到 xx-YY
	if strings.Contains(lang, "_") {
		return strings.Replace(lang, "_", "-", 1)
	}

	return lang
}

// TranslateRequest 翻译请求
type TranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

// TranslateResponse 翻译响应
type TranslateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage,omitempty"`
		} `json:"translations"`
	} `json:"data"`
}

// APIError API错误
type APIError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
