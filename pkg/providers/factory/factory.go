package factory

import (
	"fmt"
	"time"

	"github.com/nerdneilsfield/lxb-translator/internal/config"
	"github.com/nerdneilsfield/lxb-translator/pkg/providers"
	"github.com/nerdneilsfield/lxb-translator/pkg/providers/deeplx"
	"github.com/nerdneilsfield/lxb-translator/pkg/providers/gateway"
	"github.com/nerdneilsfield/lxb-translator/pkg/providers/google"
	"github.com/nerdneilsfield/lxb-translator/pkg/providers/ollama"
	"github.com/nerdneilsfield/lxb-translator/pkg/providers/openai"
)

// ProviderFactory 提供商工厂
type ProviderFactory struct {
	registry *providers.Registry
}

// New 创建新的提供商工厂
func New() *ProviderFactory {
	return &ProviderFactory{
		registry: providers.NewRegistry(),
	}
}

// CreateProvider 根据配置创建提供商，每次运行恰好选定一个；
// 同名提供商只构造一次，后续调用从注册表返回同一实例
func (f *ProviderFactory) CreateProvider(providerType string, cfg config.ProviderConfig) (providers.TranslationProvider, error) {
	if provider, err := f.registry.Get(providerType); err == nil {
		return provider, nil
	}

	provider, err := f.newProvider(providerType, cfg)
	if err != nil {
		return nil, err
	}
	if err := f.registry.Register(providerType, provider); err != nil {
		return nil, err
	}
	return provider, nil
}

// newProvider 按类型构造新的提供商实例
func (f *ProviderFactory) newProvider(providerType string, cfg config.ProviderConfig) (providers.TranslationProvider, error) {
	switch providerType {
	case "google":
		return f.createGoogleProvider(cfg)
	case "deeplx":
		return f.createDeepLXProvider(cfg)
	case "ollama":
		return f.createOllamaProvider(cfg)
	case "openai":
		return f.createOpenAIProvider(cfg)
	case "gateway":
		return f.createGatewayProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// baseConfig 由通用连接配置构建 BaseConfig
func baseConfig(cfg config.ProviderConfig) providers.BaseConfig {
	base := providers.DefaultConfig()
	base.APIKey = cfg.APIKey
	base.APIEndpoint = cfg.Endpoint
	if cfg.TimeoutSec > 0 {
		base.Timeout = time.Duration(cfg.TimeoutSec) * time.Second
	}
	return base
}

// createGoogleProvider 创建 Google Translate 提供商
func (f *ProviderFactory) createGoogleProvider(cfg config.ProviderConfig) (providers.TranslationProvider, error) {
	providerConfig := google.DefaultConfig()
	providerConfig.BaseConfig = baseConfig(cfg)
	return google.New(providerConfig), nil
}

// createDeepLXProvider 创建 DeepLX 提供商
func (f *ProviderFactory) createDeepLXProvider(cfg config.ProviderConfig) (providers.TranslationProvider, error) {
	providerConfig := deeplx.DefaultConfig()
	providerConfig.BaseConfig = baseConfig(cfg)
	providerConfig.AccessToken = cfg.AccessToken
	return deeplx.New(providerConfig), nil
}

// createOllamaProvider 创建 Ollama 提供商
func (f *ProviderFactory) createOllamaProvider(cfg config.ProviderConfig) (providers.TranslationProvider, error) {
	providerConfig := ollama.DefaultConfig()
	providerConfig.BaseConfig = baseConfig(cfg)
	if cfg.Model != "" {
		providerConfig.Model = cfg.Model
	}
	if cfg.Temperature > 0 {
		providerConfig.Temperature = cfg.Temperature
	}
	return ollama.New(providerConfig), nil
}

// createOpenAIProvider 创建 OpenAI 提供商
func (f *ProviderFactory) createOpenAIProvider(cfg config.ProviderConfig) (providers.TranslationProvider, error) {
	providerConfig := openai.DefaultConfig()
	providerConfig.BaseConfig = baseConfig(cfg)
	if cfg.Model != "" {
		providerConfig.Model = cfg.Model
	}
	if cfg.Temperature > 0 {
		providerConfig.Temperature = cfg.Temperature
	}
	return openai.New(providerConfig), nil
}

// createGatewayProvider 创建通用LLM网关提供商
func (f *ProviderFactory) createGatewayProvider(cfg config.ProviderConfig) (providers.TranslationProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("gateway provider requires an endpoint")
	}
	providerConfig := gateway.DefaultConfig()
	providerConfig.BaseConfig = baseConfig(cfg)
	if cfg.Model != "" {
		providerConfig.Model = cfg.Model
	}
	if cfg.Temperature > 0 {
		providerConfig.Temperature = cfg.Temperature
	}
	return gateway.New(providerConfig), nil
}

// SupportedProviders 返回支持的提供商类型
func SupportedProviders() []string {
	return []string{"google", "deeplx", "ollama", "openai", "gateway"}
}
