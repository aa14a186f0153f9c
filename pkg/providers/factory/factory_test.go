package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/lxb-translator/internal/config"
)

// 测试每个支持的提供商类型都能创建
func TestCreateProvider(t *testing.T) {
	factory := New()

	for _, name := range SupportedProviders() {
		t.Run(name, func(t *testing.T) {
			cfg := config.ProviderConfig{
				APIKey:   "test-key",
				Endpoint: "http://localhost:9999",
			}
			provider, err := factory.CreateProvider(name, cfg)
			require.NoError(t, err)
			assert.Equal(t, name, provider.GetName())
		})
	}
}

// 测试同名提供商复用注册表中的同一实例
func TestCreateProviderReusesInstance(t *testing.T) {
	factory := New()
	cfg := config.ProviderConfig{APIKey: "test-key"}

	first, err := factory.CreateProvider("google", cfg)
	require.NoError(t, err)
	second, err := factory.CreateProvider("google", cfg)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

// 测试未知提供商类型报错
func TestCreateProviderUnknown(t *testing.T) {
	factory := New()
	_, err := factory.CreateProvider("babelfish", config.ProviderConfig{})
	assert.Error(t, err)
}

// 测试gateway提供商必须配置endpoint
func TestGatewayRequiresEndpoint(t *testing.T) {
	factory := New()
	_, err := factory.CreateProvider("gateway", config.ProviderConfig{APIKey: "k"})
	assert.Error(t, err)
}
