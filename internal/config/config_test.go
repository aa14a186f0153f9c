package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试默认配置
func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "en", cfg.SourceLang)
	assert.Equal(t, "pt-BR", cfg.TargetLang)
	assert.Equal(t, "google", cfg.Provider)
	assert.Equal(t, "iso-8859-1", cfg.Encoding)
	assert.Equal(t, ".lxb", cfg.Extension)
	assert.Equal(t, 3, cfg.MinFragmentLength)
	assert.Equal(t, 50, cfg.RequestLimit)
	assert.Equal(t, 10*time.Minute, cfg.Cooldown())
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, time.Second, cfg.RetryDelay())
	assert.NoError(t, cfg.Validate())
}

// 测试从 YAML 文件加载并覆盖默认值
func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
source_lang: en
target_lang: es
provider: deeplx
request_limit: 5
cooldown_ms: 1000
providers:
  deeplx:
    endpoint: http://localhost:1188/translate
    access_token: secret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "es", cfg.TargetLang)
	assert.Equal(t, "deeplx", cfg.Provider)
	assert.Equal(t, 5, cfg.RequestLimit)
	assert.Equal(t, time.Second, cfg.Cooldown())
	// 未覆盖的字段保持默认
	assert.Equal(t, ".lxb", cfg.Extension)
	assert.Equal(t, 3, cfg.RetryAttempts)

	settings := cfg.ProviderSettings("deeplx")
	assert.Equal(t, "http://localhost:1188/translate", settings.Endpoint)
	assert.Equal(t, "secret", settings.AccessToken)

	// 未配置的提供商返回零值
	assert.Equal(t, ProviderConfig{}, cfg.ProviderSettings("google"))
}

// 测试配置文件缺失时回退到默认值
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "google", cfg.Provider)
}

// 测试数值范围校验
func TestConfigValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.RequestLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.RetryAttempts = 0
	assert.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.MinFragmentLength = 0
	assert.Error(t, cfg.Validate())
}

// 测试词汇表加载与查询
func TestLoadGlossary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossary.toml")
	content := `
source_lang = "en"
target_lang = "pt-BR"

[translations]
"Start" = "Iniciar"
"Options" = "Opções"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	glossary, err := LoadGlossary(path)
	require.NoError(t, err)

	translated, ok := glossary.Lookup("Start")
	assert.True(t, ok)
	assert.Equal(t, "Iniciar", translated)

	_, ok = glossary.Lookup("Quit")
	assert.False(t, ok)
}

// 测试词汇表缺少语言对时报错
func TestLoadGlossaryMissingLanguages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossary.toml")
	require.NoError(t, os.WriteFile(path, []byte(`[translations]`), 0o644))

	_, err := LoadGlossary(path)
	assert.Error(t, err)
}

// 测试 nil 词汇表查询安全
func TestGlossaryNilLookup(t *testing.T) {
	var glossary *Glossary
	_, ok := glossary.Lookup("anything")
	assert.False(t, ok)
}
