package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/nerdneilsfield/lxb-translator/internal/lxb"
)

// ProviderConfig 单个翻译提供商的连接配置
type ProviderConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Endpoint    string  `mapstructure:"endpoint"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	AccessToken string  `mapstructure:"access_token"`
	TimeoutSec  int     `mapstructure:"timeout"`
}

// Config 保存翻译器的所有配置
type Config struct {
	SourceLang string `mapstructure:"source_lang"`
	TargetLang string `mapstructure:"target_lang"`

	// 提供商选择，每次运行恰好绑定一个
	Provider string `mapstructure:"provider"`

	// .lxb 容器相关
	Encoding          string `mapstructure:"encoding"`
	Extension         string `mapstructure:"extension"`
	MinFragmentLength int    `mapstructure:"min_fragment_length"`

	// 调度与速率限制
	RequestLimit  int `mapstructure:"request_limit"`   // 冷却前的请求数上限
	CooldownMS    int `mapstructure:"cooldown_ms"`     // 冷却时长（毫秒）
	SaveEvery     int `mapstructure:"save_every"`      // 每 N 次成功翻译保存一次缓存
	RetryAttempts int `mapstructure:"retry_attempts"`  // 单个片段的最大尝试次数
	RetryDelayMS  int `mapstructure:"retry_delay_ms"`  // 尝试间隔（毫秒）

	// 缓存与词汇表
	CacheFile    string `mapstructure:"cache_file"`
	GlossaryPath string `mapstructure:"glossary_path"`
	StatsFile    string `mapstructure:"stats_file"`

	// 输出
	OutputDir string `mapstructure:"output_dir"`

	Debug   bool `mapstructure:"debug"`
	Verbose bool `mapstructure:"verbose"`

	Providers map[string]ProviderConfig `mapstructure:"providers"`
}

// NewDefaultConfig 返回默认配置
func NewDefaultConfig() *Config {
	return &Config{
		SourceLang:        "en",
		TargetLang:        "pt-BR",
		Provider:          "google",
		Encoding:          "iso-8859-1",
		Extension:         ".lxb",
		MinFragmentLength: lxb.DefaultMinFragmentLength,
		RequestLimit:      50,
		CooldownMS:        600000,
		SaveEvery:         10,
		RetryAttempts:     3,
		RetryDelayMS:      1000,
		CacheFile:         "lxb-translations.json",
		StatsFile:         "lxb-stats.json",
		Providers:         make(map[string]ProviderConfig),
	}
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
		v.SetConfigName(".lxb-translator")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("LXB_TRANSLATOR")

	if err := v.ReadInConfig(); err != nil {
		// 找不到配置文件时使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.Providers == nil {
		config.Providers = make(map[string]ProviderConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	defaults := NewDefaultConfig()
	v.SetDefault("source_lang", defaults.SourceLang)
	v.SetDefault("target_lang", defaults.TargetLang)
	v.SetDefault("provider", defaults.Provider)
	v.SetDefault("encoding", defaults.Encoding)
	v.SetDefault("extension", defaults.Extension)
	v.SetDefault("min_fragment_length", defaults.MinFragmentLength)
	v.SetDefault("request_limit", defaults.RequestLimit)
	v.SetDefault("cooldown_ms", defaults.CooldownMS)
	v.SetDefault("save_every", defaults.SaveEvery)
	v.SetDefault("retry_attempts", defaults.RetryAttempts)
	v.SetDefault("retry_delay_ms", defaults.RetryDelayMS)
	v.SetDefault("cache_file", defaults.CacheFile)
	v.SetDefault("stats_file", defaults.StatsFile)
}

// Validate 校验配置的数值范围
func (c *Config) Validate() error {
	if c.MinFragmentLength < 1 {
		return fmt.Errorf("min_fragment_length must be >= 1, got %d", c.MinFragmentLength)
	}
	if c.RequestLimit < 1 {
		return fmt.Errorf("request_limit must be >= 1, got %d", c.RequestLimit)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be >= 1, got %d", c.RetryAttempts)
	}
	if c.SaveEvery < 1 {
		return fmt.Errorf("save_every must be >= 1, got %d", c.SaveEvery)
	}
	return nil
}

// Cooldown 返回冷却时长
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownMS) * time.Millisecond
}

// RetryDelay 返回重试间隔
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

// ProviderSettings 返回指定提供商的连接配置（未配置时为零值）
func (c *Config) ProviderSettings(name string) ProviderConfig {
	return c.Providers[name]
}
