package translator

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/lxb-translator/internal/cache"
	"github.com/nerdneilsfield/lxb-translator/internal/config"
	"github.com/nerdneilsfield/lxb-translator/pkg/providers"
)

// stubProvider 返回固定前缀译文或固定错误的测试提供商
type stubProvider struct {
	prefix string
	err    error
	calls  int
}

func (p *stubProvider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &providers.Response{Text: p.prefix + req.Text, Model: "stub"}, nil
}

func (p *stubProvider) GetName() string {
	return "stub"
}

var _ providers.TranslationProvider = (*stubProvider)(nil)

func newSessionConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.MinFragmentLength = 3
	cfg.RequestLimit = 2
	cfg.CooldownMS = 100
	cfg.SaveEvery = 10
	cfg.RetryAttempts = 3
	cfg.RetryDelayMS = 5
	cfg.CacheFile = filepath.Join(t.TempDir(), "cache.json")
	return cfg
}

func newTestSession(t *testing.T, cfg *config.Config, provider providers.TranslationProvider) (*Session, *[]time.Duration) {
	t.Helper()
	c := cache.New(cfg.CacheFile, nil)
	require.NoError(t, c.Load())

	session := NewSession(cfg, provider, c, nil, nil)

	var sleeps []time.Duration
	session.sleep = func(d time.Duration) {
		sleeps = append(sleeps, d)
	}
	return session, &sleeps
}

// 测试保护标记原样透传且不发请求
func TestSessionProtectedPassthrough(t *testing.T) {
	provider := &stubProvider{prefix: "pt:"}
	cfg := newSessionConfig(t)
	session, _ := newTestSession(t, cfg, provider)

	out := session.Translate(context.Background(), "strings01", "$BUT_A$")
	assert.Equal(t, "$BUT_A$", out)
	assert.Equal(t, 0, provider.calls)
}

// 测试低于最小长度的文本原样返回
func TestSessionShortTextPassthrough(t *testing.T) {
	provider := &stubProvider{prefix: "pt:"}
	cfg := newSessionConfig(t)
	session, _ := newTestSession(t, cfg, provider)

	out := session.Translate(context.Background(), "strings01", "OK")
	assert.Equal(t, "OK", out)
	assert.Equal(t, 0, provider.calls)
}

// 测试词汇表命中优先于后端且写入缓存
func TestSessionGlossaryHit(t *testing.T) {
	provider := &stubProvider{prefix: "pt:"}
	cfg := newSessionConfig(t)

	c := cache.New(cfg.CacheFile, nil)
	require.NoError(t, c.Load())
	glossary := config.NewGlossary("en", "pt-BR", map[string]string{
		"Start": "Iniciar",
	})
	session := NewSession(cfg, provider, c, glossary, nil)
	session.sleep = func(time.Duration) {}

	out := session.Translate(context.Background(), "strings01", "Start")
	assert.Equal(t, "Iniciar", out)
	assert.Equal(t, 0, provider.calls)
	assert.Equal(t, 1, session.Counters().GlossaryHits)

	cached, ok := c.Get("strings01", "Start")
	assert.True(t, ok)
	assert.Equal(t, "Iniciar", cached)
}

// 测试成功翻译写入缓存，第二次调用命中缓存且不消耗请求预算
func TestSessionCacheHitConsumesNoBudget(t *testing.T) {
	provider := &stubProvider{prefix: "pt:"}
	cfg := newSessionConfig(t)
	session, _ := newTestSession(t, cfg, provider)

	out := session.Translate(context.Background(), "strings01", "Continue")
	assert.Equal(t, "pt:Continue", out)
	require.Equal(t, 1, provider.calls)

	out = session.Translate(context.Background(), "strings01", "Continue")
	assert.Equal(t, "pt:Continue", out)
	assert.Equal(t, 1, provider.calls)

	counters := session.Counters()
	assert.Equal(t, 1, counters.Successes)
	assert.Equal(t, 1, counters.CacheHits)
	assert.Equal(t, 1, counters.RequestsSinceCooldown)
}

// 测试请求上限触发冷却：上限 2，三个新片段应在第三次请求前冷却一次
func TestSessionCooldown(t *testing.T) {
	provider := &stubProvider{prefix: "pt:"}
	cfg := newSessionConfig(t)
	session, sleeps := newTestSession(t, cfg, provider)

	ctx := context.Background()
	session.Translate(ctx, "strings01", "alpha text")
	session.Translate(ctx, "strings01", "bravo text")

	require.Empty(t, *sleeps)

	session.Translate(ctx, "strings01", "charlie text")

	require.Len(t, *sleeps, 1)
	assert.Equal(t, cfg.Cooldown(), (*sleeps)[0])
	assert.Equal(t, 3, provider.calls)

	counters := session.Counters()
	assert.Equal(t, 1, counters.Cooldowns)
	assert.Equal(t, 1, counters.RequestsSinceCooldown)
	assert.Equal(t, 3, counters.Successes)
}

// 测试冷却前缓存已保存到磁盘
func TestSessionCooldownSavesCache(t *testing.T) {
	provider := &stubProvider{prefix: "pt:"}
	cfg := newSessionConfig(t)

	c := cache.New(cfg.CacheFile, nil)
	require.NoError(t, c.Load())
	session := NewSession(cfg, provider, c, nil, nil)

	saved := false
	session.sleep = func(d time.Duration) {
		if d == cfg.Cooldown() {
			reloaded := cache.New(cfg.CacheFile, nil)
			require.NoError(t, reloaded.Load())
			saved = reloaded.Len() == 2
		}
	}

	ctx := context.Background()
	session.Translate(ctx, "strings01", "alpha text")
	session.Translate(ctx, "strings01", "bravo text")
	session.Translate(ctx, "strings01", "charlie text")

	assert.True(t, saved, "缓存应在冷却等待前落盘")
}

// 测试重试耗尽后回退原文并累计失败
func TestSessionFallbackAfterRetries(t *testing.T) {
	provider := &stubProvider{err: errors.New("backend down")}
	cfg := newSessionConfig(t)
	session, sleeps := newTestSession(t, cfg, provider)

	out := session.Translate(context.Background(), "strings01", "alpha text")
	assert.Equal(t, "alpha text", out)

	// 三次尝试，后两次之前各等待一次固定间隔
	assert.Equal(t, 3, provider.calls)
	require.Len(t, *sleeps, 2)
	assert.Equal(t, cfg.RetryDelay(), (*sleeps)[0])
	assert.Equal(t, cfg.RetryDelay(), (*sleeps)[1])

	counters := session.Counters()
	assert.Equal(t, 1, counters.Failures)
	assert.Equal(t, 0, counters.Successes)
	assert.Equal(t, 0, counters.RequestsSinceCooldown)

	// 失败的片段不得写入缓存
	_, ok := session.cache.Get("strings01", "alpha text")
	assert.False(t, ok)
}

// 测试连续失败触发熔断：熔断打开后不再调用后端，片段直接回退原文
func TestSessionBreakerOpensFailFast(t *testing.T) {
	provider := &stubProvider{err: errors.New("backend down")}
	cfg := newSessionConfig(t)
	session, _ := newTestSession(t, cfg, provider)

	ctx := context.Background()
	texts := []string{"alpha text", "bravo text", "charlie text", "delta text", "echo text"}
	for _, text := range texts {
		out := session.Translate(ctx, "strings01", text)
		assert.Equal(t, text, out)
	}

	// 5 个片段各 3 次尝试本应 15 次调用；第 10 次连续失败时熔断器打开，
	// 之后的尝试在熔断器处直接失败，不再到达后端
	assert.Equal(t, 10, provider.calls)

	counters := session.Counters()
	assert.Equal(t, 5, counters.Failures)
	assert.Equal(t, 0, counters.Successes)
	assert.Equal(t, 0, counters.RequestsSinceCooldown)
}

// 测试每 N 次成功自动保存缓存
func TestSessionPeriodicSave(t *testing.T) {
	provider := &stubProvider{prefix: "pt:"}
	cfg := newSessionConfig(t)
	cfg.SaveEvery = 2
	cfg.RequestLimit = 100
	session, _ := newTestSession(t, cfg, provider)

	ctx := context.Background()
	session.Translate(ctx, "strings01", "alpha text")

	reloaded := cache.New(cfg.CacheFile, nil)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 0, reloaded.Len())

	session.Translate(ctx, "strings01", "bravo text")

	require.NoError(t, reloaded.Load())
	assert.Equal(t, 2, reloaded.Len())
}
