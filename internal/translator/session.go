package translator

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/lxb-translator/internal/cache"
	"github.com/nerdneilsfield/lxb-translator/internal/config"
	"github.com/nerdneilsfield/lxb-translator/internal/lxb"
	"github.com/nerdneilsfield/lxb-translator/pkg/providers"
	"github.com/nerdneilsfield/lxb-translator/pkg/providers/retry"
)

// Counters 一次运行的进程级计数器
type Counters struct {
	// RequestsSinceCooldown 自上次冷却以来发出的请求数，冷却后归零
	RequestsSinceCooldown int
	// Requests 整次运行累计发出的请求数
	Requests int
	// Successes 累计成功翻译数
	Successes int
	// Failures 累计失败（重试耗尽后回退原文）数
	Failures int
	// CacheHits 缓存命中数
	CacheHits int
	// GlossaryHits 词汇表命中数
	GlossaryHits int
	// Cooldowns 触发的冷却次数
	Cooldowns int
}

// Session 翻译调度会话。持有缓存、计数器与冷却状态，
// 片段必须严格顺序处理：前一个片段完成（成功或回退）后才能处理下一个。
type Session struct {
	provider   providers.TranslationProvider
	cache      *cache.Cache
	glossary   *config.Glossary
	normalizer Normalizer
	logger     *zap.Logger
	breaker    *gobreaker.CircuitBreaker

	sourceLang string
	targetLang string

	minLength    int
	requestLimit int
	cooldown     time.Duration
	saveEvery    int
	retryConfig  retry.Config

	// sleep 无取消路径的延时原语，测试中可替换
	sleep func(d time.Duration)

	counters           Counters
	successesSinceSave int
}

// NewSession 创建调度会话
func NewSession(cfg *config.Config, provider providers.TranslationProvider, translationCache *cache.Cache, glossary *config.Glossary, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "translation-backend",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 10
		},
	})

	return &Session{
		provider:   provider,
		cache:      translationCache,
		glossary:   glossary,
		normalizer: NewNormalizerFor(provider.GetName()),
		logger:     logger,
		breaker:    breaker,
		sourceLang: cfg.SourceLang,
		targetLang: cfg.TargetLang,
		minLength:  cfg.MinFragmentLength,

		requestLimit: cfg.RequestLimit,
		cooldown:     cfg.Cooldown(),
		saveEvery:    cfg.SaveEvery,
		retryConfig: retry.Config{
			MaxAttempts: cfg.RetryAttempts,
			Delay:       cfg.RetryDelay(),
		},
		sleep: time.Sleep,
	}
}

// Translate 翻译单个片段，从不向调用方抛错：
// 不可恢复的失败返回原文并累加失败计数。
func (s *Session) Translate(ctx context.Context, sourceID, text string) string {
	// 保护标记原样透传，不查缓存也不发请求
	if lxb.IsProtected(text) {
		return text
	}

	if utf8.RuneCountInString(text) < s.minLength {
		return text
	}

	if translated, ok := s.glossary.Lookup(text); ok {
		s.counters.GlossaryHits++
		// 写入缓存，保证后续运行与缓存查询结果一致
		s.cache.Put(sourceID, text, translated)
		return translated
	}

	if translated, ok := s.cache.Get(sourceID, text); ok {
		s.counters.CacheHits++
		return translated
	}

	// 缓存命中不消耗速率预算，额度检查在缓存之后
	if s.counters.RequestsSinceCooldown >= s.requestLimit {
		s.coolDown()
	}

	translated, err := s.request(ctx, text)
	if err != nil {
		s.counters.Failures++
		s.logger.Warn("translation failed, keeping original text",
			zap.String("source_id", sourceID),
			zap.String("text", text),
			zap.Error(err))
		return text
	}

	translated = s.normalizer.Normalize(translated)
	if translated == "" {
		s.counters.Failures++
		s.logger.Warn("backend returned empty translation, keeping original text",
			zap.String("source_id", sourceID),
			zap.String("text", text))
		return text
	}

	s.cache.Put(sourceID, text, translated)
	s.counters.Successes++
	s.counters.Requests++
	s.counters.RequestsSinceCooldown++

	s.successesSinceSave++
	if s.successesSinceSave >= s.saveEvery {
		s.persistCache()
		s.successesSinceSave = 0
	}

	return translated
}

// request 以有限次固定间隔重试调用后端，熔断器包裹每次调用
func (s *Session) request(ctx context.Context, text string) (string, error) {
	var result string
	err := retry.Do(ctx, s.retryConfig, s.sleep, func(ctx context.Context) error {
		out, err := s.breaker.Execute(func() (interface{}, error) {
			resp, err := s.provider.Translate(ctx, &providers.Request{
				Text:           text,
				SourceLanguage: s.sourceLang,
				TargetLanguage: s.targetLang,
			})
			if err != nil {
				return nil, err
			}
			return resp.Text, nil
		})
		if err != nil {
			return err
		}
		result = out.(string)
		return nil
	})
	return result, err
}

// coolDown 保存缓存后等满整个冷却时长，再重置请求计数
func (s *Session) coolDown() {
	s.persistCache()
	s.logger.Warn("request limit reached, cooling down",
		zap.Int("request_limit", s.requestLimit),
		zap.Duration("cooldown", s.cooldown))
	s.sleep(s.cooldown)
	s.counters.RequestsSinceCooldown = 0
	s.counters.Cooldowns++
}

// persistCache 保存缓存，失败只记录日志（仅损失本次保存的持久性）
func (s *Session) persistCache() {
	if err := s.cache.Save(); err != nil {
		s.logger.Warn("failed to save translation cache", zap.Error(err))
	}
}

// Flush 无条件保存缓存，运行结束时调用
func (s *Session) Flush() error {
	return s.cache.Save()
}

// Counters 返回当前计数器快照
func (s *Session) Counters() Counters {
	return s.counters
}
