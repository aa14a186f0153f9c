package stats

import (
	"time"

	"github.com/google/uuid"
)

// StatisticsDB 统计数据库结构
type StatisticsDB struct {
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`

	// 总体统计
	TotalRuns      int64 `json:"total_runs"`
	TotalFiles     int64 `json:"total_files"`
	TotalFragments int64 `json:"total_fragments"`
	TotalRequests  int64 `json:"total_requests"`
	TotalSuccesses int64 `json:"total_successes"`
	TotalFailures  int64 `json:"total_failures"`
	TotalCacheHits int64 `json:"total_cache_hits"`

	// 语言对统计
	LanguagePairs map[string]*LanguagePairStats `json:"language_pairs"`

	// 最近的运行记录
	RecentRuns []*RunRecord `json:"recent_runs"`
}

// LanguagePairStats 语言对统计
type LanguagePairStats struct {
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	RunCount       int64     `json:"run_count"`
	FragmentCount  int64     `json:"fragment_count"`
	LastUsed       time.Time `json:"last_used"`
}

// RunRecord 一次翻译运行的记录
type RunRecord struct {
	ID             string        `json:"id"`
	Timestamp      time.Time     `json:"timestamp"`
	Provider       string        `json:"provider"`
	SourceLanguage string        `json:"source_language"`
	TargetLanguage string        `json:"target_language"`
	Files          int           `json:"files"`
	Fragments      int           `json:"fragments"`
	Requests       int           `json:"requests"`
	Successes      int           `json:"successes"`
	Failures       int           `json:"failures"`
	CacheHits      int           `json:"cache_hits"`
	GlossaryHits   int           `json:"glossary_hits"`
	Cooldowns      int           `json:"cooldowns"`
	Duration       time.Duration `json:"duration"`
}

// NewRunRecord 创建带有随机 ID 的运行记录
func NewRunRecord(provider, sourceLang, targetLang string) *RunRecord {
	return &RunRecord{
		ID:             uuid.New().String(),
		Timestamp:      time.Now(),
		Provider:       provider,
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
	}
}
