package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	StatsDBVersion = "1.0.0"
	MaxRecentRuns  = 100
)

// Database 统计数据库
type Database struct {
	filePath string
	data     *StatisticsDB
	mutex    sync.RWMutex
	logger   *zap.Logger
}

// NewDatabase 创建统计数据库
func NewDatabase(filePath string, logger *zap.Logger) (*Database, error) {
	db := &Database{
		filePath: filePath,
		logger:   logger,
	}

	// 确保目录存在
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create stats directory: %w", err)
	}

	// 加载或创建数据
	if err := db.load(); err != nil {
		return nil, fmt.Errorf("failed to load stats database: %w", err)
	}

	return db, nil
}

// load 加载统计数据
func (db *Database) load() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	// 检查文件是否存在
	if _, err := os.Stat(db.filePath); os.IsNotExist(err) {
		db.data = &StatisticsDB{
			Version:       StatsDBVersion,
			CreatedAt:     time.Now(),
			LastUpdated:   time.Now(),
			LanguagePairs: make(map[string]*LanguagePairStats),
			RecentRuns:    make([]*RunRecord, 0),
		}
		return db.saveUnsafe()
	}

	data, err := os.ReadFile(db.filePath)
	if err != nil {
		return fmt.Errorf("failed to read stats file: %w", err)
	}

	var statsDB StatisticsDB
	if err := json.Unmarshal(data, &statsDB); err != nil {
		return fmt.Errorf("failed to parse stats file: %w", err)
	}

	// 初始化可能为 nil 的字段
	if statsDB.LanguagePairs == nil {
		statsDB.LanguagePairs = make(map[string]*LanguagePairStats)
	}
	if statsDB.RecentRuns == nil {
		statsDB.RecentRuns = make([]*RunRecord, 0)
	}

	db.data = &statsDB
	db.logger.Debug("loaded statistics database",
		zap.String("version", statsDB.Version),
		zap.Time("created_at", statsDB.CreatedAt),
		zap.Int64("total_runs", statsDB.TotalRuns))

	return nil
}

// Save 保存统计数据
func (db *Database) Save() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return db.saveUnsafe()
}

// saveUnsafe 不安全的保存（需要已持有锁）
func (db *Database) saveUnsafe() error {
	db.data.LastUpdated = time.Now()

	data, err := json.MarshalIndent(db.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats data: %w", err)
	}

	// 原子写入
	tempFile := db.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp stats file: %w", err)
	}

	if err := os.Rename(tempFile, db.filePath); err != nil {
		return fmt.Errorf("failed to rename stats file: %w", err)
	}

	return nil
}

// AddRunRecord 添加一次运行的记录并更新聚合统计
func (db *Database) AddRunRecord(record *RunRecord) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.data.TotalRuns++
	db.data.TotalFiles += int64(record.Files)
	db.data.TotalFragments += int64(record.Fragments)
	db.data.TotalRequests += int64(record.Requests)
	db.data.TotalSuccesses += int64(record.Successes)
	db.data.TotalFailures += int64(record.Failures)
	db.data.TotalCacheHits += int64(record.CacheHits)

	// 更新语言对统计
	langPairKey := fmt.Sprintf("%s-%s", record.SourceLanguage, record.TargetLanguage)
	langPair, exists := db.data.LanguagePairs[langPairKey]
	if !exists {
		langPair = &LanguagePairStats{
			SourceLanguage: record.SourceLanguage,
			TargetLanguage: record.TargetLanguage,
		}
		db.data.LanguagePairs[langPairKey] = langPair
	}
	langPair.RunCount++
	langPair.FragmentCount += int64(record.Fragments)
	langPair.LastUsed = record.Timestamp

	// 追加到最近运行记录，超出上限时丢弃最旧的
	db.data.RecentRuns = append(db.data.RecentRuns, record)
	if len(db.data.RecentRuns) > MaxRecentRuns {
		db.data.RecentRuns = db.data.RecentRuns[len(db.data.RecentRuns)-MaxRecentRuns:]
	}

	return db.saveUnsafe()
}

// GetStats 返回统计数据的只读快照
func (db *Database) GetStats() *StatisticsDB {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return db.data
}
