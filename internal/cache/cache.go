package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Cache 按来源文件分区的持久化翻译缓存。
// 存储结构为两级映射：来源标识 → 原文 → 译文，整体序列化为一个 JSON 文件。
type Cache struct {
	path    string
	entries map[string]map[string]string
	mu      sync.RWMutex
	logger  *zap.Logger
}

// New 创建绑定到指定存储文件的缓存
func New(path string, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		path:    path,
		entries: make(map[string]map[string]string),
		logger:  logger,
	}
}

// Load 从存储文件读入缓存。文件缺失视为空缓存；
// 内容损坏记录日志后同样视为空缓存，从不致命。
func (c *Cache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]map[string]string)

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("failed to read cache store, starting empty",
				zap.String("path", c.path),
				zap.Error(err))
		}
		return nil
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.logger.Warn("cache store is corrupt, starting empty",
			zap.String("path", c.path),
			zap.Error(err))
		c.entries = make(map[string]map[string]string)
	}
	return nil
}

// Get 查询 (来源标识, 原文) 对应的译文
func (c *Cache) Get(sourceID, text string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byText, ok := c.entries[sourceID]
	if !ok {
		return "", false
	}
	translated, ok := byText[text]
	return translated, ok
}

// Put 写入或覆盖一条缓存
func (c *Cache) Put(sourceID, text, translated string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	byText, ok := c.entries[sourceID]
	if !ok {
		byText = make(map[string]string)
		c.entries[sourceID] = byText
	}
	byText[text] = translated
}

// Len 返回缓存条目总数
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0
	for _, byText := range c.entries {
		total += len(byText)
	}
	return total
}

// Save 将整个映射原子地重写到存储文件：先写临时文件再重命名，
// 读取方不会观察到半写状态。可重复调用。
func (c *Cache) Save() error {
	c.mu.RLock()
	data, err := json.MarshalIndent(c.entries, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
