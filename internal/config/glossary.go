package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Glossary 预定义翻译词汇表：固定术语在请求后端之前直接命中
type Glossary struct {
	SourceLang   string            `toml:"source_lang"`
	TargetLang   string            `toml:"target_lang"`
	Translations map[string]string `toml:"translations"`
}

// NewGlossary 创建词汇表
func NewGlossary(sourceLang, targetLang string, translations map[string]string) *Glossary {
	if translations == nil {
		translations = make(map[string]string)
	}
	return &Glossary{
		SourceLang:   sourceLang,
		TargetLang:   targetLang,
		Translations: translations,
	}
}

// Lookup 查询术语；nil 词汇表安全返回未命中
func (g *Glossary) Lookup(text string) (string, bool) {
	if g == nil {
		return "", false
	}
	translated, ok := g.Translations[text]
	return translated, ok
}

// LoadGlossary 从 TOML 文件加载词汇表
func LoadGlossary(path string) (*Glossary, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("glossary file not found: %s", path)
	}

	glossary := &Glossary{}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read glossary file: %w", err)
	}
	if err := toml.Unmarshal(content, glossary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal glossary: %w", err)
	}
	if glossary.SourceLang == "" || glossary.TargetLang == "" {
		return nil, fmt.Errorf("glossary file is missing source_lang or target_lang")
	}
	if glossary.Translations == nil {
		glossary.Translations = make(map[string]string)
	}
	return glossary, nil
}
