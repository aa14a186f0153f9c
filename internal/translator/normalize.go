package translator

import (
	"regexp"
	"strings"
)

// Normalizer 后端响应清理步骤。不同后端的响应伪影不同，
// 清理链按提供商类型组装。
type Normalizer interface {
	Normalize(text string) string
}

// NormalizerFunc 函数式 Normalizer
type NormalizerFunc func(text string) string

// Normalize 实现 Normalizer 接口
func (f NormalizerFunc) Normalize(text string) string {
	return f(text)
}

// Chain 依次套用多个清理步骤
type Chain []Normalizer

// Normalize 实现 Normalizer 接口
func (c Chain) Normalize(text string) string {
	for _, n := range c {
		text = n.Normalize(text)
	}
	return text
}

// 成对的包围引号，TrimSurroundingQuotes 按整对剥除
var quotePairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"“", "”"}, // “ ”
	{"‘", "’"}, // ‘ ’
	{"«", "»"}, // « »
	{"„", "“"}, // „ “
}

// TrimSurroundingQuotes 去除后端附加的一对完整包围引号及其外侧空白。
// 没有包围引号时原样返回：片段自身的首尾空白是有意义的，必须保留。
func TrimSurroundingQuotes(text string) string {
	trimmed := strings.TrimSpace(text)
	for _, pair := range quotePairs {
		if len(trimmed) > len(pair[0])+len(pair[1]) &&
			strings.HasPrefix(trimmed, pair[0]) && strings.HasSuffix(trimmed, pair[1]) {
			return strings.TrimSpace(trimmed[len(pair[0]) : len(trimmed)-len(pair[1])])
		}
	}
	return text
}

var trailingParenthetical = regexp.MustCompile(`\s*\([^()]*\)\s*$`)

// StripTrailingParenthetical 去掉部分LLM后端附加在结尾的括号注释，
// 如 "Saltar (jump)" → "Saltar"。整条译文都是括号时保留原样。
func StripTrailingParenthetical(text string) string {
	stripped := trailingParenthetical.ReplaceAllString(text, "")
	if strings.TrimSpace(stripped) == "" {
		return text
	}
	return stripped
}

var quoteCanonicalizer = strings.NewReplacer(
	"“", `"`, // “
	"”", `"`, // ”
	"„", `"`, // „
	"«", `"`, // «
	"»", `"`, // »
	"‘", `'`, // ‘
	"’", `'`, // ’
	"‚", `'`, // ‚
)

// CanonicalizeQuotes 将弯引号与书名号统一为ASCII引号，
// 保持输出与容器编码的引号约定一致
func CanonicalizeQuotes(text string) string {
	return quoteCanonicalizer.Replace(text)
}

// NewNormalizerFor 按提供商类型组装清理链。
// LLM类后端（openai、ollama、gateway）额外剥除结尾括号注释。
func NewNormalizerFor(providerName string) Normalizer {
	chain := Chain{
		NormalizerFunc(TrimSurroundingQuotes),
	}
	switch providerName {
	case "openai", "ollama", "gateway":
		chain = append(chain, NormalizerFunc(StripTrailingParenthetical))
		chain = append(chain, NormalizerFunc(TrimSurroundingQuotes))
	}
	chain = append(chain, NormalizerFunc(CanonicalizeQuotes))
	return chain
}
