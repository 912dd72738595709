package biz

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// ExcerptSelector 从班级文档中选取作为回复依据的片段。
// 默认实现是关键词匹配，可替换为语义检索而不影响调用方。
type ExcerptSelector interface {
	Select(document, question string, currentPage *int) string
}

// KeywordExcerptSelector 按页窗口或关键词行选取片段，都没有结果时返回文档开头。
type KeywordExcerptSelector struct {
	// PagesBefore 当前页之前保留的页数。
	PagesBefore int `json:"pages-before" mapstructure:"pages-before"`
	// PagesAfter 当前页之后保留的页数。
	PagesAfter int `json:"pages-after" mapstructure:"pages-after"`
	// MaxLines 关键词模式下最多返回的行数。
	MaxLines int `json:"max-lines" mapstructure:"max-lines"`
	// MinKeywordLen 关键词最少字符数（不含）。
	MinKeywordLen int `json:"min-keyword-len" mapstructure:"min-keyword-len"`
	// FallbackChars 兜底返回的最多字符数。
	FallbackChars int `json:"fallback-chars" mapstructure:"fallback-chars"`
}

var _ ExcerptSelector = (*KeywordExcerptSelector)(nil)

// pageBreak 匹配空行，即两个换行之间只有空白。
var pageBreak = regexp.MustCompile(`\n\s*\n`)

// NewKeywordExcerptSelector 返回默认参数的选择器：前 1 页后 1 页，
// 最多 10 行，关键词长度大于 2，兜底 1000 字符。
func NewKeywordExcerptSelector() *KeywordExcerptSelector {
	return &KeywordExcerptSelector{
		PagesBefore:   1,
		PagesAfter:    1,
		MaxLines:      10,
		MinKeywordLen: 2,
		FallbackChars: 1000,
	}
}

// Select 选取片段。currentPage 不为空时使用页模式，否则使用关键词模式。
func (s *KeywordExcerptSelector) Select(document, question string, currentPage *int) string {
	if document == "" {
		return ""
	}

	var excerpt string
	if currentPage != nil {
		excerpt = s.byPage(document, *currentPage)
	} else {
		excerpt = s.byKeywords(document, question)
	}
	if excerpt != "" {
		return excerpt
	}
	return s.head(document)
}

// SplitPages 按空行把文档切分为页，去掉首尾空白与空页。
func SplitPages(document string) []string {
	parts := pageBreak.Split(document, -1)
	return lo.FilterMap(parts, func(p string, _ int) (string, bool) {
		p = strings.TrimSpace(p)
		return p, p != ""
	})
}

func (s *KeywordExcerptSelector) byPage(document string, page int) string {
	pages := SplitPages(document)
	start := clamp(page-s.PagesBefore, 0, len(pages))
	end := clamp(page+s.PagesAfter+1, start, len(pages))
	return strings.Join(pages[start:end], "\n\n")
}

func (s *KeywordExcerptSelector) byKeywords(document, question string) string {
	keywords := lo.Uniq(lo.FilterMap(strings.Fields(question), func(tok string, _ int) (string, bool) {
		return strings.ToLower(tok), len([]rune(tok)) > s.MinKeywordLen
	}))
	if len(keywords) == 0 {
		return ""
	}

	var hits []string
	for _, line := range strings.Split(document, "\n") {
		lower := strings.ToLower(line)
		if lo.ContainsBy(keywords, func(k string) bool { return strings.Contains(lower, k) }) {
			hits = append(hits, line)
			if len(hits) >= s.MaxLines {
				break
			}
		}
	}
	return strings.Join(hits, "\n")
}

func (s *KeywordExcerptSelector) head(document string) string {
	runes := []rune(document)
	if len(runes) <= s.FallbackChars {
		return document
	}
	return string(runes[:s.FallbackChars])
}

func clamp(v, low, high int) int {
	return max(low, min(v, high))
}
