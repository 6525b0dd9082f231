package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold 去除重音、转大写、合并空白，用于大小写/重音不敏感的匹配
// "  Alta após  observação " -> "ALTA APOS OBSERVACAO"
func Fold(s string) string {
	if s == "" {
		return ""
	}
	// transform.Chain 不是并发安全的，每次调用新建
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToUpper(out)), " ")
}

// ContainsFolded 判断 folded 文本是否包含 keyword（keyword 也会被 Fold）
func ContainsFolded(folded, keyword string) bool {
	k := Fold(keyword)
	if k == "" {
		return false
	}
	return strings.Contains(folded, k)
}
