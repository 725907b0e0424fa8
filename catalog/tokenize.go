package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize 把文本切成小写的字母/数字 token（不区分文字体系），丢弃长度 <= 1 的 token。
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

// TokenSet 是 token 集合。
type TokenSet map[string]struct{}

// Add 把文本切词后加入集合。
func (s TokenSet) Add(text string) {
	for _, t := range Tokenize(text) {
		s[t] = struct{}{}
	}
}

// Has 是否包含 token。
func (s TokenSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}
