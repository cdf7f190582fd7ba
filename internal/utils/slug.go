package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// 无法通过分解去掉变音符号的字符
var slugCharMap = map[rune]string{
	'&': "and", '$': "dollar", '%': "percent", '<': "less", '>': "greater", '|': "or",
	'€': "euro", '£': "pound", '¥': "yen", '©': "(c)", '®': "(r)",
	'ß': "ss", 'æ': "ae", 'Æ': "AE", 'œ': "oe", 'Œ': "OE", 'ø': "o", 'Ø': "O",
	'đ': "d", 'Đ': "D", 'ð': "d", 'Ð': "D", 'ł': "l", 'Ł': "L", 'þ': "th", 'Þ': "TH",
}

// Slugify 从标题生成 URL 标识：转写重音字母，"-" 视为空白，
// 删除 [A-Za-z0-9] 与空白以外的字符，再把空白合并为单个 "-" 并转小写。
// 标点被删除而不是替换成连字符，所以 "a.b" 得到 "ab"，"Jouez !" 得到 "jouez"。
func Slugify(title string) string {
	var b strings.Builder
	keep := func(r rune) {
		if isAlnum(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	for _, r := range foldAccents(title) {
		if mapped, ok := slugCharMap[r]; ok {
			for _, m := range mapped {
				keep(m)
			}
			continue
		}
		if r == '-' {
			r = ' '
		}
		keep(r)
	}

	slug := collapse(strings.TrimSpace(b.String()), unicode.IsSpace)
	return strings.ToLower(slug)
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// collapse 把连续满足 sep 的字符替换为一个 "-"
func collapse(s string, sep func(rune) bool) string {
	var b strings.Builder
	inRun := false
	for _, r := range s {
		if sep(r) {
			if !inRun {
				b.WriteByte('-')
			}
			inRun = true
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}
