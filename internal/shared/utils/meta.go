package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// MaxMetaDescriptionLength giới hạn meta description (tính theo rune)
const MaxMetaDescriptionLength = 170

const ellipsis = "..."

var whitespaceRe = regexp.MustCompile(`\s+`)

// MetaDescription tạo meta description từ excerpt/content (có thể là HTML từ rich-text editor).
// Text ≤ 170 ký tự giữ nguyên; dài hơn thì cắt tại word boundary cuối cùng và thêm "...".
// Chỉ khi một từ duy nhất dài hơn giới hạn mới bị cắt giữa từ.
func MetaDescription(text string) string {
	plain := StripHTML(text)
	return TruncateWords(plain, MaxMetaDescriptionLength)
}

// TruncateWords cắt s (plain text) sao cho kết quả ≤ max rune, kể cả "..."
func TruncateWords(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}

	budget := max - len(ellipsis)
	if budget <= 0 {
		return string(r[:max])
	}

	// r[budget] là space thì cắt tại budget vẫn là word boundary
	cut := -1
	for i := budget; i > 0; i-- {
		if unicode.IsSpace(r[i]) {
			cut = i
			break
		}
	}

	var head string
	if cut > 0 {
		head = strings.TrimRightFunc(string(r[:cut]), func(c rune) bool {
			return unicode.IsSpace(c) || strings.ContainsRune(",.;:-!?", c)
		})
	}
	if head == "" {
		// Một từ dài hơn budget: hard cut
		head = string(r[:budget])
	}

	return head + ellipsis
}

// StripHTML bỏ tags, decode entities, collapse whitespace
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
	}

	var buf strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skip := 0

loop:
	for {
		switch z.Next() {
		case html.ErrorToken:
			break loop
		case html.TextToken:
			if skip == 0 {
				buf.Write(z.Text())
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				skip++
			case "br", "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6":
				buf.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				if skip > 0 {
					skip--
				}
			case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6":
				buf.WriteByte(' ')
			}
		case html.SelfClosingTagToken:
			buf.WriteByte(' ')
		}
	}

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(buf.String(), " "))
}
