package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Khoảng trắng, underscore, slash → dấu gạch
	wordSeparatorRe = regexp.MustCompile(`[\s_/]+`)
	// Mọi ký tự ngoài a-z, 0-9, dấu gạch
	nonSlugCharRe = regexp.MustCompile(`[^a-z0-9-]+`)
	multipleDashRe = regexp.MustCompile(`-+`)
	validSlugRe    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	// Các chữ cái không tách được bằng NFD
	foldReplacer = strings.NewReplacer(
		"đ", "d", "Đ", "D",
		"ø", "o", "Ø", "O",
		"ł", "l", "Ł", "L",
		"æ", "ae", "Æ", "AE",
		"œ", "oe", "Œ", "OE",
		"ß", "ss",
	)
)

// GenerateSlug chuyển name/title sang URL-safe slug.
//
//	"Test Star"        → "test-star"
//	"Beyoncé Knowles"  → "beyonce-knowles"
//	"Nguyễn Nhật Ánh"  → "nguyen-nhat-anh"
//	"Met Gala / 2024"  → "met-gala-2024"
//
// Kết quả chỉ chứa [a-z0-9-], deterministic, và GenerateSlug(GenerateSlug(x)) == GenerateSlug(x).
func GenerateSlug(input string) string {
	// Step 1: Bỏ dấu ("Beyoncé" → "Beyonce")
	s := RemoveDiacritics(input)

	// Step 2: Lowercase + trim
	s = strings.ToLower(strings.TrimSpace(s))

	// Step 3: Word separators → "-"
	s = wordSeparatorRe.ReplaceAllString(s, "-")

	// Step 4: Remove special characters
	s = nonSlugCharRe.ReplaceAllString(s, "")

	// Step 5: Collapse "--"
	s = multipleDashRe.ReplaceAllString(s, "-")

	// Step 6: Trim leading/trailing hyphens
	return strings.Trim(s, "-")
}

// RemoveDiacritics bỏ dấu cho mọi ngôn ngữ Latin (tất cả các tone của "a" => "a")
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		out = input
	}
	return foldReplacer.Replace(out)
}

// IsValidSlug kiểm tra slug đã ở dạng canonical
func IsValidSlug(s string) bool {
	return validSlugRe.MatchString(s)
}

// NormalizeTags chuẩn hóa tags theo slug rules, bỏ tag rỗng và trùng (giữ thứ tự xuất hiện đầu tiên)
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		slug := GenerateSlug(tag)
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
	}
	return out
}
