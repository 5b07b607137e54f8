package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"basic", "Test Star", "test-star"},
		{"already a slug", "test-star", "test-star"},
		{"accents", "Beyoncé Knowles", "beyonce-knowles"},
		{"vietnamese", "Nguyễn Nhật Ánh", "nguyen-nhat-anh"},
		{"d with stroke", "Đặng Thu Thảo", "dang-thu-thao"},
		{"scandinavian", "Søren Kierkegaard", "soren-kierkegaard"},
		{"slash and underscore", "Met Gala / 2024_red carpet", "met-gala-2024-red-carpet"},
		{"punctuation", "Rihanna's \"Fenty\" Look!", "rihannas-fenty-look"},
		{"multiple spaces", "  Gala    Look  ", "gala-look"},
		{"tabs", "gala\tlook", "gala-look"},
		{"dash runs", "--gala--look--", "gala-look"},
		{"emoji", "🔥 Street Style", "street-style"},
		{"numbers", "Top 10 Looks", "top-10-looks"},
		{"empty", "", ""},
		{"only symbols", "!@#$%", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateSlug(tt.input))
		})
	}
}

func TestGenerateSlug_IdempotentAndCharset(t *testing.T) {
	charset := regexp.MustCompile(`^[a-z0-9-]*$`)
	inputs := []string{
		"Test Star", "Zendaya", "Lady Gaga @ Met Gala 2019", "Ánh Dương", "ÆON Flux",
		"A  B  C", "x_y/z", "Jennifer Lopez — Versace Dress", "Straße", "",
	}

	for _, in := range inputs {
		once := GenerateSlug(in)
		assert.Regexp(t, charset, once, "input %q", in)
		assert.Equal(t, once, GenerateSlug(once), "input %q", in)
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("test-star"))
	assert.True(t, IsValidSlug("top10"))
	assert.False(t, IsValidSlug("Test-Star"))
	assert.False(t, IsValidSlug("-test"))
	assert.False(t, IsValidSlug("test--star"))
	assert.False(t, IsValidSlug(""))
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"Red Carpet", "red-carpet", "  ", "Street_Style", "Met Gala", "STREET STYLE"})
	assert.Equal(t, []string{"red-carpet", "street-style", "met-gala"}, got)
	assert.Empty(t, NormalizeTags(nil))
}
