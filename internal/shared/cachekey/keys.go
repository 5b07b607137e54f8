// Package cachekey định nghĩa key/pattern Redis của từng domain.
// Nhiều repository cần invalidate cache của domain khác (VD: outfit đổi outfit_count của celebrity).
package cachekey

import (
	"fmt"
	"time"
)

// TTL mặc định cho cache đọc
const DefaultTTL = 15 * time.Minute

const (
	CelebrityPrefix    = "celebrity:"
	OutfitPrefix       = "outfit:"
	AffiliatePrefix    = "affiliate:"
	BlogPrefix         = "blog:"
	CategoryItemPrefix = "category_item:"
	HomePrefix         = "home:"
)

// All trả về glob pattern xóa toàn bộ key của một domain
func All(prefix string) string {
	return prefix + "*"
}

// Slug: celebrity:slug:zendaya
func Slug(prefix, slug string) string {
	return fmt.Sprintf("%sslug:%s", prefix, slug)
}

// ID: outfit:id:<uuid>
func ID(prefix string, id fmt.Stringer) string {
	return fmt.Sprintf("%sid:%s", prefix, id)
}

// List: blog:list:<hash của filter>
func List(prefix string, parts ...interface{}) string {
	return fmt.Sprintf("%slist:%s", prefix, fmt.Sprint(parts...))
}
