package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Post - bài blog (content là HTML từ rich-text editor)
type Post struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Excerpt         string          `json:"excerpt"`
	Content         string          `json:"content"`
	CoverImage      string          `json:"cover_image,omitempty"`
	Author          string          `json:"author"`
	Category        string          `json:"category"`       // topic hiển thị, VD: "Red Carpet"
	CategorySlug    string          `json:"category_slug"`  // topic trong URL: /blog/topics/red-carpet
	Date            *time.Time      `json:"date,omitempty"` // ngày publish
	Keywords        []string        `json:"keywords"`
	MetaDescription string          `json:"meta_description"`
	StructuredData  json.RawMessage `json:"structured_data,omitempty"` // JSON-LD object do editor nhập
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Summary - item trong list (không kèm content)
type Summary struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Excerpt      string     `json:"excerpt"`
	CoverImage   string     `json:"cover_image,omitempty"`
	Author       string     `json:"author"`
	Category     string     `json:"category"`
	CategorySlug string     `json:"category_slug"`
	Date         *time.Time `json:"date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Topic - category của blog kèm số bài
type Topic struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// Sort options
const (
	SortNewest    = "newest" // date DESC rồi created_at DESC
	SortOldest    = "oldest"
	SortTitleAsc  = "name_asc"
	SortTitleDesc = "name_desc"
)

type ListFilter struct {
	Topic  string // category_slug
	Search string // ILIKE trên title
	Sort   string
	Limit  int
	Offset int
}
