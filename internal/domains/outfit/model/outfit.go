package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Outfit - một bộ trang phục celebrity đã mặc
type Outfit struct {
	ID              uuid.UUID        `json:"id"`
	CelebrityID     uuid.UUID        `json:"celebrity_id"`
	Title           string           `json:"title"`
	Slug            string           `json:"slug"`
	Description     string           `json:"description"`
	FullDescription string           `json:"full_description,omitempty"`
	Image           string           `json:"image"`  // luôn = Images[0] khi gallery không rỗng
	Images          []string         `json:"images"` // thứ tự hiển thị, phần tử đầu là primary
	Occasion        string           `json:"occasion,omitempty"`
	Date            *time.Time       `json:"date,omitempty"` // ngày mặc
	Tags            []string         `json:"tags"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Brand           string           `json:"brand,omitempty"`
	AffiliateLink   string           `json:"affiliate_link,omitempty"`
	Sections        []Section        `json:"sections"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	// Read-side, join từ celebrities
	CelebrityName string `json:"celebrity_name,omitempty"`
	CelebritySlug string `json:"celebrity_slug,omitempty"`
}

// Section - block nội dung rich-text có tiêu đề
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"` // HTML
}

// SyncPrimaryImage giữ invariant Image = Images[0] (rỗng khi gallery rỗng)
func (o *Outfit) SyncPrimaryImage() {
	if len(o.Images) > 0 {
		o.Image = o.Images[0]
		return
	}
	o.Image = ""
}

// ImageURLs gồm primary image và gallery, không trùng
func (o *Outfit) ImageURLs() []string {
	seen := make(map[string]bool)
	var urls []string
	for _, u := range append([]string{o.Image}, o.Images...) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls
}

// Sort options
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortTitleAsc  = "name_asc"
	SortTitleDesc = "name_desc"
	SortDateWorn  = "date_worn"
)

type ListFilter struct {
	CelebrityID       *uuid.UUID
	CelebrityCategory string
	Tag               string
	Occasion          string
	Search            string // ILIKE trên title
	Sort              string
	Limit             int
	Offset            int
}
