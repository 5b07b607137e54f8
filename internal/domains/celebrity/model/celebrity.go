package model

import (
	"time"

	"github.com/google/uuid"
)

// Celebrity - entity chính của site
type Celebrity struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Image        string    `json:"image"`
	CoverImage   string    `json:"cover_image"`
	InfoboxImage string    `json:"infobox_image"`
	Bio          string    `json:"bio"`
	Category     string    `json:"category"`
	StyleType    string    `json:"style_type"`

	// Extended biographical fields
	Birthdate    *time.Time        `json:"birthdate,omitempty"`
	Birthplace   string            `json:"birthplace,omitempty"`
	Nationality  string            `json:"nationality,omitempty"`
	Height       string            `json:"height,omitempty"`
	Measurements string            `json:"measurements,omitempty"`
	Education    string            `json:"education,omitempty"`
	Awards       []string          `json:"awards"`
	NetWorth     string            `json:"net_worth,omitempty"`
	SocialMedia  map[string]string `json:"social_media"`
	Signature    Signature         `json:"signature"`

	OutfitCount int       `json:"outfit_count"` // denormalized, sync trong transaction của outfit
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Signature - phong cách đặc trưng
type Signature struct {
	Look        string `json:"look,omitempty"`
	Accessories string `json:"accessories,omitempty"`
	Designers   string `json:"designers,omitempty"`
	Perfume     string `json:"perfume,omitempty"`
}

func (s Signature) IsZero() bool {
	return s == Signature{}
}

// ImageURLs trả về các URL ảnh khác rỗng (dùng khi cleanup asset)
func (c *Celebrity) ImageURLs() []string {
	var urls []string
	for _, u := range []string{c.Image, c.CoverImage, c.InfoboxImage} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Categories gợi ý cho form admin, category vẫn là free text
var Categories = []string{"Actor", "Musician", "Model", "Athlete", "Influencer", "Fashion Icon"}

// Sort options
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortNameAsc  = "name_asc"
	SortNameDesc = "name_desc"
	SortOutfits  = "outfits"
)

// ListFilter cho List
type ListFilter struct {
	Category string
	Tag      string
	Search   string // ILIKE substring trên name
	Sort     string
	Limit    int
	Offset   int
}
