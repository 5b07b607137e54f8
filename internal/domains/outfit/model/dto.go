package model

import (
	"regexp"
	"strings"
	"time"

	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"

	// MaxImages giới hạn số ảnh trong gallery
	MaxImages = 20
)

var slugRule = validation.Match(regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)).Error("must contain only a-z, 0-9 and single hyphens")

// ========================================
// REQUEST DTOs
// ========================================

// CreateOutfitRequest - POST /admin/outfits
// Images nhận URL có sẵn; file upload được append sau chúng.
type CreateOutfitRequest struct {
	CelebrityID     string           `json:"celebrity_id"`
	Title           string           `json:"title"`
	Slug            string           `json:"slug,omitempty"`
	Description     string           `json:"description,omitempty"`
	FullDescription string           `json:"full_description,omitempty"`
	Images          []string         `json:"images,omitempty"`
	Occasion        string           `json:"occasion,omitempty"`
	Date            string           `json:"date,omitempty"` // YYYY-MM-DD
	Tags            []string         `json:"tags,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Brand           string           `json:"brand,omitempty"`
	AffiliateLink   string           `json:"affiliate_link,omitempty"`
	Sections        []Section        `json:"sections,omitempty"`
}

func (r CreateOutfitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CelebrityID, validation.Required.Error("celebrity_id is required"), is.UUID),
		validation.Field(&r.Title, apperror.NotBlank("title is required"), validation.Length(1, 200)),
		validation.Field(&r.Slug, validation.Length(0, 220), slugRule),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.FullDescription, validation.Length(0, 50000)),
		validation.Field(&r.Images, validation.Length(0, MaxImages), validation.Each(is.URL)),
		validation.Field(&r.Occasion, validation.Length(0, 100)),
		validation.Field(&r.Date, validation.Date(DateLayout).Error("date must be YYYY-MM-DD")),
		validation.Field(&r.Tags, validation.Length(0, 30)),
		validation.Field(&r.Price, validation.By(nonNegativePrice)),
		validation.Field(&r.Brand, validation.Length(0, 100)),
		validation.Field(&r.AffiliateLink, is.URL),
		validation.Field(&r.Sections, validation.Length(0, 50)),
	)
}

func (s Section) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Title, apperror.NotBlank("section title is required"), validation.Length(1, 200)),
		validation.Field(&s.Content, validation.Length(0, 50000)),
	)
}

// ToEntity build Outfit từ request (chưa có ID/slug/timestamps)
func (r CreateOutfitRequest) ToEntity() *Outfit {
	o := &Outfit{
		CelebrityID:     uuid.MustParse(r.CelebrityID),
		Title:           strings.TrimSpace(r.Title),
		Slug:            r.Slug,
		Description:     r.Description,
		FullDescription: r.FullDescription,
		Images:          nonNil(r.Images),
		Occasion:        strings.TrimSpace(r.Occasion),
		Date:            parseDate(r.Date),
		Tags:            utils.NormalizeTags(r.Tags),
		Price:           r.Price,
		Brand:           strings.TrimSpace(r.Brand),
		AffiliateLink:   r.AffiliateLink,
		Sections:        normalizeSections(r.Sections),
	}
	o.SyncPrimaryImage()
	return o
}

// UpdateOutfitRequest - PUT /admin/outfits/:id (nil = giữ nguyên)
type UpdateOutfitRequest struct {
	CelebrityID     *string          `json:"celebrity_id,omitempty"` // chuyển outfit sang celebrity khác
	Title           *string          `json:"title,omitempty"`
	Slug            *string          `json:"slug,omitempty"`
	Description     *string          `json:"description,omitempty"`
	FullDescription *string          `json:"full_description,omitempty"`
	Images          *[]string        `json:"images,omitempty"` // thứ tự mới / bỏ ảnh; chỉ chứa URL hiện có
	Occasion        *string          `json:"occasion,omitempty"`
	Date            *string          `json:"date,omitempty"` // "" để xóa
	Tags            *[]string        `json:"tags,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	ClearPrice      bool             `json:"clear_price,omitempty"`
	Brand           *string          `json:"brand,omitempty"`
	AffiliateLink   *string          `json:"affiliate_link,omitempty"`
	Sections        *[]Section       `json:"sections,omitempty"`
}

func (r UpdateOutfitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CelebrityID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&r.Title, apperror.NilOrNotBlank("title cannot be empty"), validation.Length(1, 200)),
		validation.Field(&r.Slug, validation.NilOrNotEmpty, validation.Length(1, 220), slugRule),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.FullDescription, validation.Length(0, 50000)),
		validation.Field(&r.Images, validation.By(func(v interface{}) error {
			images, _ := v.(*[]string)
			if images == nil {
				return nil
			}
			if len(*images) > MaxImages {
				return validation.NewError("validation_images_max", "at most 20 images")
			}
			return validation.Validate(*images, validation.Each(is.URL))
		})),
		validation.Field(&r.Occasion, validation.Length(0, 100)),
		validation.Field(&r.Date, validation.Date(DateLayout).Error("date must be YYYY-MM-DD")),
		validation.Field(&r.Tags, validation.By(func(v interface{}) error {
			if tags, _ := v.(*[]string); tags != nil && len(*tags) > 30 {
				return validation.NewError("validation_tags_max", "at most 30 tags")
			}
			return nil
		})),
		validation.Field(&r.Price, validation.By(nonNegativePrice)),
		validation.Field(&r.Brand, validation.Length(0, 100)),
		validation.Field(&r.AffiliateLink, is.URL),
		validation.Field(&r.Sections, validation.By(func(v interface{}) error {
			sections, _ := v.(*[]Section)
			if sections == nil {
				return nil
			}
			if len(*sections) > 50 {
				return validation.NewError("validation_sections_max", "at most 50 sections")
			}
			return validation.Validate(*sections)
		})),
	)
}

// ApplyTo ghi các field được set vào o (trừ celebrity_id và images, service xử lý riêng).
// Trả về true nếu title thay đổi.
func (r UpdateOutfitRequest) ApplyTo(o *Outfit) (titleChanged bool) {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		titleChanged = title != o.Title
		o.Title = title
	}
	setString(&o.Description, r.Description)
	setString(&o.FullDescription, r.FullDescription)
	setString(&o.Occasion, r.Occasion)
	if r.Date != nil {
		o.Date = parseDate(*r.Date)
	}
	if r.Tags != nil {
		o.Tags = utils.NormalizeTags(*r.Tags)
	}
	switch {
	case r.ClearPrice:
		o.Price = nil
	case r.Price != nil:
		o.Price = r.Price
	}
	setString(&o.Brand, r.Brand)
	setString(&o.AffiliateLink, r.AffiliateLink)
	if r.Sections != nil {
		o.Sections = normalizeSections(*r.Sections)
	}
	return titleChanged
}

// ========================================
// HELPERS
// ========================================

func nonNegativePrice(value interface{}) error {
	p, _ := value.(*decimal.Decimal)
	if p != nil && p.IsNegative() {
		return validation.NewError("validation_price_negative", "price must not be negative")
	}
	return nil
}

func normalizeSections(in []Section) []Section {
	out := make([]Section, 0, len(in))
	for _, s := range in {
		out = append(out, Section{Title: strings.TrimSpace(s.Title), Content: s.Content})
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
