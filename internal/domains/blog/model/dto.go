package model

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	DateLayout = "2006-01-02"

	DefaultAuthor = "CelebStyle Editorial"

	maxDerivedKeywords = 10
)

var slugRule = validation.Match(regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)).Error("must contain only a-z, 0-9 and single hyphens")

// từ không mang nghĩa khi derive keywords từ title
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true, "that": true,
	"this": true, "are": true, "was": true, "how": true, "what": true, "her": true,
	"his": true, "their": true, "you": true, "your": true, "all": true, "into": true,
}

// ========================================
// REQUEST DTOs
// ========================================

// CreatePostRequest - POST /admin/blog
type CreatePostRequest struct {
	Title           string          `json:"title"`
	Slug            string          `json:"slug,omitempty"`
	Excerpt         string          `json:"excerpt,omitempty"`
	Content         string          `json:"content"`
	CoverImage      string          `json:"cover_image,omitempty"`
	Author          string          `json:"author,omitempty"`
	Category        string          `json:"category"`
	Date            string          `json:"date,omitempty"` // YYYY-MM-DD, rỗng = hôm nay
	Keywords        []string        `json:"keywords,omitempty"`
	MetaDescription string          `json:"meta_description,omitempty"`
	StructuredData  json.RawMessage `json:"structured_data,omitempty"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, apperror.NotBlank("title is required"), validation.Length(1, 200)),
		validation.Field(&r.Slug, validation.Length(0, 220), slugRule),
		validation.Field(&r.Excerpt, validation.Length(0, 1000)),
		validation.Field(&r.Content, apperror.NotBlank("content is required"), validation.Length(1, 200000)),
		validation.Field(&r.CoverImage, is.URL),
		validation.Field(&r.Author, validation.Length(0, 100)),
		validation.Field(&r.Category, apperror.NotBlank("category is required"), validation.Length(1, 50)),
		validation.Field(&r.Date, validation.Date(DateLayout).Error("date must be YYYY-MM-DD")),
		validation.Field(&r.Keywords, validation.Length(0, 30)),
		validation.Field(&r.MetaDescription, validation.Length(0, utils.MaxMetaDescriptionLength)),
		validation.Field(&r.StructuredData, validation.By(jsonObject)),
	)
}

// ToEntity build Post và điền SEO defaults
func (r CreatePostRequest) ToEntity(today time.Time) *Post {
	p := &Post{
		Title:           strings.TrimSpace(r.Title),
		Slug:            r.Slug,
		Excerpt:         strings.TrimSpace(r.Excerpt),
		Content:         r.Content,
		CoverImage:      r.CoverImage,
		Author:          strings.TrimSpace(r.Author),
		Category:        strings.TrimSpace(r.Category),
		Date:            parseDate(r.Date),
		Keywords:        utils.NormalizeTags(r.Keywords),
		MetaDescription: strings.TrimSpace(r.MetaDescription),
		StructuredData:  compactJSON(r.StructuredData),
	}
	if p.Author == "" {
		p.Author = DefaultAuthor
	}
	if p.Date == nil {
		d := today.Truncate(24 * time.Hour)
		p.Date = &d
	}
	p.CategorySlug = utils.GenerateSlug(p.Category)
	p.ApplySEODefaults()
	return p
}

// UpdatePostRequest - PUT /admin/blog/:id
type UpdatePostRequest struct {
	Title           *string          `json:"title,omitempty"`
	Slug            *string          `json:"slug,omitempty"`
	Excerpt         *string          `json:"excerpt,omitempty"`
	Content         *string          `json:"content,omitempty"`
	CoverImage      *string          `json:"cover_image,omitempty"`
	Author          *string          `json:"author,omitempty"`
	Category        *string          `json:"category,omitempty"`
	Date            *string          `json:"date,omitempty"`
	Keywords        *[]string        `json:"keywords,omitempty"`         // [] để derive lại
	MetaDescription *string          `json:"meta_description,omitempty"` // "" để derive lại; nil giữ nguyên trừ khi đang là bản derive
	StructuredData  *json.RawMessage `json:"structured_data,omitempty"`
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, apperror.NilOrNotBlank("title cannot be empty"), validation.Length(1, 200)),
		validation.Field(&r.Slug, validation.NilOrNotEmpty, validation.Length(1, 220), slugRule),
		validation.Field(&r.Excerpt, validation.Length(0, 1000)),
		validation.Field(&r.Content, apperror.NilOrNotBlank("content cannot be empty"), validation.Length(1, 200000)),
		validation.Field(&r.CoverImage, is.URL),
		validation.Field(&r.Author, validation.Length(0, 100)),
		validation.Field(&r.Category, apperror.NilOrNotBlank("category cannot be empty"), validation.Length(1, 50)),
		validation.Field(&r.Date, validation.Date(DateLayout).Error("date must be YYYY-MM-DD")),
		validation.Field(&r.MetaDescription, validation.Length(0, utils.MaxMetaDescriptionLength)),
		validation.Field(&r.StructuredData, validation.By(func(v interface{}) error {
			raw, _ := v.(*json.RawMessage)
			if raw == nil {
				return nil
			}
			return jsonObject(*raw)
		})),
	)
}

// ApplyTo ghi field được set. Trả về true nếu title thay đổi.
// Meta description được derive tự động thì derive lại khi excerpt/content đổi;
// bản editor tự viết được giữ nguyên.
func (r UpdatePostRequest) ApplyTo(p *Post) (titleChanged bool) {
	derivedMeta := p.MetaDescription == p.derivedMetaDescription()

	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		titleChanged = title != p.Title
		p.Title = title
	}
	setString(&p.Excerpt, r.Excerpt)
	if r.Content != nil {
		p.Content = *r.Content
	}
	setString(&p.CoverImage, r.CoverImage)
	setString(&p.Author, r.Author)
	if p.Author == "" {
		p.Author = DefaultAuthor
	}
	if r.Category != nil {
		p.Category = strings.TrimSpace(*r.Category)
		p.CategorySlug = utils.GenerateSlug(p.Category)
	}
	if r.Date != nil {
		p.Date = parseDate(*r.Date)
	}
	if r.Keywords != nil {
		p.Keywords = utils.NormalizeTags(*r.Keywords)
	}
	if r.MetaDescription != nil {
		p.MetaDescription = strings.TrimSpace(*r.MetaDescription)
	} else if derivedMeta && (r.Excerpt != nil || r.Content != nil) {
		p.MetaDescription = ""
	}
	if r.StructuredData != nil {
		p.StructuredData = compactJSON(*r.StructuredData)
	}
	p.ApplySEODefaults()
	return titleChanged
}

// ========================================
// SEO DEFAULTS
// ========================================

// ApplySEODefaults điền meta description và keywords khi editor bỏ trống
func (p *Post) ApplySEODefaults() {
	if p.MetaDescription == "" {
		p.MetaDescription = p.derivedMetaDescription()
	}
	if len(p.Keywords) == 0 {
		p.Keywords = DeriveKeywords(p.Category, p.Title)
	}
}

// derivedMetaDescription: từ excerpt, excerpt rỗng thì từ content
func (p *Post) derivedMetaDescription() string {
	source := p.Excerpt
	if strings.TrimSpace(utils.StripHTML(source)) == "" {
		source = p.Content
	}
	return utils.MetaDescription(source)
}

// DeriveKeywords: slug của category + các từ có nghĩa trong title, không trùng, tối đa 10
func DeriveKeywords(category, title string) []string {
	candidates := []string{category}
	for _, word := range strings.Fields(utils.RemoveDiacritics(title)) {
		w := strings.ToLower(strings.Trim(word, ".,:;!?\"'()[]"))
		if len([]rune(w)) < 3 || stopWords[w] {
			continue
		}
		candidates = append(candidates, w)
	}
	keywords := utils.NormalizeTags(candidates)
	if len(keywords) > maxDerivedKeywords {
		keywords = keywords[:maxDerivedKeywords]
	}
	return keywords
}

// ========================================
// HELPERS
// ========================================

func jsonObject(value interface{}) error {
	raw, _ := value.(json.RawMessage)
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return validation.NewError("validation_structured_data", "structured_data must be a JSON object")
	}
	return nil
}

func compactJSON(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	buf := new(bytes.Buffer)
	if err := json.Compact(buf, trimmed); err != nil {
		return nil
	}
	return buf.Bytes()
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
