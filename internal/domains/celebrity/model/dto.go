package model

import (
	"regexp"
	"strings"
	"time"

	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const DateLayout = "2006-01-02"

var (
	platformRe = regexp.MustCompile(`^[a-z0-9_]{2,30}$`)
	slugRule   = validation.Match(regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)).Error("must contain only a-z, 0-9 and single hyphens")
)

// ========================================
// REQUEST DTOs
// ========================================

// CreateCelebrityRequest - POST /admin/celebrities
// Image fields nhận URL có sẵn; file upload (nếu có) sẽ ghi đè.
type CreateCelebrityRequest struct {
	Name         string            `json:"name"`
	Slug         string            `json:"slug,omitempty"` // rỗng → derive từ name
	Image        string            `json:"image,omitempty"`
	CoverImage   string            `json:"cover_image,omitempty"`
	InfoboxImage string            `json:"infobox_image,omitempty"`
	Bio          string            `json:"bio,omitempty"`
	Category     string            `json:"category"`
	StyleType    string            `json:"style_type"`
	Birthdate    string            `json:"birthdate,omitempty"` // YYYY-MM-DD
	Birthplace   string            `json:"birthplace,omitempty"`
	Nationality  string            `json:"nationality,omitempty"`
	Height       string            `json:"height,omitempty"`
	Measurements string            `json:"measurements,omitempty"`
	Education    string            `json:"education,omitempty"`
	Awards       []string          `json:"awards,omitempty"`
	NetWorth     string            `json:"net_worth,omitempty"`
	SocialMedia  map[string]string `json:"social_media,omitempty"`
	Signature    Signature         `json:"signature"`
	Tags         []string          `json:"tags,omitempty"`
}

func (r CreateCelebrityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, apperror.NotBlank("name is required"), validation.Length(1, 150)),
		validation.Field(&r.Slug, validation.Length(0, 160), slugRule),
		validation.Field(&r.Category, apperror.NotBlank("category is required"), validation.Length(1, 50)),
		validation.Field(&r.StyleType, apperror.NotBlank("style type is required"), validation.Length(1, 100)),
		validation.Field(&r.Image, is.URL),
		validation.Field(&r.CoverImage, is.URL),
		validation.Field(&r.InfoboxImage, is.URL),
		validation.Field(&r.Bio, validation.Length(0, 20000)),
		validation.Field(&r.Birthdate, validation.Date(DateLayout).Error("birthdate must be YYYY-MM-DD")),
		validation.Field(&r.Awards, validation.Length(0, 100)),
		validation.Field(&r.SocialMedia, validation.By(validSocialMedia)),
		validation.Field(&r.Signature),
		validation.Field(&r.Tags, validation.Length(0, 30)),
	)
}

func (s Signature) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Look, validation.Length(0, 500)),
		validation.Field(&s.Accessories, validation.Length(0, 500)),
		validation.Field(&s.Designers, validation.Length(0, 500)),
		validation.Field(&s.Perfume, validation.Length(0, 200)),
	)
}

// ToEntity build Celebrity từ request (chưa có ID/slug/timestamps)
func (r CreateCelebrityRequest) ToEntity() *Celebrity {
	c := &Celebrity{
		Name:         strings.TrimSpace(r.Name),
		Slug:         r.Slug,
		Image:        r.Image,
		CoverImage:   r.CoverImage,
		InfoboxImage: r.InfoboxImage,
		Bio:          r.Bio,
		Category:     strings.TrimSpace(r.Category),
		StyleType:    strings.TrimSpace(r.StyleType),
		Birthdate:    parseDate(r.Birthdate),
		Birthplace:   r.Birthplace,
		Nationality:  r.Nationality,
		Height:       r.Height,
		Measurements: r.Measurements,
		Education:    r.Education,
		Awards:       nonNil(r.Awards),
		NetWorth:     r.NetWorth,
		SocialMedia:  normalizeSocial(r.SocialMedia),
		Signature:    r.Signature,
		Tags:         utils.NormalizeTags(r.Tags),
	}
	return c
}

// UpdateCelebrityRequest - PUT /admin/celebrities/:id
// nil = giữ nguyên. Nested object dùng patch riêng, không có string-path mutation.
type UpdateCelebrityRequest struct {
	Name         *string            `json:"name,omitempty"`
	Slug         *string            `json:"slug,omitempty"`
	Image        *string            `json:"image,omitempty"`
	CoverImage   *string            `json:"cover_image,omitempty"`
	InfoboxImage *string            `json:"infobox_image,omitempty"`
	Bio          *string            `json:"bio,omitempty"`
	Category     *string            `json:"category,omitempty"`
	StyleType    *string            `json:"style_type,omitempty"`
	Birthdate    *string            `json:"birthdate,omitempty"` // "" để xóa
	Birthplace   *string            `json:"birthplace,omitempty"`
	Nationality  *string            `json:"nationality,omitempty"`
	Height       *string            `json:"height,omitempty"`
	Measurements *string            `json:"measurements,omitempty"`
	Education    *string            `json:"education,omitempty"`
	Awards       *[]string          `json:"awards,omitempty"`
	NetWorth     *string            `json:"net_worth,omitempty"`
	SocialMedia  map[string]*string `json:"social_media,omitempty"` // value null = xóa platform
	Signature    *SignaturePatch    `json:"signature,omitempty"`
	Tags         *[]string          `json:"tags,omitempty"`
}

// SignaturePatch - update từng field của Signature
type SignaturePatch struct {
	Look        *string `json:"look,omitempty"`
	Accessories *string `json:"accessories,omitempty"`
	Designers   *string `json:"designers,omitempty"`
	Perfume     *string `json:"perfume,omitempty"`
}

func (r UpdateCelebrityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, apperror.NilOrNotBlank("name cannot be empty"), validation.Length(1, 150)),
		validation.Field(&r.Slug, validation.NilOrNotEmpty, validation.Length(1, 160), slugRule),
		validation.Field(&r.Category, apperror.NilOrNotBlank("category cannot be empty"), validation.Length(1, 50)),
		validation.Field(&r.StyleType, apperror.NilOrNotBlank("style type cannot be empty"), validation.Length(1, 100)),
		validation.Field(&r.Image, is.URL),
		validation.Field(&r.CoverImage, is.URL),
		validation.Field(&r.InfoboxImage, is.URL),
		validation.Field(&r.Bio, validation.Length(0, 20000)),
		validation.Field(&r.Birthdate, validation.Date(DateLayout).Error("birthdate must be YYYY-MM-DD")),
		validation.Field(&r.SocialMedia, validation.By(validSocialPatch)),
		validation.Field(&r.Signature),
		validation.Field(&r.Tags, validation.By(func(v interface{}) error {
			if tags, _ := v.(*[]string); tags != nil && len(*tags) > 30 {
				return validation.NewError("validation_tags_max", "at most 30 tags")
			}
			return nil
		})),
	)
}

func (p SignaturePatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Look, validation.Length(0, 500)),
		validation.Field(&p.Accessories, validation.Length(0, 500)),
		validation.Field(&p.Designers, validation.Length(0, 500)),
		validation.Field(&p.Perfume, validation.Length(0, 200)),
	)
}

// ApplyTo ghi các field được set vào c. Trả về true nếu name thay đổi.
func (r UpdateCelebrityRequest) ApplyTo(c *Celebrity) (nameChanged bool) {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		nameChanged = name != c.Name
		c.Name = name
	}
	setString(&c.Image, r.Image)
	setString(&c.CoverImage, r.CoverImage)
	setString(&c.InfoboxImage, r.InfoboxImage)
	setString(&c.Bio, r.Bio)
	setString(&c.Category, r.Category)
	setString(&c.StyleType, r.StyleType)
	if r.Birthdate != nil {
		c.Birthdate = parseDate(*r.Birthdate)
	}
	setString(&c.Birthplace, r.Birthplace)
	setString(&c.Nationality, r.Nationality)
	setString(&c.Height, r.Height)
	setString(&c.Measurements, r.Measurements)
	setString(&c.Education, r.Education)
	if r.Awards != nil {
		c.Awards = nonNil(*r.Awards)
	}
	setString(&c.NetWorth, r.NetWorth)

	if len(r.SocialMedia) > 0 {
		if c.SocialMedia == nil {
			c.SocialMedia = make(map[string]string)
		}
		for platform, handle := range r.SocialMedia {
			platform = strings.ToLower(strings.TrimSpace(platform))
			if handle == nil || strings.TrimSpace(*handle) == "" {
				delete(c.SocialMedia, platform)
				continue
			}
			c.SocialMedia[platform] = strings.TrimSpace(*handle)
		}
	}

	if p := r.Signature; p != nil {
		setString(&c.Signature.Look, p.Look)
		setString(&c.Signature.Accessories, p.Accessories)
		setString(&c.Signature.Designers, p.Designers)
		setString(&c.Signature.Perfume, p.Perfume)
	}

	if r.Tags != nil {
		c.Tags = utils.NormalizeTags(*r.Tags)
	}
	return nameChanged
}

// ========================================
// HELPERS
// ========================================

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

func normalizeSocial(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for platform, handle := range in {
		if h := strings.TrimSpace(handle); h != "" {
			out[strings.ToLower(strings.TrimSpace(platform))] = h
		}
	}
	return out
}

func validSocialMedia(value interface{}) error {
	m, _ := value.(map[string]string)
	for platform, handle := range m {
		if err := validPlatform(platform, handle); err != nil {
			return err
		}
	}
	return nil
}

func validSocialPatch(value interface{}) error {
	m, _ := value.(map[string]*string)
	for platform, handle := range m {
		h := ""
		if handle != nil {
			h = *handle
		}
		if err := validPlatform(platform, h); err != nil {
			return err
		}
	}
	return nil
}

func validPlatform(platform, handle string) error {
	if !platformRe.MatchString(strings.ToLower(strings.TrimSpace(platform))) {
		return validation.NewError("validation_social_platform", "invalid platform key "+platform)
	}
	if len(handle) > 255 {
		return validation.NewError("validation_social_handle", platform+" handle is too long")
	}
	return nil
}
