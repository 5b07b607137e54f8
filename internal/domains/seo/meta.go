// Package seo build metadata cho public pages: title/description, Open Graph, Twitter Card,
// JSON-LD, sitemap.xml và rss.xml. Origin luôn được truyền vào, không đọc từ global.
package seo

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	affiliateModel "celebstyle-backend/internal/domains/affiliate/model"
	blogModel "celebstyle-backend/internal/domains/blog/model"
	categoryModel "celebstyle-backend/internal/domains/category/model"
	celebrityModel "celebstyle-backend/internal/domains/celebrity/model"
	outfitModel "celebstyle-backend/internal/domains/outfit/model"
	"celebstyle-backend/internal/shared/utils"
)

const (
	OGWebsite = "website"
	OGArticle = "article"
	OGProfile = "profile"

	TwitterSummary      = "summary"
	TwitterSummaryLarge = "summary_large_image"

	maxTitleLength = 70
)

// PageMeta - metadata của một public page. Field rỗng thì frontend bỏ qua tag tương ứng.
type PageMeta struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Canonical   string   `json:"canonical"`
	OGType      string   `json:"og_type"`
	Image       string   `json:"image,omitempty"`
	TwitterCard string   `json:"twitter_card"`
	Keywords    []string `json:"keywords,omitempty"`
	JSONLD      []JSONLD `json:"json_ld,omitempty"`
}

// Builder tạo PageMeta từ entities
type Builder struct {
	origin       string
	siteName     string
	defaultImage string
}

func NewBuilder(origin, siteName, defaultImage string) *Builder {
	return &Builder{
		origin:       strings.TrimRight(origin, "/"),
		siteName:     siteName,
		defaultImage: defaultImage,
	}
}

func (b *Builder) Origin() string { return b.origin }

// URL build absolute URL từ origin + path segments (segments được escape).
// Không có segment → trang chủ "origin/".
func (b *Builder) URL(segments ...string) string {
	var sb strings.Builder
	sb.WriteString(b.origin)
	for _, s := range segments {
		if s = strings.Trim(s, "/"); s != "" {
			sb.WriteString("/")
			sb.WriteString(url.PathEscape(s))
		}
	}
	if sb.Len() == len(b.origin) {
		sb.WriteString("/")
	}
	return sb.String()
}

// ========================================
// PAGE BUILDERS
// ========================================

func (b *Builder) Home() PageMeta {
	return b.page(PageMeta{
		Title:       b.siteName + " | Celebrity Fashion & Outfits",
		Description: "Discover what celebrities wear: red carpet looks, street style and where to shop them.",
		Canonical:   b.URL(),
		OGType:      OGWebsite,
		JSONLD:      []JSONLD{b.WebSite()},
	})
}

func (b *Builder) Celebrity(c *celebrityModel.Celebrity) PageMeta {
	desc := c.Bio
	if strings.TrimSpace(utils.StripHTML(desc)) == "" {
		desc = fmt.Sprintf("%s's style, signature looks and %d outfits with shopping links.", c.Name, c.OutfitCount)
	}
	canonical := b.URL("celebrity", c.Slug)
	return b.page(PageMeta{
		Title:       fmt.Sprintf("%s Style & Outfits", c.Name),
		Description: desc,
		Canonical:   canonical,
		OGType:      OGProfile,
		Image:       firstNonEmpty(c.CoverImage, c.Image),
		Keywords:    c.Tags,
		JSONLD: []JSONLD{
			b.Person(c),
			b.Breadcrumbs(Crumb{"Celebrities", b.URL("celebrities")}, Crumb{c.Name, canonical}),
		},
	})
}

// Outfit page kèm Product schema cho affiliate products và FAQPage từ sections dạng câu hỏi
func (b *Builder) Outfit(o *outfitModel.Outfit, products []affiliateModel.Product) PageMeta {
	desc := o.Description
	if strings.TrimSpace(desc) == "" {
		desc = o.FullDescription
	}
	title := o.Title
	if o.CelebrityName != "" {
		title = fmt.Sprintf("%s: %s", o.CelebrityName, o.Title)
	}
	canonical := b.URL("outfit", o.Slug)

	crumbs := []Crumb{{"Outfits", b.URL("outfits")}}
	if o.CelebritySlug != "" {
		crumbs = append(crumbs, Crumb{o.CelebrityName, b.URL("celebrity", o.CelebritySlug)})
	}
	crumbs = append(crumbs, Crumb{o.Title, canonical})

	ld := []JSONLD{b.Breadcrumbs(crumbs...)}
	for i := range products {
		ld = append(ld, b.Product(&products[i]))
	}
	if faq := b.FAQPage(o.Sections); faq != nil {
		ld = append(ld, faq)
	}

	return b.page(PageMeta{
		Title:       title,
		Description: desc,
		Canonical:   canonical,
		OGType:      OGArticle,
		Image:       o.Image,
		Keywords:    o.Tags,
		JSONLD:      ld,
	})
}

// BlogPost dùng structured_data của editor nếu có, ngược lại tự build BlogPosting
func (b *Builder) BlogPost(p *blogModel.Post) PageMeta {
	canonical := b.URL("blog", p.Slug)
	article := b.BlogPosting(p)
	if len(p.StructuredData) > 0 {
		var custom JSONLD
		if err := json.Unmarshal(p.StructuredData, &custom); err == nil && len(custom) > 0 {
			article = custom
		}
	}
	return b.page(PageMeta{
		Title:       p.Title,
		Description: firstNonEmpty(p.MetaDescription, p.Excerpt),
		Canonical:   canonical,
		OGType:      OGArticle,
		Image:       p.CoverImage,
		Keywords:    p.Keywords,
		JSONLD: []JSONLD{
			article,
			b.Breadcrumbs(Crumb{"Blog", b.URL("blog")}, Crumb{p.Title, canonical}),
		},
	})
}

func (b *Builder) BlogTopic(topic blogModel.Topic) PageMeta {
	return b.page(PageMeta{
		Title:       fmt.Sprintf("%s Articles", topic.Name),
		Description: fmt.Sprintf("%d articles about %s on %s.", topic.Count, topic.Name, b.siteName),
		Canonical:   b.URL("blog-topic", topic.Slug),
		OGType:      OGWebsite,
	})
}

func (b *Builder) Category(cat categoryModel.Category, items []categoryModel.Item) PageMeta {
	canonical := b.URL("category", cat.Slug)
	ld := []JSONLD{b.Breadcrumbs(Crumb{"Categories", b.URL("categories")}, Crumb{cat.Name, canonical})}
	if list := b.ItemList(canonical, items); list != nil {
		ld = append(ld, list)
	}
	return b.page(PageMeta{
		Title:       fmt.Sprintf("Shop %s", cat.Name),
		Description: fmt.Sprintf("Shop %d celebrity-inspired %s picks.", cat.Count, strings.ToLower(cat.Name)),
		Canonical:   canonical,
		OGType:      OGWebsite,
		Image:       cat.Image,
		JSONLD:      ld,
	})
}

// ========================================
// HELPERS
// ========================================

// page chuẩn hóa title/description và điền defaults
func (b *Builder) page(m PageMeta) PageMeta {
	m.Title = utils.TruncateWords(strings.TrimSpace(m.Title), maxTitleLength)
	if b.siteName != "" && !strings.Contains(m.Title, b.siteName) {
		m.Title += " | " + b.siteName
	}
	m.Description = utils.MetaDescription(m.Description)
	if m.Image == "" {
		m.Image = b.defaultImage
	}
	m.TwitterCard = TwitterSummary
	if m.Image != "" {
		m.TwitterCard = TwitterSummaryLarge
	}
	return m
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
