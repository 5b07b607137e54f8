package seo

import (
	"sort"
	"strings"

	affiliateModel "celebstyle-backend/internal/domains/affiliate/model"
	blogModel "celebstyle-backend/internal/domains/blog/model"
	categoryModel "celebstyle-backend/internal/domains/category/model"
	celebrityModel "celebstyle-backend/internal/domains/celebrity/model"
	outfitModel "celebstyle-backend/internal/domains/outfit/model"
	"celebstyle-backend/internal/shared/utils"
)

const schemaContext = "https://schema.org"

// JSONLD - một schema.org object, marshal thẳng ra <script type="application/ld+json">
type JSONLD map[string]interface{}

// Crumb - một bậc của BreadcrumbList
type Crumb struct {
	Name string
	URL  string
}

func (b *Builder) WebSite() JSONLD {
	return JSONLD{
		"@context": schemaContext,
		"@type":    "WebSite",
		"name":     b.siteName,
		"url":      b.URL(),
		"potentialAction": JSONLD{
			"@type":       "SearchAction",
			"target":      b.URL("search") + "?q={search_term_string}",
			"query-input": "required name=search_term_string",
		},
	}
}

// Person - celebrity profile
func (b *Builder) Person(c *celebrityModel.Celebrity) JSONLD {
	ld := JSONLD{
		"@context": schemaContext,
		"@type":    "Person",
		"name":     c.Name,
		"url":      b.URL("celebrity", c.Slug),
	}
	setIf(ld, "image", c.Image)
	setIf(ld, "description", utils.MetaDescription(c.Bio))
	setIf(ld, "jobTitle", c.Category)
	setIf(ld, "nationality", c.Nationality)
	setIf(ld, "birthPlace", c.Birthplace)
	if c.Birthdate != nil {
		ld["birthDate"] = c.Birthdate.Format(celebrityModel.DateLayout)
	}
	if len(c.Awards) > 0 {
		ld["award"] = c.Awards
	}

	// sameAs chỉ nhận URL đầy đủ, handle "@abc" bị bỏ qua
	var sameAs []string
	for _, handle := range c.SocialMedia {
		if strings.HasPrefix(handle, "https://") || strings.HasPrefix(handle, "http://") {
			sameAs = append(sameAs, handle)
		}
	}
	if len(sameAs) > 0 {
		sort.Strings(sameAs) // map order không ổn định
		ld["sameAs"] = sameAs
	}
	return ld
}

// BlogPosting - bài blog
func (b *Builder) BlogPosting(p *blogModel.Post) JSONLD {
	url := b.URL("blog", p.Slug)
	ld := JSONLD{
		"@context":         schemaContext,
		"@type":            "BlogPosting",
		"headline":         utils.TruncateWords(p.Title, 110),
		"url":              url,
		"mainEntityOfPage": url,
		"author":           JSONLD{"@type": "Person", "name": p.Author},
		"publisher":        JSONLD{"@type": "Organization", "name": b.siteName, "url": b.URL()},
		"dateModified":     p.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	setIf(ld, "description", p.MetaDescription)
	setIf(ld, "image", p.CoverImage)
	setIf(ld, "articleSection", p.Category)
	if p.Date != nil {
		ld["datePublished"] = p.Date.Format(blogModel.DateLayout)
	}
	if len(p.Keywords) > 0 {
		ld["keywords"] = strings.Join(p.Keywords, ", ")
	}
	return ld
}

// Product - affiliate product, offer chỉ có khi price parse được
func (b *Builder) Product(p *affiliateModel.Product) JSONLD {
	ld := JSONLD{
		"@context": schemaContext,
		"@type":    "Product",
		"name":     p.Title,
	}
	setIf(ld, "image", p.Image)
	setIf(ld, "description", utils.MetaDescription(p.Description))
	if p.Retailer != "" {
		ld["brand"] = JSONLD{"@type": "Brand", "name": p.Retailer}
	}
	if p.PriceAmount != nil {
		offer := JSONLD{
			"@type": "Offer",
			"price": p.PriceAmount.StringFixed(2),
			"url":   p.AffiliateLink,
		}
		setIf(offer, "priceCurrency", p.Currency)
		if p.Retailer != "" {
			offer["seller"] = JSONLD{"@type": "Organization", "name": p.Retailer}
		}
		ld["offers"] = offer
	}
	return ld
}

// FAQPage từ các section có title dạng câu hỏi. Không có câu hỏi nào → nil.
func (b *Builder) FAQPage(sections []outfitModel.Section) JSONLD {
	var questions []JSONLD
	for _, s := range sections {
		title := strings.TrimSpace(s.Title)
		answer := strings.TrimSpace(utils.StripHTML(s.Content))
		if !strings.HasSuffix(title, "?") || answer == "" {
			continue
		}
		questions = append(questions, JSONLD{
			"@type":          "Question",
			"name":           title,
			"acceptedAnswer": JSONLD{"@type": "Answer", "text": answer},
		})
	}
	if len(questions) == 0 {
		return nil
	}
	return JSONLD{
		"@context":   schemaContext,
		"@type":      "FAQPage",
		"mainEntity": questions,
	}
}

func (b *Builder) Breadcrumbs(crumbs ...Crumb) JSONLD {
	items := make([]JSONLD, 0, len(crumbs)+1)
	items = append(items, JSONLD{"@type": "ListItem", "position": 1, "name": "Home", "item": b.URL()})
	for i, c := range crumbs {
		items = append(items, JSONLD{
			"@type":    "ListItem",
			"position": i + 2,
			"name":     c.Name,
			"item":     c.URL,
		})
	}
	return JSONLD{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	}
}

// ItemList - danh sách category items (link ra retailer)
func (b *Builder) ItemList(pageURL string, items []categoryModel.Item) JSONLD {
	if len(items) == 0 {
		return nil
	}
	elements := make([]JSONLD, 0, len(items))
	for i, item := range items {
		elements = append(elements, JSONLD{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     item.Title,
			"url":      item.AffiliateLink,
		})
	}
	return JSONLD{
		"@context":        schemaContext,
		"@type":           "ItemList",
		"url":             pageURL,
		"numberOfItems":   len(items),
		"itemListElement": elements,
	}
}

func setIf(ld JSONLD, key, value string) {
	if strings.TrimSpace(value) != "" {
		ld[key] = value
	}
}
