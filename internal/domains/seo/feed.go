package seo

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	blogModel "celebstyle-backend/internal/domains/blog/model"
)

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

	// giới hạn của sitemap protocol cho một file
	MaxSitemapURLs = 50000
)

// ========================================
// SITEMAP
// ========================================

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// SitemapEntry - một URL trong sitemap
type SitemapEntry struct {
	Loc        string
	LastMod    time.Time
	ChangeFreq string
	Priority   float64
}

// BuildSitemap encode entries thành sitemap.xml (kèm XML header)
func BuildSitemap(entries []SitemapEntry) ([]byte, error) {
	if len(entries) > MaxSitemapURLs {
		entries = entries[:MaxSitemapURLs]
	}
	set := sitemapURLSet{
		XMLNS: sitemapNS,
		URLs:  make([]sitemapURL, 0, len(entries)),
	}
	for _, e := range entries {
		u := sitemapURL{Loc: e.Loc, ChangeFreq: e.ChangeFreq}
		if !e.LastMod.IsZero() {
			u.LastMod = e.LastMod.UTC().Format("2006-01-02")
		}
		if e.Priority > 0 {
			u.Priority = fmt.Sprintf("%.1f", e.Priority)
		}
		set.URLs = append(set.URLs, u)
	}
	return encodeXML(set)
}

// ========================================
// RSS 2.0
// ========================================

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// BuildRSS encode danh sách bài blog thành RSS 2.0 feed
func (b *Builder) BuildRSS(description string, posts []blogModel.Summary, now time.Time) ([]byte, error) {
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		published := p.CreatedAt
		if p.Date != nil {
			published = *p.Date
		}
		link := b.URL("blog", p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Excerpt,
			Category:    p.Category,
			PubDate:     published.UTC().Format(time.RFC1123Z),
			GUID:        link,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:         b.siteName,
			Link:          b.URL(),
			Description:   description,
			Language:      "en",
			LastBuildDate: now.UTC().Format(time.RFC1123Z),
			Items:         items,
		},
	}
	return encodeXML(feed)
}

func encodeXML(v interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	return buf.Bytes(), nil
}
