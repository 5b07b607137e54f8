package seo

import (
	"context"
	"fmt"
	"time"

	blogModel "celebstyle-backend/internal/domains/blog/model"
	categoryModel "celebstyle-backend/internal/domains/category/model"
	celebrityModel "celebstyle-backend/internal/domains/celebrity/model"
	outfitModel "celebstyle-backend/internal/domains/outfit/model"
	"celebstyle-backend/internal/shared/cachekey"
	"celebstyle-backend/pkg/cache"

	"github.com/rs/zerolog/log"
)

const (
	pageSize = 100
	feedSize = 50

	// content write nào cũng xóa home:* nên feed không bị stale quá lâu
	sitemapCacheKey = cachekey.HomePrefix + "sitemap"
	rssCacheKey     = cachekey.HomePrefix + "rss"
)

// Các nguồn dữ liệu (service của từng domain)
type CelebritySource interface {
	List(ctx context.Context, filter celebrityModel.ListFilter) ([]celebrityModel.Celebrity, int, error)
}

type OutfitSource interface {
	List(ctx context.Context, filter outfitModel.ListFilter) ([]outfitModel.Outfit, int, error)
}

type PostSource interface {
	List(ctx context.Context, filter blogModel.ListFilter) ([]blogModel.Summary, int, error)
	Topics(ctx context.Context) ([]blogModel.Topic, error)
}

type CategorySource interface {
	Categories(ctx context.Context) ([]categoryModel.Category, error)
}

type Sources struct {
	Celebrities CelebritySource
	Outfits     OutfitSource
	Posts       PostSource
	Categories  CategorySource
}

// FeedService build sitemap.xml và rss.xml từ toàn bộ content
type FeedService struct {
	builder *Builder
	sources Sources
	cache   cache.Cache
	now     func() time.Time
}

func NewFeedService(builder *Builder, sources Sources, c cache.Cache) *FeedService {
	return &FeedService{
		builder: builder,
		sources: sources,
		cache:   c,
		now:     time.Now,
	}
}

// Sitemap liệt kê static pages, celebrities, outfits, blog posts, blog topics và categories
func (s *FeedService) Sitemap(ctx context.Context) ([]byte, error) {
	var cached []byte
	if found, err := s.cache.Get(ctx, sitemapCacheKey, &cached); err == nil && found {
		return cached, nil
	}

	b := s.builder
	entries := []SitemapEntry{
		{Loc: b.URL(), ChangeFreq: "daily", Priority: 1.0},
		{Loc: b.URL("celebrities"), ChangeFreq: "daily", Priority: 0.8},
		{Loc: b.URL("outfits"), ChangeFreq: "daily", Priority: 0.8},
		{Loc: b.URL("blog"), ChangeFreq: "daily", Priority: 0.8},
		{Loc: b.URL("blog-topics"), ChangeFreq: "weekly", Priority: 0.5},
		{Loc: b.URL("categories"), ChangeFreq: "weekly", Priority: 0.6},
	}

	err := pageAll(ctx, func(ctx context.Context, offset int) (int, int, error) {
		items, total, err := s.sources.Celebrities.List(ctx, celebrityModel.ListFilter{Limit: pageSize, Offset: offset, Sort: celebrityModel.SortOldest})
		for _, c := range items {
			entries = append(entries, SitemapEntry{Loc: b.URL("celebrity", c.Slug), LastMod: c.UpdatedAt, ChangeFreq: "weekly", Priority: 0.7})
		}
		return len(items), total, err
	})
	if err != nil {
		return nil, fmt.Errorf("sitemap celebrities: %w", err)
	}

	err = pageAll(ctx, func(ctx context.Context, offset int) (int, int, error) {
		items, total, err := s.sources.Outfits.List(ctx, outfitModel.ListFilter{Limit: pageSize, Offset: offset, Sort: outfitModel.SortOldest})
		for _, o := range items {
			entries = append(entries, SitemapEntry{Loc: b.URL("outfit", o.Slug), LastMod: o.UpdatedAt, ChangeFreq: "monthly", Priority: 0.6})
		}
		return len(items), total, err
	})
	if err != nil {
		return nil, fmt.Errorf("sitemap outfits: %w", err)
	}

	err = pageAll(ctx, func(ctx context.Context, offset int) (int, int, error) {
		items, total, err := s.sources.Posts.List(ctx, blogModel.ListFilter{Limit: pageSize, Offset: offset, Sort: blogModel.SortOldest})
		for _, p := range items {
			entries = append(entries, SitemapEntry{Loc: b.URL("blog", p.Slug), LastMod: p.CreatedAt, ChangeFreq: "monthly", Priority: 0.6})
		}
		return len(items), total, err
	})
	if err != nil {
		return nil, fmt.Errorf("sitemap posts: %w", err)
	}

	topics, err := s.sources.Posts.Topics(ctx)
	if err != nil {
		return nil, fmt.Errorf("sitemap topics: %w", err)
	}
	for _, t := range topics {
		entries = append(entries, SitemapEntry{Loc: b.URL("blog-topic", t.Slug), ChangeFreq: "weekly", Priority: 0.4})
	}

	categories, err := s.sources.Categories.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("sitemap categories: %w", err)
	}
	for _, c := range categories {
		entries = append(entries, SitemapEntry{Loc: b.URL("category", c.Slug), ChangeFreq: "weekly", Priority: 0.5})
	}

	data, err := BuildSitemap(entries)
	if err != nil {
		return nil, err
	}
	s.store(ctx, sitemapCacheKey, data)
	return data, nil
}

// RSS - 50 bài mới nhất
func (s *FeedService) RSS(ctx context.Context) ([]byte, error) {
	var cached []byte
	if found, err := s.cache.Get(ctx, rssCacheKey, &cached); err == nil && found {
		return cached, nil
	}

	posts, _, err := s.sources.Posts.List(ctx, blogModel.ListFilter{Limit: feedSize, Sort: blogModel.SortNewest})
	if err != nil {
		return nil, fmt.Errorf("rss posts: %w", err)
	}

	data, err := s.builder.BuildRSS("Celebrity fashion news, style guides and red carpet recaps.", posts, s.now())
	if err != nil {
		return nil, err
	}
	s.store(ctx, rssCacheKey, data)
	return data, nil
}

func (s *FeedService) store(ctx context.Context, key string, data []byte) {
	if err := s.cache.Set(ctx, key, data, cachekey.DefaultTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache feed")
	}
}

// pageAll gọi fetch với offset tăng dần tới khi hết dữ liệu hoặc chạm giới hạn sitemap
func pageAll(ctx context.Context, fetch func(ctx context.Context, offset int) (n, total int, err error)) error {
	for offset := 0; offset < MaxSitemapURLs; {
		n, total, err := fetch(ctx, offset)
		if err != nil {
			return err
		}
		offset += n
		if n == 0 || offset >= total {
			return nil
		}
	}
	return nil
}
