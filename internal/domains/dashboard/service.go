// Package dashboard - thống kê cơ bản cho back office
package dashboard

import (
	"context"
	"time"

	"celebstyle-backend/internal/shared/cachekey"
	"celebstyle-backend/pkg/cache"
	"celebstyle-backend/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	topCelebritiesLimit = 10
	cacheKey            = cachekey.HomePrefix + "dashboard"
	cacheTTL            = time.Minute
)

type Totals struct {
	Celebrities       int `json:"celebrities"`
	Outfits           int `json:"outfits"`
	Products          int `json:"products"`
	Posts             int `json:"posts"`
	CategoryItems     int `json:"category_items"`
	ActiveSubscribers int `json:"active_subscribers"`
	Subscribers       int `json:"subscribers"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type CelebrityRank struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	OutfitCount int       `json:"outfit_count"`
}

type Stats struct {
	Totals              Totals          `json:"totals"`
	OutfitsByCategory   []LabelCount    `json:"outfits_by_category"`
	TopCelebrities      []CelebrityRank `json:"top_celebrities"`
	SubscribersBySource []LabelCount    `json:"subscribers_by_source"`
	GeneratedAt         time.Time       `json:"generated_at"`
}

type Service struct {
	repo  Repository
	cache cache.Cache
	now   func() time.Time
}

func NewService(repo Repository, c cache.Cache) *Service {
	return &Service{repo: repo, cache: c, now: func() time.Time { return time.Now().UTC() }}
}

// Stats chạy bốn query song song, một query lỗi thì cả dashboard lỗi.
// Kết quả được cache ngắn hạn (content writes xóa prefix home: nên cache tự invalid).
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var cached Stats
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	stats := &Stats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		totals, err := s.repo.Totals(gctx)
		if err != nil {
			return err
		}
		stats.Totals = *totals
		return nil
	})
	g.Go(func() error {
		counts, err := s.repo.OutfitsByCategory(gctx)
		stats.OutfitsByCategory = counts
		return err
	})
	g.Go(func() error {
		ranks, err := s.repo.TopCelebrities(gctx, topCelebritiesLimit)
		stats.TopCelebrities = ranks
		return err
	})
	g.Go(func() error {
		counts, err := s.repo.SubscribersBySource(gctx)
		stats.SubscribersBySource = counts
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	stats.GeneratedAt = s.now()

	if err := s.cache.Set(ctx, cacheKey, stats, cacheTTL); err != nil {
		logger.Error("dashboard: cache set failed", err)
	}
	return stats, nil
}
