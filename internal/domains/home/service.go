// Package home build landing page: bốn section được fetch song song, mỗi section
// có timeout và retry riêng, section lỗi trả về data cũ của state container.
package home

import (
	"context"
	"errors"
	"time"

	blogModel "celebstyle-backend/internal/domains/blog/model"
	categoryModel "celebstyle-backend/internal/domains/category/model"
	celebrityModel "celebstyle-backend/internal/domains/celebrity/model"
	outfitModel "celebstyle-backend/internal/domains/outfit/model"
	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/state"
	"celebstyle-backend/pkg/retry"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrLandingUnavailable - mọi section đều lỗi và chưa từng có data
var ErrLandingUnavailable = apperror.ErrTransient.WithMessage("Landing page is temporarily unavailable")

// SectionUnavailable là error inline của section fetch lỗi
const SectionUnavailable = "section temporarily unavailable"

// ============================================================
// SOURCES (domain services)
// ============================================================

type CelebritySource interface {
	List(ctx context.Context, filter celebrityModel.ListFilter) ([]celebrityModel.Celebrity, int, error)
}

type OutfitSource interface {
	List(ctx context.Context, filter outfitModel.ListFilter) ([]outfitModel.Outfit, int, error)
}

type PostSource interface {
	List(ctx context.Context, filter blogModel.ListFilter) ([]blogModel.Summary, int, error)
}

type ItemSource interface {
	List(ctx context.Context, filter categoryModel.ListFilter) ([]categoryModel.Item, int, error)
}

type Sources struct {
	Celebrities CelebritySource
	Outfits     OutfitSource
	Posts       PostSource
	Items       ItemSource
}

// Containers - read model của landing page, cũng được domain services Remove sau khi delete
type Containers struct {
	Celebrities *state.Container[celebrityModel.Celebrity]
	Outfits     *state.Container[outfitModel.Outfit]
	Posts       *state.Container[blogModel.Summary]
	Items       *state.Container[categoryModel.Item]
}

// NewContainers tạo bốn container rỗng, key theo ID
func NewContainers() Containers {
	return Containers{
		Celebrities: state.New(func(c celebrityModel.Celebrity) uuid.UUID { return c.ID }),
		Outfits:     state.New(func(o outfitModel.Outfit) uuid.UUID { return o.ID }),
		Posts:       state.New(func(p blogModel.Summary) uuid.UUID { return p.ID }),
		Items:       state.New(func(i categoryModel.Item) uuid.UUID { return i.ID }),
	}
}

// ============================================================
// PAGE
// ============================================================

// Section - Error khác rỗng nghĩa là lần fetch này lỗi, Items là data cũ (có thể rỗng)
type Section[T any] struct {
	Items       []T       `json:"items"`
	Error       string    `json:"error,omitempty"`
	LastFetched time.Time `json:"last_fetched,omitempty"`
}

type Page struct {
	Celebrities Section[celebrityModel.Celebrity] `json:"celebrities"`
	Outfits     Section[outfitModel.Outfit]       `json:"outfits"`
	Posts       Section[blogModel.Summary]        `json:"posts"`
	Items       Section[categoryModel.Item]       `json:"category_items"`
}

type Options struct {
	SectionTimeout time.Duration
	Retry          retry.Policy

	CelebrityLimit int
	OutfitLimit    int
	PostLimit      int
	ItemLimit      int
}

func DefaultOptions() Options {
	return Options{
		SectionTimeout: 3 * time.Second,
		Retry:          retry.DefaultReadPolicy,
		CelebrityLimit: 8,
		OutfitLimit:    12,
		PostLimit:      6,
		ItemLimit:      8,
	}
}

type Service struct {
	sources    Sources
	containers Containers
	opts       Options
}

func NewService(sources Sources, containers Containers, opts Options) *Service {
	return &Service{sources: sources, containers: containers, opts: opts}
}

// Landing fan-out bốn fetch, fan-in vào Page. Chỉ trả lỗi khi mọi section lỗi và không có data.
func (s *Service) Landing(ctx context.Context) (*Page, error) {
	var g errgroup.Group

	g.Go(func() error {
		s.refresh(ctx, "celebrities", func(ctx context.Context) error {
			return s.containers.Celebrities.FetchAll(ctx, func(ctx context.Context) ([]celebrityModel.Celebrity, error) {
				items, _, err := s.sources.Celebrities.List(ctx, celebrityModel.ListFilter{
					Sort: celebrityModel.SortNewest, Limit: s.opts.CelebrityLimit,
				})
				return items, err
			})
		})
		return nil
	})
	g.Go(func() error {
		s.refresh(ctx, "outfits", func(ctx context.Context) error {
			return s.containers.Outfits.FetchAll(ctx, func(ctx context.Context) ([]outfitModel.Outfit, error) {
				items, _, err := s.sources.Outfits.List(ctx, outfitModel.ListFilter{
					Sort: outfitModel.SortNewest, Limit: s.opts.OutfitLimit,
				})
				return items, err
			})
		})
		return nil
	})
	g.Go(func() error {
		s.refresh(ctx, "posts", func(ctx context.Context) error {
			return s.containers.Posts.FetchAll(ctx, func(ctx context.Context) ([]blogModel.Summary, error) {
				items, _, err := s.sources.Posts.List(ctx, blogModel.ListFilter{
					Sort: blogModel.SortNewest, Limit: s.opts.PostLimit,
				})
				return items, err
			})
		})
		return nil
	})
	g.Go(func() error {
		s.refresh(ctx, "category_items", func(ctx context.Context) error {
			return s.containers.Items.FetchAll(ctx, func(ctx context.Context) ([]categoryModel.Item, error) {
				items, _, err := s.sources.Items.List(ctx, categoryModel.ListFilter{
					Sort: categoryModel.SortNewest, Limit: s.opts.ItemLimit,
				})
				return items, err
			})
		})
		return nil
	})

	// Các goroutine không bao giờ trả lỗi, lỗi nằm trong từng container
	_ = g.Wait()

	page := &Page{
		Celebrities: section(s.containers.Celebrities.Snapshot()),
		Outfits:     section(s.containers.Outfits.Snapshot()),
		Posts:       section(s.containers.Posts.Snapshot()),
		Items:       section(s.containers.Items.Snapshot()),
	}

	if page.unavailable() {
		return nil, ErrLandingUnavailable
	}
	return page, nil
}

// refresh chạy một lần FetchAll với timeout riêng và bounded retry.
// Mỗi attempt cập nhật container (loading/error), lần thành công thay toàn bộ items.
func (s *Service) refresh(ctx context.Context, name string, fetch func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.SectionTimeout)
	defer cancel()

	err := retry.Do(ctx, s.opts.Retry, func(ctx context.Context) error {
		err := fetch(ctx)
		if err != nil && !retryable(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		log.Warn().Err(err).Str("section", name).Msg("Landing section degraded")
	}
}

func retryable(err error) bool {
	switch apperror.KindOf(err) {
	case apperror.KindTransient, apperror.KindInternal:
		return !errors.Is(err, context.Canceled)
	default:
		return false
	}
}

// section không trả raw error message (có thể chứa chi tiết DB) ra public response
func section[T any](snap state.Snapshot[T]) Section[T] {
	sec := Section[T]{Items: snap.Items, LastFetched: snap.LastFetched}
	if snap.Error != "" {
		sec.Error = SectionUnavailable
	}
	return sec
}

func (p *Page) unavailable() bool {
	failed := func(errMsg string, n int) bool { return errMsg != "" && n == 0 }
	return failed(p.Celebrities.Error, len(p.Celebrities.Items)) &&
		failed(p.Outfits.Error, len(p.Outfits.Items)) &&
		failed(p.Posts.Error, len(p.Posts.Items)) &&
		failed(p.Items.Error, len(p.Items.Items))
}
