package dashboard

import (
	"context"
	"fmt"

	"celebstyle-backend/internal/infrastructure/database"
	"celebstyle-backend/internal/shared/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Totals(ctx context.Context) (*Totals, error)
	OutfitsByCategory(ctx context.Context) ([]LabelCount, error)
	TopCelebrities(ctx context.Context, limit int) ([]CelebrityRank, error)
	SubscribersBySource(ctx context.Context) ([]LabelCount, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Totals(ctx context.Context) (*Totals, error) {
	t := &Totals{}
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM celebrities),
			(SELECT COUNT(*) FROM outfits),
			(SELECT COUNT(*) FROM affiliate_products),
			(SELECT COUNT(*) FROM blog_posts),
			(SELECT COUNT(*) FROM category_items),
			(SELECT COUNT(*) FROM newsletter_subscribers WHERE subscribed),
			(SELECT COUNT(*) FROM newsletter_subscribers)`,
	).Scan(&t.Celebrities, &t.Outfits, &t.Products, &t.Posts, &t.CategoryItems, &t.ActiveSubscribers, &t.Subscribers)
	if err != nil {
		return nil, mapError("Totals", err)
	}
	return t, nil
}

// OutfitsByCategory đếm outfit theo category của celebrity
func (r *postgresRepository) OutfitsByCategory(ctx context.Context) ([]LabelCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.category, COUNT(o.id)
		FROM celebrities c
		LEFT JOIN outfits o ON o.celebrity_id = c.id
		GROUP BY c.category
		ORDER BY COUNT(o.id) DESC, c.category ASC`)
	if err != nil {
		return nil, mapError("OutfitsByCategory", err)
	}
	return collectLabelCounts("OutfitsByCategory", rows)
}

func (r *postgresRepository) TopCelebrities(ctx context.Context, limit int) ([]CelebrityRank, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, slug, outfit_count
		FROM celebrities
		ORDER BY outfit_count DESC, name ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, mapError("TopCelebrities", err)
	}
	defer rows.Close()

	ranks := make([]CelebrityRank, 0, limit)
	for rows.Next() {
		var rank CelebrityRank
		if err := rows.Scan(&rank.ID, &rank.Name, &rank.Slug, &rank.OutfitCount); err != nil {
			return nil, mapError("TopCelebrities", err)
		}
		ranks = append(ranks, rank)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("TopCelebrities", err)
	}
	return ranks, nil
}

func (r *postgresRepository) SubscribersBySource(ctx context.Context) ([]LabelCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT source, COUNT(*)
		FROM newsletter_subscribers
		WHERE subscribed
		GROUP BY source
		ORDER BY COUNT(*) DESC, source ASC`)
	if err != nil {
		return nil, mapError("SubscribersBySource", err)
	}
	return collectLabelCounts("SubscribersBySource", rows)
}

func collectLabelCounts(op string, rows pgx.Rows) ([]LabelCount, error) {
	defer rows.Close()

	counts := make([]LabelCount, 0)
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, mapError(op, err)
		}
		counts = append(counts, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return counts, nil
}

func mapError(op string, err error) error {
	if database.IsTimeout(err) {
		return apperror.ErrTransient.Wrap(err)
	}
	return fmt.Errorf("dashboard %s: %w", op, err)
}
