package repository

import (
	"context"
	"fmt"
	"time"

	"celebstyle-backend/internal/domains/newsletter/model"
	"celebstyle-backend/internal/infrastructure/database"
	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const subscriberColumns = `id, email, source, subscribed, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// Upsert: re-subscribe giữ nguyên source ban đầu (attribution) và created_at.
// xmax = 0 chỉ đúng với row vừa INSERT.
func (r *postgresRepository) Upsert(ctx context.Context, sub *model.Subscriber) (bool, error) {
	query := `
		INSERT INTO newsletter_subscribers (id, email, source, subscribed, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, $4, $4)
		ON CONFLICT (email) DO UPDATE SET
			subscribed = TRUE,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + subscriberColumns + `, (xmax = 0) AS inserted`

	var created bool
	err := r.pool.QueryRow(ctx, query, sub.ID, sub.Email, sub.Source, sub.UpdatedAt).Scan(
		&sub.ID, &sub.Email, &sub.Source, &sub.Subscribed, &sub.CreatedAt, &sub.UpdatedAt, &created,
	)
	if err != nil {
		return false, r.mapError("Upsert", err)
	}
	return created, nil
}

func (r *postgresRepository) Unsubscribe(ctx context.Context, email string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE newsletter_subscribers
		SET subscribed = FALSE, updated_at = $2
		WHERE email = $1`,
		email, time.Now().UTC(),
	)
	if err != nil {
		return false, r.mapError("Unsubscribe", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Subscriber, int, error) {
	var where database.Where
	if filter.Subscribed != nil {
		where.Add("subscribed = ?", *filter.Subscribed)
	}
	if filter.Source != "" {
		where.Add("source = ?", filter.Source)
	}
	if filter.Search != "" {
		where.Add("email ILIKE ?", database.LikePattern(filter.Search))
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM newsletter_subscribers
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT %s OFFSET %s`,
		subscriberColumns, where.SQL(), where.Next(filter.Limit), where.Next(filter.Offset))

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, 0, r.mapError("List", err)
	}
	defer rows.Close()

	subs := make([]model.Subscriber, 0, filter.Limit)
	total := 0
	for rows.Next() {
		sub, err := scanSubscriber(rows, &total)
		if err != nil {
			return nil, 0, r.mapError("List", err)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.mapError("List", err)
	}

	return subs, total, nil
}

func scanSubscriber(row pgx.Row, extra ...interface{}) (*model.Subscriber, error) {
	sub := &model.Subscriber{}
	dest := []interface{}{&sub.ID, &sub.Email, &sub.Source, &sub.Subscribed, &sub.CreatedAt, &sub.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *postgresRepository) mapError(op string, err error) error {
	if database.IsNoRows(err) {
		return model.ErrSubscriberNotFound
	}
	if database.IsTimeout(err) {
		return apperror.ErrTransient.Wrap(err)
	}
	logger.Error(op+": database error", err)
	return fmt.Errorf("newsletter %s: %w", op, err)
}
