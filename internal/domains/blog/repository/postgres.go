package repository

import (
	"context"
	"fmt"

	"celebstyle-backend/internal/domains/blog/model"
	"celebstyle-backend/internal/infrastructure/database"
	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/shared/cachekey"
	"celebstyle-backend/pkg/cache"
	"celebstyle-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	slugConstraint = "blog_posts_slug_key"
	postColumns    = `id, title, slug, excerpt, content, cover_image, author, category, category_slug, published_on, keywords, meta_description, structured_data, created_at, updated_at`
	summaryColumns = `id, title, slug, excerpt, cover_image, author, category, category_slug, published_on, created_at`
	topicsCacheKey = cachekey.BlogPrefix + "topics"
)

var sortClauses = map[string]string{
	model.SortNewest:    "published_on DESC NULLS LAST, created_at DESC, id DESC",
	model.SortOldest:    "published_on ASC NULLS LAST, created_at ASC, id ASC",
	model.SortTitleAsc:  "lower(title) ASC, id ASC",
	model.SortTitleDesc: "lower(title) DESC, id DESC",
}

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// ============================================================
// CREATE
// ============================================================
func (r *postgresRepository) Create(ctx context.Context, p *model.Post) error {
	query := `
		INSERT INTO blog_posts (` + postColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage, p.Author, p.Category, p.CategorySlug,
		p.Date, nonNil(p.Keywords), p.MetaDescription, jsonParam(p.StructuredData), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return r.mapWriteError("Create", err)
	}

	r.invalidateCache(ctx)
	return nil
}

// ============================================================
// READ
// ============================================================
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE id = $1`

	p, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.mapReadError("GetByID", err)
	}
	return p, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	key := cachekey.Slug(cachekey.BlogPrefix, slug)

	var cached model.Post
	if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE slug = $1`
	p, err := scanPost(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, r.mapReadError("GetBySlug", err)
	}

	if err := r.cache.Set(ctx, key, p, cachekey.DefaultTTL); err != nil {
		logger.Error("GetBySlug: cache set failed", err)
	}
	return p, nil
}

// List trả về Summary (không kèm content) để list page nhẹ
func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Summary, int, error) {
	var where database.Where
	if filter.Topic != "" {
		where.Add("category_slug = ?", filter.Topic)
	}
	if filter.Search != "" {
		where.Add("title ILIKE ?", database.LikePattern(filter.Search))
	}

	orderBy, ok := sortClauses[filter.Sort]
	if !ok {
		orderBy = sortClauses[model.SortNewest]
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM blog_posts
		%s
		ORDER BY %s
		LIMIT %s OFFSET %s`,
		summaryColumns, where.SQL(), orderBy, where.Next(filter.Limit), where.Next(filter.Offset))

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, 0, r.mapReadError("List", err)
	}
	defer rows.Close()

	posts := make([]model.Summary, 0, filter.Limit)
	total := 0
	for rows.Next() {
		var s model.Summary
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Slug, &s.Excerpt, &s.CoverImage, &s.Author,
			&s.Category, &s.CategorySlug, &s.Date, &s.CreatedAt, &total,
		); err != nil {
			return nil, 0, r.mapReadError("List", err)
		}
		posts = append(posts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.mapReadError("List", err)
	}

	return posts, total, nil
}

func (r *postgresRepository) Topics(ctx context.Context) ([]model.Topic, error) {
	var cached []model.Topic
	if found, err := r.cache.Get(ctx, topicsCacheKey, &cached); err == nil && found {
		return cached, nil
	}

	// Tên hiển thị lấy theo bài mới nhất của topic
	rows, err := r.pool.Query(ctx, `
		SELECT category_slug,
		       (array_agg(category ORDER BY created_at DESC))[1] AS name,
		       COUNT(*) AS count
		FROM blog_posts
		WHERE category_slug <> ''
		GROUP BY category_slug
		ORDER BY count DESC, category_slug ASC`)
	if err != nil {
		return nil, r.mapReadError("Topics", err)
	}
	defer rows.Close()

	topics := make([]model.Topic, 0)
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.Slug, &t.Name, &t.Count); err != nil {
			return nil, r.mapReadError("Topics", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapReadError("Topics", err)
	}

	if err := r.cache.Set(ctx, topicsCacheKey, topics, cachekey.DefaultTTL); err != nil {
		logger.Error("Topics: cache set failed", err)
	}
	return topics, nil
}

// ============================================================
// UPDATE / DELETE
// ============================================================
func (r *postgresRepository) Update(ctx context.Context, p *model.Post) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE blog_posts SET
			title = $2, slug = $3, excerpt = $4, content = $5, cover_image = $6, author = $7,
			category = $8, category_slug = $9, published_on = $10, keywords = $11,
			meta_description = $12, structured_data = $13, updated_at = $14
		WHERE id = $1`,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage, p.Author,
		p.Category, p.CategorySlug, p.Date, nonNil(p.Keywords),
		p.MetaDescription, jsonParam(p.StructuredData), p.UpdatedAt,
	)
	if err != nil {
		return r.mapWriteError("Update", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}

	r.invalidateCache(ctx)
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return r.mapWriteError("Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}

	r.invalidateCache(ctx)
	return nil
}

func (r *postgresRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM blog_posts WHERE slug = $1 AND ($2::uuid IS NULL OR id <> $2))`,
		slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, r.mapReadError("ExistsBySlug", err)
	}
	return exists, nil
}

// ============================================================
// HELPERS
// ============================================================
func scanPost(row pgx.Row) (*model.Post, error) {
	p := &model.Post{}
	var structured []byte
	if err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.CoverImage, &p.Author,
		&p.Category, &p.CategorySlug, &p.Date, &p.Keywords, &p.MetaDescription, &structured,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(structured) > 0 {
		p.StructuredData = structured
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	return p, nil
}

// jsonParam: structured_data rỗng → NULL
func jsonParam(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *postgresRepository) mapReadError(op string, err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	if database.IsNoRows(err) {
		return model.ErrPostNotFound
	}
	if database.IsTimeout(err) {
		return apperror.ErrTransient.Wrap(err)
	}
	logger.Error(op+": database error", err)
	return fmt.Errorf("blog post %s: %w", op, err)
}

func (r *postgresRepository) mapWriteError(op string, err error) error {
	if database.IsUniqueViolation(err, slugConstraint) {
		return model.ErrDuplicateSlug.Wrap(err)
	}
	return r.mapReadError(op, err)
}

func (r *postgresRepository) invalidateCache(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, cachekey.All(cachekey.BlogPrefix)); err != nil {
		logger.Error("invalidate blog cache", err)
	}
	_ = r.cache.DeletePattern(ctx, cachekey.All(cachekey.HomePrefix))
}
