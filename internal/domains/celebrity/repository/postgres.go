package repository

import (
	"context"
	"fmt"
	"time"

	"celebstyle-backend/internal/domains/celebrity/model"
	"celebstyle-backend/internal/infrastructure/database"
	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/shared/cachekey"
	"celebstyle-backend/pkg/cache"
	pkgdb "celebstyle-backend/pkg/database"
	"celebstyle-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	slugConstraint   = "celebrities_slug_key"
	outfitsFKey      = "outfits_celebrity_id_fkey"
	celebrityColumns = `
		id, name, slug, image, cover_image, infobox_image, bio, category, style_type,
		birthdate, birthplace, nationality, height, measurements, education, awards,
		net_worth, social_media, signature, outfit_count, tags, created_at, updated_at`
)

// sort whitelist, luôn có id để thứ tự ổn định
var sortClauses = map[string]string{
	model.SortNewest:   "created_at DESC, id DESC",
	model.SortOldest:   "created_at ASC, id ASC",
	model.SortNameAsc:  "lower(name) ASC, id ASC",
	model.SortNameDesc: "lower(name) DESC, id DESC",
	model.SortOutfits:  "outfit_count DESC, lower(name) ASC, id ASC",
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
func (r *postgresRepository) Create(ctx context.Context, c *model.Celebrity) error {
	query := `
		INSERT INTO celebrities (` + celebrityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, 0, $20, $21, $22)`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.Slug, c.Image, c.CoverImage, c.InfoboxImage, c.Bio, c.Category, c.StyleType,
		c.Birthdate, c.Birthplace, c.Nationality, c.Height, c.Measurements, c.Education, c.Awards,
		c.NetWorth, c.SocialMedia, c.Signature, c.Tags, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return r.mapWriteError("Create", err)
	}

	r.invalidateListCache(ctx)
	return nil
}

// ============================================================
// READ
// ============================================================
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Celebrity, error) {
	query := `SELECT ` + celebrityColumns + ` FROM celebrities WHERE id = $1`

	c, err := scanCelebrity(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.mapReadError("GetByID", err)
	}
	return c, nil
}

// GetBySlug đọc qua cache (public detail page)
func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Celebrity, error) {
	key := cachekey.Slug(cachekey.CelebrityPrefix, slug)

	var cached model.Celebrity
	if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	query := `SELECT ` + celebrityColumns + ` FROM celebrities WHERE slug = $1`
	c, err := scanCelebrity(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, r.mapReadError("GetBySlug", err)
	}

	if err := r.cache.Set(ctx, key, c, cachekey.DefaultTTL); err != nil {
		logger.Error("GetBySlug: cache set failed", err)
	}
	return c, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Celebrity, int, error) {
	var where database.Where
	if filter.Category != "" {
		where.Add("lower(category) = lower(?)", filter.Category)
	}
	if filter.Tag != "" {
		where.Add("tags @> ARRAY[?]::text[]", filter.Tag)
	}
	if filter.Search != "" {
		where.Add("name ILIKE ?", database.LikePattern(filter.Search))
	}

	orderBy, ok := sortClauses[filter.Sort]
	if !ok {
		orderBy = sortClauses[model.SortNewest]
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM celebrities
		%s
		ORDER BY %s
		LIMIT %s OFFSET %s`,
		celebrityColumns, where.SQL(), orderBy, where.Next(filter.Limit), where.Next(filter.Offset))

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, 0, r.mapReadError("List", err)
	}
	defer rows.Close()

	celebrities := make([]model.Celebrity, 0, filter.Limit)
	total := 0
	for rows.Next() {
		c, err := scanCelebrity(rows, &total)
		if err != nil {
			return nil, 0, r.mapReadError("List", err)
		}
		celebrities = append(celebrities, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.mapReadError("List", err)
	}

	return celebrities, total, nil
}

// ============================================================
// UPDATE (last-writer-wins)
// ============================================================
func (r *postgresRepository) Update(ctx context.Context, c *model.Celebrity) error {
	const query = `
		UPDATE celebrities SET
			name = $2, slug = $3, image = $4, cover_image = $5, infobox_image = $6, bio = $7,
			category = $8, style_type = $9, birthdate = $10, birthplace = $11, nationality = $12,
			height = $13, measurements = $14, education = $15, awards = $16, net_worth = $17,
			social_media = $18, signature = $19, tags = $20, updated_at = $21
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.Slug, c.Image, c.CoverImage, c.InfoboxImage, c.Bio,
		c.Category, c.StyleType, c.Birthdate, c.Birthplace, c.Nationality,
		c.Height, c.Measurements, c.Education, c.Awards, c.NetWorth,
		c.SocialMedia, c.Signature, c.Tags, c.UpdatedAt,
	)
	if err != nil {
		return r.mapWriteError("Update", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCelebrityNotFound
	}

	r.invalidateCache(ctx)
	return nil
}

// ============================================================
// DELETE
// ============================================================
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM celebrities WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err, outfitsFKey) {
			return model.ErrCelebrityHasOutfits
		}
		return r.mapWriteError("Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCelebrityNotFound
	}

	r.invalidateCache(ctx)
	return nil
}

func (r *postgresRepository) DeleteCascade(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	outfitIDs, err := pkgdb.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) ([]uuid.UUID, error) {
		// Lock celebrity row để không có outfit mới được tạo trong lúc xóa
		var locked uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT id FROM celebrities WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
			return nil, err
		}

		rows, err := tx.Query(ctx, `DELETE FROM outfits WHERE celebrity_id = $1 RETURNING id`, id)
		if err != nil {
			return nil, err
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
		if err != nil {
			return nil, err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM celebrities WHERE id = $1`, id); err != nil {
			return nil, err
		}
		return ids, nil
	})
	if err != nil {
		if database.IsNoRows(err) {
			return nil, model.ErrCelebrityNotFound
		}
		return nil, r.mapWriteError("DeleteCascade", err)
	}

	r.invalidateCache(ctx)
	_ = r.cache.DeletePattern(ctx, cachekey.All(cachekey.OutfitPrefix))
	_ = r.cache.DeletePattern(ctx, cachekey.All(cachekey.AffiliatePrefix))
	return outfitIDs, nil
}

// ============================================================
// HELPERS
// ============================================================
func (r *postgresRepository) CountOutfits(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM outfits WHERE celebrity_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, r.mapReadError("CountOutfits", err)
	}
	return count, nil
}

func (r *postgresRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM celebrities WHERE slug = $1 AND ($2::uuid IS NULL OR id <> $2))`,
		slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, r.mapReadError("ExistsBySlug", err)
	}
	return exists, nil
}

func (r *postgresRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM celebrities WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, r.mapReadError("Exists", err)
	}
	return exists, nil
}

func (r *postgresRepository) ReconcileOutfitCounts(ctx context.Context) (int64, error) {
	const query = `
		UPDATE celebrities c
		SET outfit_count = sub.actual, updated_at = $1
		FROM (
			SELECT c2.id, COUNT(o.id)::int AS actual
			FROM celebrities c2
			LEFT JOIN outfits o ON o.celebrity_id = c2.id
			GROUP BY c2.id
		) sub
		WHERE c.id = sub.id AND c.outfit_count <> sub.actual`

	tag, err := r.pool.Exec(ctx, query, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("reconcile outfit counts: %w", err)
	}
	if tag.RowsAffected() > 0 {
		r.invalidateCache(ctx)
	}
	return tag.RowsAffected(), nil
}

func scanCelebrity(row pgx.Row, extra ...interface{}) (*model.Celebrity, error) {
	c := &model.Celebrity{}
	dest := []interface{}{
		&c.ID, &c.Name, &c.Slug, &c.Image, &c.CoverImage, &c.InfoboxImage, &c.Bio, &c.Category, &c.StyleType,
		&c.Birthdate, &c.Birthplace, &c.Nationality, &c.Height, &c.Measurements, &c.Education, &c.Awards,
		&c.NetWorth, &c.SocialMedia, &c.Signature, &c.OutfitCount, &c.Tags, &c.CreatedAt, &c.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresRepository) mapReadError(op string, err error) error {
	if database.IsNoRows(err) {
		return model.ErrCelebrityNotFound
	}
	if database.IsTimeout(err) {
		return apperror.ErrTransient.Wrap(err)
	}
	logger.Error(op+": database error", err)
	return fmt.Errorf("celebrity %s: %w", op, err)
}

func (r *postgresRepository) mapWriteError(op string, err error) error {
	if database.IsUniqueViolation(err, slugConstraint) {
		return model.ErrDuplicateSlug.Wrap(err)
	}
	return r.mapReadError(op, err)
}

func (r *postgresRepository) invalidateListCache(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, cachekey.List(cachekey.CelebrityPrefix)+"*"); err != nil {
		logger.Error("invalidate celebrity list cache", err)
	}
	_ = r.cache.DeletePattern(ctx, cachekey.All(cachekey.HomePrefix))
}

// invalidateCache xóa cả slug cache vì update có thể đổi slug
func (r *postgresRepository) invalidateCache(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, cachekey.All(cachekey.CelebrityPrefix)); err != nil {
		logger.Error("invalidate celebrity cache", err)
	}
	_ = r.cache.DeletePattern(ctx, cachekey.All(cachekey.HomePrefix))
}
