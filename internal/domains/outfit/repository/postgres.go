package repository

import (
	"context"
	"fmt"

	"celebstyle-backend/internal/domains/outfit/model"
	"celebstyle-backend/internal/infrastructure/database"
	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/shared/cachekey"
	"celebstyle-backend/pkg/cache"
	pkgdb "celebstyle-backend/pkg/database"
	"celebstyle-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	slugConstraint = "outfits_slug_key"
	celebrityFKey  = "outfits_celebrity_id_fkey"
	insertColumns  = `id, celebrity_id, title, slug, description, full_description, image, images, occasion, date_worn, tags, price, brand, affiliate_link, sections, created_at, updated_at`
	selectColumns  = `o.id, o.celebrity_id, o.title, o.slug, o.description, o.full_description, o.image, o.images, o.occasion, o.date_worn, o.tags, o.price, o.brand, o.affiliate_link, o.sections, o.created_at, o.updated_at, c.name, c.slug`
	selectFromJoin = `FROM outfits o JOIN celebrities c ON c.id = o.celebrity_id`
	incrementCount = `UPDATE celebrities SET outfit_count = outfit_count + 1 WHERE id = $1`
	decrementCount = `UPDATE celebrities SET outfit_count = GREATEST(outfit_count - 1, 0) WHERE id = $1`
	lockOwner      = `SELECT celebrity_id FROM outfits WHERE id = $1 FOR UPDATE`
)

var sortClauses = map[string]string{
	model.SortNewest:    "o.created_at DESC, o.id DESC",
	model.SortOldest:    "o.created_at ASC, o.id ASC",
	model.SortTitleAsc:  "lower(o.title) ASC, o.id ASC",
	model.SortTitleDesc: "lower(o.title) DESC, o.id DESC",
	model.SortDateWorn:  "o.date_worn DESC NULLS LAST, o.id DESC",
}

type postgresRepository struct {
	pool  database.DBTX
	cache cache.Cache
}

func NewPostgresRepository(pool database.DBTX, cache cache.Cache) Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// ============================================================
// CREATE: insert + outfit_count++ trong một transaction
// ============================================================
func (r *postgresRepository) Create(ctx context.Context, o *model.Outfit) error {
	err := pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, incrementCount, o.CelebrityID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrUnknownCelebrity
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO outfits (`+insertColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			o.ID, o.CelebrityID, o.Title, o.Slug, o.Description, o.FullDescription, o.Image, o.Images,
			o.Occasion, o.Date, o.Tags, o.Price, o.Brand, o.AffiliateLink, o.Sections, o.CreatedAt, o.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return r.mapWriteError("Create", err)
	}

	r.invalidateCache(ctx)
	return nil
}

// ============================================================
// READ
// ============================================================
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Outfit, error) {
	query := `SELECT ` + selectColumns + ` ` + selectFromJoin + ` WHERE o.id = $1`

	o, err := scanOutfit(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.mapReadError("GetByID", err)
	}
	return o, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Outfit, error) {
	key := cachekey.Slug(cachekey.OutfitPrefix, slug)

	var cached model.Outfit
	if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	query := `SELECT ` + selectColumns + ` ` + selectFromJoin + ` WHERE o.slug = $1`
	o, err := scanOutfit(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, r.mapReadError("GetBySlug", err)
	}

	if err := r.cache.Set(ctx, key, o, cachekey.DefaultTTL); err != nil {
		logger.Error("GetBySlug: cache set failed", err)
	}
	return o, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Outfit, int, error) {
	var where database.Where
	if filter.CelebrityID != nil {
		where.Add("o.celebrity_id = ?", *filter.CelebrityID)
	}
	if filter.CelebrityCategory != "" {
		where.Add("lower(c.category) = lower(?)", filter.CelebrityCategory)
	}
	if filter.Tag != "" {
		where.Add("o.tags @> ARRAY[?]::text[]", filter.Tag)
	}
	if filter.Occasion != "" {
		where.Add("lower(o.occasion) = lower(?)", filter.Occasion)
	}
	if filter.Search != "" {
		where.Add("o.title ILIKE ?", database.LikePattern(filter.Search))
	}

	orderBy, ok := sortClauses[filter.Sort]
	if !ok {
		orderBy = sortClauses[model.SortNewest]
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		%s
		%s
		ORDER BY %s
		LIMIT %s OFFSET %s`,
		selectColumns, selectFromJoin, where.SQL(), orderBy, where.Next(filter.Limit), where.Next(filter.Offset))

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, 0, r.mapReadError("List", err)
	}
	defer rows.Close()

	outfits := make([]model.Outfit, 0, filter.Limit)
	total := 0
	for rows.Next() {
		o, err := scanOutfit(rows, &total)
		if err != nil {
			return nil, 0, r.mapReadError("List", err)
		}
		outfits = append(outfits, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.mapReadError("List", err)
	}

	return outfits, total, nil
}

// ============================================================
// UPDATE: owner hiện tại được đọc + lock trong transaction,
// nên hai lần reassign đồng thời không trừ nhầm counter
// ============================================================
func (r *postgresRepository) Update(ctx context.Context, o *model.Outfit) error {
	err := pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var previousCelebrityID uuid.UUID
		if err := tx.QueryRow(ctx, lockOwner, o.ID).Scan(&previousCelebrityID); err != nil {
			return err
		}

		if previousCelebrityID != o.CelebrityID {
			tag, err := tx.Exec(ctx, incrementCount, o.CelebrityID)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return model.ErrUnknownCelebrity
			}
			if _, err := tx.Exec(ctx, decrementCount, previousCelebrityID); err != nil {
				return err
			}
		}

		tag, err := tx.Exec(ctx, `
			UPDATE outfits SET
				celebrity_id = $2, title = $3, slug = $4, description = $5, full_description = $6,
				image = $7, images = $8, occasion = $9, date_worn = $10, tags = $11, price = $12,
				brand = $13, affiliate_link = $14, sections = $15, updated_at = $16
			WHERE id = $1`,
			o.ID, o.CelebrityID, o.Title, o.Slug, o.Description, o.FullDescription,
			o.Image, o.Images, o.Occasion, o.Date, o.Tags, o.Price,
			o.Brand, o.AffiliateLink, o.Sections, o.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrOutfitNotFound
		}
		return nil
	})
	if err != nil {
		return r.mapWriteError("Update", err)
	}

	r.invalidateCache(ctx)
	return nil
}

// ============================================================
// DELETE: xóa row + outfit_count-- (affiliate products xóa theo FK cascade)
// ============================================================
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var celebrityID uuid.UUID
		err := tx.QueryRow(ctx, `DELETE FROM outfits WHERE id = $1 RETURNING celebrity_id`, id).Scan(&celebrityID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, decrementCount, celebrityID)
		return err
	})
	if err != nil {
		return r.mapWriteError("Delete", err)
	}

	r.invalidateCache(ctx)
	_ = r.cache.DeletePattern(ctx, cachekey.All(cachekey.AffiliatePrefix))
	return nil
}

func (r *postgresRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM outfits WHERE slug = $1 AND ($2::uuid IS NULL OR id <> $2))`,
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
func scanOutfit(row pgx.Row, extra ...interface{}) (*model.Outfit, error) {
	o := &model.Outfit{}
	dest := []interface{}{
		&o.ID, &o.CelebrityID, &o.Title, &o.Slug, &o.Description, &o.FullDescription, &o.Image, &o.Images,
		&o.Occasion, &o.Date, &o.Tags, &o.Price, &o.Brand, &o.AffiliateLink, &o.Sections, &o.CreatedAt, &o.UpdatedAt,
		&o.CelebrityName, &o.CelebritySlug,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if o.Images == nil {
		o.Images = []string{}
	}
	if o.Sections == nil {
		o.Sections = []model.Section{}
	}
	return o, nil
}

func (r *postgresRepository) mapReadError(op string, err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	if database.IsNoRows(err) {
		return model.ErrOutfitNotFound
	}
	if database.IsTimeout(err) {
		return apperror.ErrTransient.Wrap(err)
	}
	logger.Error(op+": database error", err)
	return fmt.Errorf("outfit %s: %w", op, err)
}

func (r *postgresRepository) mapWriteError(op string, err error) error {
	switch {
	case database.IsUniqueViolation(err, slugConstraint):
		return model.ErrDuplicateSlug.Wrap(err)
	case database.IsForeignKeyViolation(err, celebrityFKey):
		return model.ErrUnknownCelebrity.Wrap(err)
	}
	return r.mapReadError(op, err)
}

// invalidateCache: outfit đổi → outfit_count của celebrity và landing page cũng đổi
func (r *postgresRepository) invalidateCache(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, cachekey.All(cachekey.OutfitPrefix)); err != nil {
		logger.Error("invalidate outfit cache", err)
	}
	_ = r.cache.DeletePattern(ctx, cachekey.All(cachekey.CelebrityPrefix))
	_ = r.cache.DeletePattern(ctx, cachekey.All(cachekey.HomePrefix))
}
