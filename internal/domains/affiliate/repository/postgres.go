package repository

import (
	"context"
	"fmt"

	"celebstyle-backend/internal/domains/affiliate/model"
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
	outfitFKey     = "affiliate_products_outfit_id_fkey"
	productColumns = `id, outfit_id, image, title, price, price_amount, currency, retailer, affiliate_link, description, created_at, updated_at`
)

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

// cachedList: chỉ products của một outfit (trang chi tiết) mới được cache
type cachedList struct {
	Items []model.Product `json:"items"`
	Total int             `json:"total"`
}

func (r *postgresRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO affiliate_products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.OutfitID, p.Image, p.Title, p.Price, p.PriceAmount, p.Currency,
		p.Retailer, p.AffiliateLink, p.Description, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return r.mapWriteError("Create", err)
	}

	r.invalidateCache(ctx)
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM affiliate_products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.mapReadError("GetByID", err)
	}
	return p, nil
}

// List - products theo outfit giữ thứ tự thêm vào (created_at ASC), còn lại mới nhất trước
func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Product, int, error) {
	cacheable := filter.OutfitID != nil && filter.Retailer == "" && filter.Search == ""
	var key string
	if cacheable {
		key = cachekey.List(cachekey.AffiliatePrefix, filter.OutfitID.String(), ":", filter.Limit, ":", filter.Offset)
		var cached cachedList
		if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
			return cached.Items, cached.Total, nil
		}
	}

	var where database.Where
	orderBy := "created_at DESC, id DESC"
	if filter.OutfitID != nil {
		where.Add("outfit_id = ?", *filter.OutfitID)
		orderBy = "created_at ASC, id ASC"
	}
	if filter.Retailer != "" {
		where.Add("lower(retailer) = lower(?)", filter.Retailer)
	}
	if filter.Search != "" {
		where.Add("title ILIKE ?", database.LikePattern(filter.Search))
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM affiliate_products
		%s
		ORDER BY %s
		LIMIT %s OFFSET %s`,
		productColumns, where.SQL(), orderBy, where.Next(filter.Limit), where.Next(filter.Offset))

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, 0, r.mapReadError("List", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0, filter.Limit)
	total := 0
	for rows.Next() {
		p, err := scanProduct(rows, &total)
		if err != nil {
			return nil, 0, r.mapReadError("List", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.mapReadError("List", err)
	}

	if cacheable {
		if err := r.cache.Set(ctx, key, cachedList{Items: products, Total: total}, cachekey.DefaultTTL); err != nil {
			logger.Error("List: cache set failed", err)
		}
	}
	return products, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, p *model.Product) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE affiliate_products SET
			outfit_id = $2, image = $3, title = $4, price = $5, price_amount = $6, currency = $7,
			retailer = $8, affiliate_link = $9, description = $10, updated_at = $11
		WHERE id = $1`,
		p.ID, p.OutfitID, p.Image, p.Title, p.Price, p.PriceAmount, p.Currency,
		p.Retailer, p.AffiliateLink, p.Description, p.UpdatedAt,
	)
	if err != nil {
		return r.mapWriteError("Update", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	r.invalidateCache(ctx)
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM affiliate_products WHERE id = $1`, id)
	if err != nil {
		return r.mapWriteError("Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	r.invalidateCache(ctx)
	return nil
}

// ============================================================
// HELPERS
// ============================================================
func scanProduct(row pgx.Row, extra ...interface{}) (*model.Product, error) {
	p := &model.Product{}
	dest := []interface{}{
		&p.ID, &p.OutfitID, &p.Image, &p.Title, &p.Price, &p.PriceAmount, &p.Currency,
		&p.Retailer, &p.AffiliateLink, &p.Description, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepository) mapReadError(op string, err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	if database.IsNoRows(err) {
		return model.ErrProductNotFound
	}
	if database.IsTimeout(err) {
		return apperror.ErrTransient.Wrap(err)
	}
	logger.Error(op+": database error", err)
	return fmt.Errorf("affiliate product %s: %w", op, err)
}

func (r *postgresRepository) mapWriteError(op string, err error) error {
	if database.IsForeignKeyViolation(err, outfitFKey) {
		return model.ErrUnknownOutfit.Wrap(err)
	}
	return r.mapReadError(op, err)
}

// Outfit detail page cache nằm ở outfit:* (slug) nên chỉ xóa affiliate:* và home:*
func (r *postgresRepository) invalidateCache(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, cachekey.All(cachekey.AffiliatePrefix)); err != nil {
		logger.Error("invalidate affiliate cache", err)
	}
	_ = r.cache.DeletePattern(ctx, cachekey.All(cachekey.HomePrefix))
}
