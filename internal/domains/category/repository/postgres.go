package repository

import (
	"context"
	"fmt"

	"celebstyle-backend/internal/domains/category/model"
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
	itemColumns = `id, category_name, category_slug, title, image, price, price_amount, currency, retailer, affiliate_link, description, created_at, updated_at`
	insertItem  = `INSERT INTO category_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	categoriesCacheKey = cachekey.CategoryItemPrefix + "categories"
)

var sortClauses = map[string]string{
	model.SortNewest:    "created_at DESC, id DESC",
	model.SortOldest:    "created_at ASC, id ASC",
	model.SortTitleAsc:  "lower(title) ASC, id ASC",
	model.SortTitleDesc: "lower(title) DESC, id DESC",
	model.SortPriceAsc:  "price_amount ASC NULLS LAST, id ASC",
	model.SortPriceDesc: "price_amount DESC NULLS LAST, id DESC",
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
func (r *postgresRepository) Create(ctx context.Context, item *model.Item) error {
	if _, err := r.pool.Exec(ctx, insertItem, itemArgs(item)...); err != nil {
		return r.mapReadError("Create", err)
	}

	r.invalidateCache(ctx)
	return nil
}

func (r *postgresRepository) CreateBatch(ctx context.Context, items []*model.Item) error {
	err := pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for i, item := range items {
			if _, err := tx.Exec(ctx, insertItem, itemArgs(item)...); err != nil {
				return fmt.Errorf("insert item %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return r.mapReadError("CreateBatch", err)
	}

	r.invalidateCache(ctx)
	return nil
}

// ============================================================
// READ
// ============================================================
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM category_items WHERE id = $1`

	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.mapReadError("GetByID", err)
	}
	return item, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Item, int, error) {
	var where database.Where
	if filter.CategorySlug != "" {
		where.Add("category_slug = ?", filter.CategorySlug)
	}
	if filter.Retailer != "" {
		where.Add("lower(retailer) = lower(?)", filter.Retailer)
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
		FROM category_items
		%s
		ORDER BY %s
		LIMIT %s OFFSET %s`,
		itemColumns, where.SQL(), orderBy, where.Next(filter.Limit), where.Next(filter.Offset))

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, 0, r.mapReadError("List", err)
	}
	defer rows.Close()

	items := make([]model.Item, 0, filter.Limit)
	total := 0
	for rows.Next() {
		item, err := scanItem(rows, &total)
		if err != nil {
			return nil, 0, r.mapReadError("List", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.mapReadError("List", err)
	}

	return items, total, nil
}

func (r *postgresRepository) Categories(ctx context.Context) ([]model.Category, error) {
	var cached []model.Category
	if found, err := r.cache.Get(ctx, categoriesCacheKey, &cached); err == nil && found {
		return cached, nil
	}

	// Tên và ảnh đại diện lấy từ item mới nhất của category
	rows, err := r.pool.Query(ctx, `
		SELECT category_slug,
		       (array_agg(category_name ORDER BY created_at DESC))[1],
		       COUNT(*),
		       COALESCE((array_agg(image ORDER BY created_at DESC) FILTER (WHERE image <> ''))[1], '')
		FROM category_items
		GROUP BY category_slug
		ORDER BY lower((array_agg(category_name ORDER BY created_at DESC))[1]) ASC`)
	if err != nil {
		return nil, r.mapReadError("Categories", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.Slug, &c.Name, &c.Count, &c.Image); err != nil {
			return nil, r.mapReadError("Categories", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapReadError("Categories", err)
	}

	if err := r.cache.Set(ctx, categoriesCacheKey, categories, cachekey.DefaultTTL); err != nil {
		logger.Error("Categories: cache set failed", err)
	}
	return categories, nil
}

// ============================================================
// UPDATE / DELETE
// ============================================================
func (r *postgresRepository) Update(ctx context.Context, item *model.Item) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE category_items SET
			category_name = $2, category_slug = $3, title = $4, image = $5, price = $6,
			price_amount = $7, currency = $8, retailer = $9, affiliate_link = $10,
			description = $11, updated_at = $12
		WHERE id = $1`,
		item.ID, item.CategoryName, item.CategorySlug, item.Title, item.Image, item.Price,
		item.PriceAmount, item.Currency, item.Retailer, item.AffiliateLink,
		item.Description, item.UpdatedAt,
	)
	if err != nil {
		return r.mapReadError("Update", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrItemNotFound
	}

	r.invalidateCache(ctx)
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM category_items WHERE id = $1`, id)
	if err != nil {
		return r.mapReadError("Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrItemNotFound
	}

	r.invalidateCache(ctx)
	return nil
}

// ============================================================
// HELPERS
// ============================================================
func itemArgs(item *model.Item) []interface{} {
	return []interface{}{
		item.ID, item.CategoryName, item.CategorySlug, item.Title, item.Image, item.Price,
		item.PriceAmount, item.Currency, item.Retailer, item.AffiliateLink, item.Description,
		item.CreatedAt, item.UpdatedAt,
	}
}

func scanItem(row pgx.Row, extra ...interface{}) (*model.Item, error) {
	item := &model.Item{}
	dest := []interface{}{
		&item.ID, &item.CategoryName, &item.CategorySlug, &item.Title, &item.Image, &item.Price,
		&item.PriceAmount, &item.Currency, &item.Retailer, &item.AffiliateLink, &item.Description,
		&item.CreatedAt, &item.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *postgresRepository) mapReadError(op string, err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	if database.IsNoRows(err) {
		return model.ErrItemNotFound
	}
	if database.IsTimeout(err) {
		return apperror.ErrTransient.Wrap(err)
	}
	logger.Error(op+": database error", err)
	return fmt.Errorf("category item %s: %w", op, err)
}

func (r *postgresRepository) invalidateCache(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, cachekey.All(cachekey.CategoryItemPrefix)); err != nil {
		logger.Error("invalidate category cache", err)
	}
	_ = r.cache.DeletePattern(ctx, cachekey.All(cachekey.HomePrefix))
}
