package repository

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog-service/internal/models"
)

// Cache TTL constants
const (
	ProductListCacheTTL = 2 * time.Minute
	productListCacheKey = "catalog:products:list"
)

// Sort orders accepted by the public listing.
const (
	SortRecent   = "recent"
	SortImgFirst = "img_first"
)

// ProductListParams narrows and orders the public product listing.
type ProductListParams struct {
	Category string
	Sort     string
	Limit    int
	Offset   int
}

type ProductsRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewProductsRepository(db *gorm.DB, redis *redis.Client) *ProductsRepository {
	return &ProductsRepository{db: db, redis: redis}
}

// generateListCacheKey creates a deterministic cache key for list queries
func generateListCacheKey(params ProductListParams) string {
	data, _ := json.Marshal(params)
	hash := md5.Sum(data)
	return fmt.Sprintf("%s:%s", productListCacheKey, hex.EncodeToString(hash[:]))
}

type cachedProductList struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
}

// List returns a page of products and the total count for the filter.
// Results are cached briefly in redis; writes invalidate the cache.
func (r *ProductsRepository) List(ctx context.Context, params ProductListParams) ([]models.Product, int64, error) {
	cacheKey := generateListCacheKey(params)
	if r.redis != nil {
		if raw, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached cachedProductList
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached.Items, cached.Total, nil
			}
		}
	}

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Sort == SortImgFirst {
		query = query.Order("image_url ASC NULLS LAST").Order("created_at DESC")
	} else {
		query = query.Order("created_at DESC")
	}

	var items []models.Product
	if err := query.Limit(params.Limit).Offset(params.Offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	if r.redis != nil {
		if raw, err := json.Marshal(cachedProductList{Items: items, Total: total}); err == nil {
			_ = r.redis.Set(ctx, cacheKey, raw, ProductListCacheTTL).Err()
		}
	}

	return items, total, nil
}

// ListAll returns every product, newest first, optionally filtered by
// category. Used by the back office, bypasses the cache.
func (r *ProductsRepository) ListAll(ctx context.Context, category string) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var items []models.Product
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductsRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return err
	}
	r.invalidateListCaches(ctx)
	return nil
}

// Update applies a partial column update and returns the stored record.
// fields keys are column names.
func (r *ProductsRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Product, error) {
	if len(fields) > 0 {
		fields["updated_at"] = time.Now()
		res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		r.invalidateListCaches(ctx)
	}
	return r.GetByID(ctx, id)
}

func (r *ProductsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateListCaches(ctx)
	return nil
}

// UpsertProducts writes the batch in a single reconciling statement.
// Conflicts on conflictKey overwrite the existing record; within a batch
// the store's last-write-wins semantics govern duplicate keys. Columns
// named in omitColumns are excluded from the write entirely.
func (r *ProductsRepository) UpsertProducts(ctx context.Context, conflictKey string, products []*models.Product, omitColumns ...string) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	now := time.Now()
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.CreatedAt = now
		p.UpdatedAt = now
	}

	updateColumns := []string{"title", "category", "price", "description", "image_url", "metadata", "updated_at"}
	if len(omitColumns) > 0 {
		updateColumns = excludeColumns(updateColumns, omitColumns)
	}

	query := r.db.WithContext(ctx)
	if len(omitColumns) > 0 {
		query = query.Omit(omitColumns...)
	}

	res := query.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: conflictKey}},
		DoUpdates: clause.AssignmentColumns(updateColumns),
	}).Create(&products)
	if res.Error != nil {
		return 0, res.Error
	}

	r.invalidateListCaches(ctx)
	return int(res.RowsAffected), nil
}

func excludeColumns(columns, omit []string) []string {
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		skip := false
		for _, o := range omit {
			if col == o {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, col)
		}
	}
	return out
}

// IncrementClicks bumps the click counter for a product.
func (r *ProductsRepository) IncrementClicks(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProductsRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// CountByCategory returns product counts keyed by category.
func (r *ProductsRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	type bucket struct {
		Category string
		Count    int64
	}
	var buckets []bucket
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select("category, count(*) as count").
		Group("category").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		counts[b.Category] = b.Count
	}
	return counts, nil
}

// TotalClicks sums the click counters across the catalog.
func (r *ProductsRepository) TotalClicks(ctx context.Context) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select("COALESCE(SUM(clicks), 0)").
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

func (r *ProductsRepository) invalidateListCaches(ctx context.Context) {
	if r.redis == nil {
		return
	}
	keys, err := r.redis.Keys(ctx, productListCacheKey+":*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	_ = r.redis.Del(ctx, keys...).Err()
}
