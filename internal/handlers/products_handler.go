package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// ProductsStore is the catalog persistence consumed by the handlers.
type ProductsStore interface {
	List(ctx context.Context, params repository.ProductListParams) ([]models.Product, int64, error)
	ListAll(ctx context.Context, category string) ([]models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementClicks(ctx context.Context, id uuid.UUID) error
}

type ProductsHandler struct {
	store           ProductsStore
	defaultPageSize int
	maxPageSize     int
	logger          *logrus.Entry
}

func NewProductsHandler(store ProductsStore, defaultPageSize, maxPageSize int, logger *logrus.Logger) *ProductsHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 9
	}
	if maxPageSize <= 0 {
		maxPageSize = 60
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &ProductsHandler{
		store:           store,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		logger:          logger.WithField("component", "products_handler"),
	}
}

// GetProducts returns the public paginated catalog listing.
// GET /api/v1/products?category=&sort=&limit=&offset=
func (h *ProductsHandler) GetProducts(c *gin.Context) {
	category := c.Query("category")
	if category != models.CategoryProduct && category != models.CategoryService {
		category = ""
	}

	sort := strings.ToLower(c.DefaultQuery("sort", repository.SortRecent))
	if sort != repository.SortImgFirst {
		sort = repository.SortRecent
	}

	limit := parseIntDefault(c.Query("limit"), h.defaultPageSize)
	offset := parseIntDefault(c.Query("offset"), 0)
	if limit < 1 {
		limit = 1
	}
	if limit > h.maxPageSize {
		limit = h.maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := h.store.List(c.Request.Context(), repository.ProductListParams{
		Category: category,
		Sort:     sort,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		internalError(c, "Failed to fetch products")
		return
	}

	// Lets the CDN absorb storefront traffic.
	c.Header("Cache-Control", "public, s-maxage=120, stale-while-revalidate=600")
	c.JSON(http.StatusOK, models.ProductPage{
		Items: items,
		Page: models.PageInfo{
			Limit:    limit,
			Offset:   offset,
			Returned: len(items),
			Total:    total,
			HasMore:  int64(offset+len(items)) < total,
		},
	})
}

// GetProduct returns a single catalog entry.
// GET /api/v1/products/:id
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "INVALID_ID", "Invalid id")
		return
	}

	product, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Product not found")
			return
		}
		h.logger.WithError(err).Error("Failed to fetch product")
		internalError(c, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// IncrementClicks bumps a product click counter.
// POST /api/v1/products/increment-clicks
func (h *ProductsHandler) IncrementClicks(c *gin.Context) {
	var body struct {
		ProductID string `json:"product_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ProductID == "" {
		badRequest(c, "PRODUCT_ID_REQUIRED", "Product ID is required")
		return
	}

	id, err := uuid.Parse(body.ProductID)
	if err != nil {
		badRequest(c, "INVALID_ID", "Invalid product id")
		return
	}

	if err := h.store.IncrementClicks(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Product not found")
			return
		}
		h.logger.WithError(err).Error("Failed to increment clicks")
		internalError(c, "Failed to increment clicks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListAdminProducts returns the full catalog for the back office.
// GET /api/v1/admin/products?category=
func (h *ProductsHandler) ListAdminProducts(c *gin.Context) {
	category := c.Query("category")

	products, err := h.store.ListAll(c.Request.Context(), category)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		internalError(c, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, products)
}

type productInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ImageURL    string      `json:"image_url"`
	SKU         string      `json:"sku"`
	Category    string      `json:"category"`
	Price       interface{} `json:"price"`
}

// CreateProduct creates one catalog entry from the back office.
// POST /api/v1/admin/products
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if input.Title == "" || input.Description == "" || input.ImageURL == "" || input.SKU == "" || input.Category == "" {
		badRequest(c, "MISSING_FIELDS", "Missing required fields")
		return
	}

	category := strings.ToLower(input.Category)
	if category != models.CategoryProduct && category != models.CategoryService {
		badRequest(c, "INVALID_CATEGORY", "Invalid category")
		return
	}

	price, err := parsePrice(input.Price)
	if err != nil {
		badRequest(c, "INVALID_PRICE", "Invalid price")
		return
	}

	product := &models.Product{
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    &input.ImageURL,
		SKU:         input.SKU,
		Category:    category,
		Price:       price,
	}

	if err := h.store.Create(c.Request.Context(), product); err != nil {
		h.logger.WithError(err).Error("Failed to create product")
		internalError(c, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies a partial update. When the store rejects the
// write because the metadata column is missing, the update is retried
// once without metadata and the response carries a warning instead of
// failing the request.
// PUT /api/v1/admin/products/:id
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "INVALID_ID", "Invalid id")
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "INVALID_JSON", "Invalid JSON body")
		return
	}

	fields, err := buildProductUpdate(body)
	if err != nil {
		var verr *fieldError
		if errors.As(err, &verr) {
			badRequest(c, verr.code, verr.message)
			return
		}
		internalError(c, "Failed to update product")
		return
	}

	if len(fields) == 0 {
		product, err := h.store.GetByID(c.Request.Context(), id)
		if err != nil {
			notFound(c, "Product not found")
			return
		}
		c.JSON(http.StatusOK, product)
		return
	}

	updated, err := h.store.Update(c.Request.Context(), id, fields)
	if err != nil {
		if _, hasMetadata := fields["metadata"]; hasMetadata && isMetadataColumnMissing(err) {
			delete(fields, "metadata")
			retried, retryErr := h.store.Update(c.Request.Context(), id, fields)
			if retryErr == nil {
				c.JSON(http.StatusOK, gin.H{
					"product":  retried,
					"_warning": "metadata_not_updated_column_missing",
					"_hint":    "Crie a coluna 'metadata jsonb' na tabela products",
				})
				return
			}
			err = retryErr
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Product not found")
			return
		}
		h.logger.WithError(err).Error("Failed to update product")
		internalError(c, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteProduct removes one catalog entry.
// DELETE /api/v1/admin/products/:id
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "INVALID_ID", "Invalid id")
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Product not found")
			return
		}
		h.logger.WithError(err).Error("Failed to delete product")
		internalError(c, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

type fieldError struct {
	code    string
	message string
}

func (e *fieldError) Error() string { return e.message }

// buildProductUpdate maps a partial JSON body onto column assignments,
// validating the fields the storefront relies on.
func buildProductUpdate(body map[string]interface{}) (map[string]interface{}, error) {
	fields := make(map[string]interface{})

	if v, ok := body["title"]; ok {
		fields["title"] = toString(v)
	}
	if v, ok := body["description"]; ok {
		fields["description"] = toString(v)
	}
	if v, ok := body["image_url"]; ok {
		fields["image_url"] = toString(v)
	}
	if v, ok := body["sku"]; ok {
		fields["sku"] = toString(v)
	}
	if v, ok := body["category"]; ok {
		category := strings.ToLower(toString(v))
		if category != models.CategoryProduct && category != models.CategoryService {
			return nil, &fieldError{code: "INVALID_CATEGORY", message: "Invalid category"}
		}
		fields["category"] = category
	}
	if v, ok := body["price"]; ok {
		price, err := parsePrice(v)
		if err != nil {
			return nil, &fieldError{code: "INVALID_PRICE", message: "Invalid price"}
		}
		fields["price"] = price
	}
	if v, ok := body["metadata"]; ok {
		if v == nil {
			fields["metadata"] = nil
		} else {
			obj, isObj := v.(map[string]interface{})
			if !isObj {
				return nil, &fieldError{code: "INVALID_METADATA", message: "Invalid metadata"}
			}
			fields["metadata"] = models.JSON(obj)
		}
	}

	return fields, nil
}

// parsePrice normalizes the loosely-typed price input: absent or empty
// means "no price", anything else must parse as a number.
func parsePrice(v interface{}) (*float64, error) {
	switch value := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &value, nil
	case string:
		if value == "" {
			return nil, nil
		}
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, err
		}
		return &n, nil
	default:
		return nil, errors.New("invalid price")
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func isMetadataColumnMissing(err error) bool {
	msg := err.Error()
	if !strings.Contains(msg, "metadata") {
		return false
	}
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "42703")
}

func parseIntDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: code, Message: message},
	})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: "NOT_FOUND", Message: message},
	})
}

func internalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: "INTERNAL_ERROR", Message: message},
	})
}
