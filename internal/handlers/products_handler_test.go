package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type mockProductsStore struct {
	mock.Mock
}

func (m *mockProductsStore) List(ctx context.Context, params repository.ProductListParams) ([]models.Product, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *mockProductsStore) ListAll(ctx context.Context, category string) ([]models.Product, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *mockProductsStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductsStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *mockProductsStore) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductsStore) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Product, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductsStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductsStore) IncrementClicks(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func productsRouter(store ProductsStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewProductsHandler(store, 9, 60, nil)
	router := gin.New()
	router.GET("/products", handler.GetProducts)
	router.POST("/products/increment-clicks", handler.IncrementClicks)
	router.POST("/admin/products", handler.CreateProduct)
	router.PUT("/admin/products/:id", handler.UpdateProduct)
	return router
}

func listPage(t *testing.T, w *httptest.ResponseRecorder) models.ProductPage {
	t.Helper()
	var page models.ProductPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	return page
}

func TestGetProductsDefaults(t *testing.T) {
	store := new(mockProductsStore)
	store.On("List", mock.Anything, repository.ProductListParams{
		Sort:  repository.SortRecent,
		Limit: 9,
	}).Return([]models.Product{{Title: "Etiqueta"}}, int64(12), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	productsRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, s-maxage=120, stale-while-revalidate=600", w.Header().Get("Cache-Control"))

	page := listPage(t, w)
	assert.Equal(t, 9, page.Page.Limit)
	assert.Equal(t, 0, page.Page.Offset)
	assert.Equal(t, 1, page.Page.Returned)
	assert.Equal(t, int64(12), page.Page.Total)
	assert.True(t, page.Page.HasMore)
	store.AssertExpectations(t)
}

func TestGetProductsClampsPagination(t *testing.T) {
	store := new(mockProductsStore)
	store.On("List", mock.Anything, repository.ProductListParams{
		Sort:  repository.SortRecent,
		Limit: 60,
	}).Return([]models.Product{}, int64(0), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products?limit=500&offset=-3", nil)
	productsRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	page := listPage(t, w)
	assert.Equal(t, 60, page.Page.Limit)
	assert.Equal(t, 0, page.Page.Offset)
	store.AssertExpectations(t)
}

func TestGetProductsIgnoresUnknownCategoryAndSort(t *testing.T) {
	store := new(mockProductsStore)
	store.On("List", mock.Anything, repository.ProductListParams{
		Sort:  repository.SortRecent,
		Limit: 9,
	}).Return([]models.Product{}, int64(0), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products?category=weapons&sort=magic", nil)
	productsRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestGetProductsFiltersAndSorts(t *testing.T) {
	store := new(mockProductsStore)
	store.On("List", mock.Anything, repository.ProductListParams{
		Category: models.CategoryService,
		Sort:     repository.SortImgFirst,
		Limit:    6,
		Offset:   6,
	}).Return([]models.Product{}, int64(6), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products?category=service&sort=img_first&limit=6&offset=6", nil)
	productsRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	page := listPage(t, w)
	assert.False(t, page.Page.HasMore)
	store.AssertExpectations(t)
}

func TestIncrementClicksValidation(t *testing.T) {
	store := new(mockProductsStore)
	router := productsRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/products/increment-clicks", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCT_ID_REQUIRED")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/products/increment-clicks", strings.NewReader(`{"product_id":"not-a-uuid"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ID")
}

func TestCreateProductValidation(t *testing.T) {
	store := new(mockProductsStore)
	router := productsRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/products", strings.NewReader(`{"title":"Etiqueta"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_FIELDS")

	body := `{"title":"Etiqueta","description":"d","image_url":"https://cdn.example.com/e.png","sku":"ETQ-1","category":"gadget"}`
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/admin/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CATEGORY")
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct(t *testing.T) {
	store := new(mockProductsStore)
	store.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.SKU == "ETQ-1" && p.Category == models.CategoryProduct && p.Price != nil && *p.Price == 129.90
	})).Return(nil)

	body := `{"title":"Etiqueta","description":"d","image_url":"https://cdn.example.com/e.png","sku":"ETQ-1","category":"Product","price":"129.90"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	productsRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	store.AssertExpectations(t)
}

func TestUpdateProductPartial(t *testing.T) {
	id := uuid.New()
	updated := &models.Product{ID: id, Title: "Novo título"}

	store := new(mockProductsStore)
	store.On("Update", mock.Anything, id, map[string]interface{}{"title": "Novo título"}).
		Return(updated, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/products/"+id.String(), strings.NewReader(`{"title":"Novo título"}`))
	req.Header.Set("Content-Type", "application/json")
	productsRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestBuildProductUpdate(t *testing.T) {
	fields, err := buildProductUpdate(map[string]interface{}{
		"title":    "Etiqueta",
		"category": "SERVICE",
		"price":    "49.90",
		"metadata": map[string]interface{}{"visible": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Etiqueta", fields["title"])
	assert.Equal(t, "service", fields["category"])
	require.IsType(t, (*float64)(nil), fields["price"])
	assert.Equal(t, 49.90, *fields["price"].(*float64))
	assert.Equal(t, models.JSON{"visible": true}, fields["metadata"])

	_, err = buildProductUpdate(map[string]interface{}{"price": "abc"})
	require.Error(t, err)

	_, err = buildProductUpdate(map[string]interface{}{"metadata": "not-an-object"})
	require.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	price, err := parsePrice(nil)
	require.NoError(t, err)
	assert.Nil(t, price)

	price, err = parsePrice("")
	require.NoError(t, err)
	assert.Nil(t, price)

	price, err = parsePrice(129.9)
	require.NoError(t, err)
	assert.Equal(t, 129.9, *price)

	_, err = parsePrice("R$ 10")
	assert.Error(t, err)

	_, err = parsePrice(true)
	assert.Error(t, err)
}
