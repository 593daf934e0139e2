package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

type mockUpserter struct {
	mock.Mock
}

func (m *mockUpserter) UpsertProducts(ctx context.Context, conflictKey string, products []*models.Product, omitColumns ...string) (int, error) {
	args := m.Called(ctx, conflictKey, products, omitColumns)
	return args.Int(0), args.Error(1)
}

func importSheet(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	return buildXLSX(t, rows)
}

func TestImportHappyPath(t *testing.T) {
	data := importSheet(t, [][]interface{}{
		{"title", "sku", "category", "price", "image_url"},
		{"Etiqueta Térmica", "ETQ-1015", "product", 129.90, "https://cdn.example.com/etq.png"},
		{"Bobina 80x40", "BOB-8040", "product", 49.90, ""},
		{"Instalação", "SRV-INST", "service", "", ""},
	})

	store := new(mockUpserter)
	store.On("UpsertProducts", mock.Anything, "sku", mock.MatchedBy(func(products []*models.Product) bool {
		return len(products) == 3 && products[0].SKU == "ETQ-1015" && products[2].Price == nil
	}), []string(nil)).Return(3, nil)

	imp := New(store, nil)
	result, err := imp.Import(context.Background(), data, "produtos.xlsx")
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, "Importação concluída (3 itens).", result.Message)
	assert.Empty(t, result.Warning)
	store.AssertExpectations(t)
}

func TestImportRejectsWholeBatchOnFirstInvalidRow(t *testing.T) {
	data := importSheet(t, [][]interface{}{
		{"title", "sku", "category", "image_url"},
		{"Etiqueta Térmica", "ETQ-1015", "product", "https://cdn.example.com/etq.png"},
		{"Bobina 80x40", "BOB-8040", "product", "caminho/relativo.png"},
		{"Instalação", "SRV-INST", "service", ""},
	})

	store := new(mockUpserter)

	imp := New(store, nil)
	result, err := imp.Import(context.Background(), data, "produtos.xlsx")
	require.Error(t, err)
	assert.Nil(t, result)

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Row)
	assert.Contains(t, err.Error(), "image_url")

	// Nothing may be written when any row is invalid.
	store.AssertNotCalled(t, "UpsertProducts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImportEmptyWorkbook(t *testing.T) {
	data := importSheet(t, [][]interface{}{
		{"title", "sku", "category"},
	})

	store := new(mockUpserter)
	imp := New(store, nil)
	_, err := imp.Import(context.Background(), data, "produtos.xlsx")
	assert.ErrorIs(t, err, ErrEmptyWorkbook)
	store.AssertNotCalled(t, "UpsertProducts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImportRetriesWithoutMetadataWhenColumnMissing(t *testing.T) {
	data := importSheet(t, [][]interface{}{
		{"title", "sku", "category", "metadata.href"},
		{"Etiqueta Térmica", "ETQ-1015", "product", "/produtos/etq-1015"},
	})

	columnErr := errors.New(`ERROR: column "metadata" of relation "products" does not exist (SQLSTATE 42703)`)

	store := new(mockUpserter)
	store.On("UpsertProducts", mock.Anything, "sku", mock.Anything, []string(nil)).Return(0, columnErr).Once()
	store.On("UpsertProducts", mock.Anything, "sku", mock.Anything, []string{"metadata"}).Return(1, nil).Once()

	imp := New(store, nil)
	result, err := imp.Import(context.Background(), data, "produtos.xlsx")
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, WarningMetadataColumnMissing, result.Warning)
	assert.NotEmpty(t, result.Hint)
	store.AssertExpectations(t)
}

func TestImportSurfacesOtherStorageErrors(t *testing.T) {
	data := importSheet(t, [][]interface{}{
		{"title", "sku", "category"},
		{"Etiqueta Térmica", "ETQ-1015", "product"},
	})

	storageErr := errors.New("connection refused")

	store := new(mockUpserter)
	store.On("UpsertProducts", mock.Anything, "sku", mock.Anything, []string(nil)).Return(0, storageErr).Once()

	imp := New(store, nil)
	_, err := imp.Import(context.Background(), data, "produtos.xlsx")
	require.ErrorIs(t, err, storageErr)
	store.AssertExpectations(t)
}

func TestIsMetadataColumnMissing(t *testing.T) {
	assert.True(t, isMetadataColumnMissing(errors.New(`column "metadata" does not exist`)))
	assert.True(t, isMetadataColumnMissing(errors.New("metadata write rejected (SQLSTATE 42703)")))
	assert.False(t, isMetadataColumnMissing(errors.New(`column "clicks" does not exist`)))
	assert.False(t, isMetadataColumnMissing(errors.New("metadata value malformed")))
}
