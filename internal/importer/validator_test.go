package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRow() map[string]string {
	return map[string]string{
		"title":    "Etiqueta Térmica 10x15",
		"sku":      "ETQ-1015",
		"category": "product",
	}
}

func TestValidateRowRequiredFields(t *testing.T) {
	product, err := ValidateRow(map[string]string{}, 0)
	require.Error(t, err)
	assert.Nil(t, product)

	rowErr, ok := err.(*RowError)
	require.True(t, ok)
	assert.Equal(t, 2, rowErr.Row)
	assert.Contains(t, rowErr.Issues, "title: required")
	assert.Contains(t, rowErr.Issues, "sku: required")
	assert.Contains(t, rowErr.Issues, "category: required")
	assert.Contains(t, err.Error(), "Linha 2 inválida")
}

func TestValidateRowReportsSpreadsheetRowNumber(t *testing.T) {
	// Data index 3 lives on spreadsheet row 5 (row 1 is the header).
	_, err := ValidateRow(map[string]string{"title": "x"}, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Linha 5 inválida")
}

func TestValidateRowPrice(t *testing.T) {
	row := validRow()
	row["price"] = "129.90"
	product, err := ValidateRow(row, 0)
	require.NoError(t, err)
	require.NotNil(t, product.Price)
	assert.Equal(t, 129.90, *product.Price)

	row["price"] = "R$ 12,90"
	_, err = ValidateRow(row, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price: must be a number")

	row["price"] = ""
	product, err = ValidateRow(row, 0)
	require.NoError(t, err)
	assert.Nil(t, product.Price)
}

func TestValidateRowImageURL(t *testing.T) {
	row := validRow()
	row["image_url"] = "https://cdn.example.com/etq.png"
	product, err := ValidateRow(row, 0)
	require.NoError(t, err)
	require.NotNil(t, product.ImageURL)
	assert.Equal(t, "https://cdn.example.com/etq.png", *product.ImageURL)

	for _, bad := range []string{"not a url", "/relative/path.png", "cdn.example.com/no-scheme.png"} {
		row["image_url"] = bad
		_, err = ValidateRow(row, 0)
		require.Error(t, err, "expected %q to be rejected", bad)
		assert.Contains(t, err.Error(), "image_url: must be a URL")
	}
}

func TestValidateRowMetadataAbsentWhenEmpty(t *testing.T) {
	product, err := ValidateRow(validRow(), 0)
	require.NoError(t, err)
	assert.Nil(t, product.Metadata)
}

func TestValidateRowMetadata(t *testing.T) {
	row := validRow()
	row["metadata.href"] = "/produtos/etq-1015"
	row["metadata.bullets"] = " 100 un por rolo | | Adesivo BOPP "
	row["metadata.visible"] = "sim"
	row["metadata.highlight"] = "false"
	row["metadata.order"] = "3.0"

	product, err := ValidateRow(row, 0)
	require.NoError(t, err)
	require.NotNil(t, product.Metadata)

	meta := *product.Metadata
	assert.Equal(t, "/produtos/etq-1015", meta["href"])
	assert.Equal(t, []string{"100 un por rolo", "Adesivo BOPP"}, meta["bullets"])
	assert.Equal(t, true, meta["visible"])
	assert.Equal(t, false, meta["highlight"])
	assert.Equal(t, 3, meta["order"])
}

func TestValidateRowMetadataIgnoresUnparseableFlags(t *testing.T) {
	row := validRow()
	row["metadata.visible"] = "talvez"
	row["metadata.order"] = "abc"

	product, err := ValidateRow(row, 0)
	require.NoError(t, err)
	assert.Nil(t, product.Metadata)
}

func TestSplitBullets(t *testing.T) {
	assert.Nil(t, splitBullets(""))
	assert.Nil(t, splitBullets(" | | "))
	assert.Equal(t, []string{"a", "b"}, splitBullets(" a | | b "))
	assert.Equal(t, []string{"único"}, splitBullets("único"))
}
