package importer

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"catalog-service/internal/models"
)

// headerRowOffset maps a 0-based data row index to the 1-based row number
// shown to the user (row 1 is the header).
const headerRowOffset = 2

// RowError names the offending spreadsheet row and the failed fields.
type RowError struct {
	Row    int
	Issues []string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("Linha %d inválida: %s", e.Row, strings.Join(e.Issues, ", "))
}

// ValidateRow validates one decoded row against the product import
// contract and returns a storage-ready record. index is the 0-based
// position of the row in the data section of the file.
//
// Policy: a present but non-numeric price fails validation. Boolean and
// integer metadata fields are coerced with fallback instead: an
// unrecognized value is treated as absent.
func ValidateRow(row map[string]string, index int) (*models.Product, error) {
	rowErr := &RowError{Row: index + headerRowOffset}

	title := row["title"]
	sku := row["sku"]
	category := row["category"]
	if title == "" {
		rowErr.Issues = append(rowErr.Issues, "title: required")
	}
	if sku == "" {
		rowErr.Issues = append(rowErr.Issues, "sku: required")
	}
	if category == "" {
		rowErr.Issues = append(rowErr.Issues, "category: required")
	}

	var price *float64
	if raw := row["price"]; raw != "" {
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			rowErr.Issues = append(rowErr.Issues, "price: must be a number")
		} else {
			price = &n
		}
	}

	var imageURL *string
	if raw := row["image_url"]; raw != "" {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			rowErr.Issues = append(rowErr.Issues, "image_url: must be a URL")
		} else {
			imageURL = &raw
		}
	}

	if len(rowErr.Issues) > 0 {
		return nil, rowErr
	}

	product := &models.Product{
		Title:       title,
		SKU:         sku,
		Category:    category,
		Price:       price,
		Description: row["description"],
		ImageURL:    imageURL,
		Metadata:    buildMetadata(row),
	}
	return product, nil
}

// buildMetadata assembles the metadata attachment from the recognized
// sub-fields. When none are supplied the attachment is absent entirely,
// never an empty object.
func buildMetadata(row map[string]string) *models.JSON {
	metadata := models.JSON{}

	if href := row["metadata.href"]; href != "" {
		metadata["href"] = href
	}
	if bullets := splitBullets(row["metadata.bullets"]); len(bullets) > 0 {
		metadata["bullets"] = bullets
	}
	if visible, ok := parseBool(row["metadata.visible"]); ok {
		metadata["visible"] = visible
	}
	if highlight, ok := parseBool(row["metadata.highlight"]); ok {
		metadata["highlight"] = highlight
	}
	if order, ok := parseInt(row["metadata.order"]); ok {
		metadata["order"] = order
	}

	if len(metadata) == 0 {
		return nil
	}
	return &metadata
}

// splitBullets splits the delimited bullets source on |, trimming each
// segment and discarding empty ones.
func splitBullets(raw string) []string {
	if raw == "" {
		return nil
	}
	var bullets []string
	for _, part := range strings.Split(raw, "|") {
		if part = strings.TrimSpace(part); part != "" {
			bullets = append(bullets, part)
		}
	}
	return bullets
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "true", "t", "1", "yes", "y", "sim":
		return true, true
	case "false", "f", "0", "no", "n", "nao", "não":
		return false, true
	}
	return false, false
}

func parseInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	// Sheets hand numeric cells back as floats ("10.0").
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f), true
	}
	return 0, false
}
