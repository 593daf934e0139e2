package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JSON type for PostgreSQL JSONB
type JSON map[string]interface{}

func (j JSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// ProductCategory is a free-text classifier; the storefront only knows
// these two values.
const (
	CategoryProduct = "product"
	CategoryService = "service"
)

// Product represents a catalog entry (a product or a service offering).
// SKU is the unique business key; bulk imports reconcile on it.
type Product struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string    `json:"title" gorm:"not null"`
	SKU         string    `json:"sku" gorm:"uniqueIndex;not null"`
	Category    string    `json:"category" gorm:"not null;index"`
	Price       *float64  `json:"price"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url"`
	Metadata    *JSON     `json:"metadata,omitempty" gorm:"type:jsonb"`
	Clicks      int64     `json:"clicks" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// PageInfo describes the pagination envelope returned by list endpoints.
type PageInfo struct {
	Limit    int   `json:"limit"`
	Offset   int   `json:"offset"`
	Returned int   `json:"returned"`
	Total    int64 `json:"total"`
	HasMore  bool  `json:"hasMore"`
}

// ProductPage is the public listing response.
type ProductPage struct {
	Items []Product `json:"items"`
	Page  PageInfo  `json:"page"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}
