package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus represents the moderation status of a review
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// ValidReviewStatus reports whether s is one of the moderation states.
func ValidReviewStatus(s string) bool {
	switch ReviewStatus(s) {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusRejected:
		return true
	}
	return false
}

// Review is a customer review. Submissions land as "pending" and only
// approved + public reviews are served to the storefront.
type Review struct {
	ID            uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReviewerName  string       `json:"reviewer_name" gorm:"not null"`
	ReviewerEmail string       `json:"reviewer_email" gorm:"not null"`
	Rating        int          `json:"rating" gorm:"not null"`
	Comment       string       `json:"comment" gorm:"not null"`
	Status        ReviewStatus `json:"status" gorm:"not null;default:'pending';index"`
	IsPublic      bool         `json:"is_public" gorm:"default:true"`
	ProductID     *uuid.UUID   `json:"product_id" gorm:"type:uuid"`
	AuthorID      *uuid.UUID   `json:"author_id" gorm:"type:uuid"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewProduct is the product summary attached to moderation listings.
type ReviewProduct struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	SKU      string    `json:"sku"`
	ImageURL *string   `json:"image_url"`
}

// ModerationReview is a review joined with its product for the back office.
type ModerationReview struct {
	Review
	Product *ReviewProduct `json:"product"`
}
