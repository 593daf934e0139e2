package models

import (
	"time"

	"github.com/google/uuid"
)

// InteractionType classifies outbound contact clicks.
type InteractionType string

const (
	InteractionWhatsapp InteractionType = "whatsapp"
	InteractionEmail    InteractionType = "email"
)

// ContactInteraction records a click on a contact channel, optionally
// tied to the product the visitor was looking at.
type ContactInteraction struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type      InteractionType `json:"type" gorm:"not null;index"`
	ProductID *uuid.UUID      `json:"product_id" gorm:"type:uuid"`
	VisitorIP string          `json:"visitor_ip"`
	UserAgent string          `json:"user_agent"`
	CreatedAt time.Time       `json:"created_at" gorm:"index"`
}

func (ContactInteraction) TableName() string {
	return "contact_interactions"
}

// EmailCapture is a lead captured by the storefront email modal.
type EmailCapture struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string     `json:"name" gorm:"not null"`
	Email     string     `json:"email" gorm:"not null"`
	Company   *string    `json:"company"`
	ProductID *uuid.UUID `json:"product_id" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at"`
}

func (EmailCapture) TableName() string {
	return "email_captures"
}
