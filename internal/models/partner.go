package models

import (
	"time"

	"github.com/google/uuid"
)

// Partner is an entry of the partner directory shown on the storefront.
type Partner struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	LogoURL     string    `json:"logo_url" gorm:"not null"`
	WebsiteURL  *string   `json:"website_url"`
	Whatsapp    *string   `json:"whatsapp"`
	Category    string    `json:"category" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Partner) TableName() string {
	return "partners"
}

// PartnerInput is the create/update payload for partners.
type PartnerInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	LogoURL     string  `json:"logo_url"`
	WebsiteURL  *string `json:"website_url"`
	Whatsapp    *string `json:"whatsapp"`
	Category    string  `json:"category"`
}
