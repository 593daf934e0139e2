package models

import (
	"time"

	"gorm.io/datatypes"
)

// SiteSetting is a keyed JSON document of storefront configuration
// (contact links, hero copy, feature toggles).
type SiteSetting struct {
	Key       string         `json:"key" gorm:"primaryKey"`
	Value     datatypes.JSON `json:"value" gorm:"type:jsonb"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (SiteSetting) TableName() string {
	return "site_settings"
}
