package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

type ProfilesRepository struct {
	db *gorm.DB
}

func NewProfilesRepository(db *gorm.DB) *ProfilesRepository {
	return &ProfilesRepository{db: db}
}

func (r *ProfilesRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfilesRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetRole returns the stored role for an identity. A missing profile is
// an error so the access guard fails closed.
func (r *ProfilesRepository) GetRole(ctx context.Context, id uuid.UUID) (string, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Select("role").First(&profile, "id = ?", id).Error
	if err != nil {
		return "", err
	}
	return profile.Role, nil
}
