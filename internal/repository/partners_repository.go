package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

type PartnersRepository struct {
	db *gorm.DB
}

func NewPartnersRepository(db *gorm.DB) *PartnersRepository {
	return &PartnersRepository{db: db}
}

func (r *PartnersRepository) List(ctx context.Context) ([]models.Partner, error) {
	var partners []models.Partner
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&partners).Error
	if err != nil {
		return nil, err
	}
	return partners, nil
}

func (r *PartnersRepository) Create(ctx context.Context, partner *models.Partner) error {
	if partner.ID == uuid.Nil {
		partner.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(partner).Error
}

func (r *PartnersRepository) Update(ctx context.Context, id uuid.UUID, input models.PartnerInput) (*models.Partner, error) {
	res := r.db.WithContext(ctx).Model(&models.Partner{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":        input.Name,
		"description": input.Description,
		"logo_url":    input.LogoURL,
		"website_url": input.WebsiteURL,
		"whatsapp":    input.Whatsapp,
		"category":    input.Category,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var partner models.Partner
	if err := r.db.WithContext(ctx).First(&partner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *PartnersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Partner{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
