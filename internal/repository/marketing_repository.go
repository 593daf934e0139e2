package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

type MarketingRepository struct {
	db *gorm.DB
}

func NewMarketingRepository(db *gorm.DB) *MarketingRepository {
	return &MarketingRepository{db: db}
}

func (r *MarketingRepository) TrackInteraction(ctx context.Context, interaction *models.ContactInteraction) error {
	if interaction.ID == uuid.Nil {
		interaction.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(interaction).Error
}

func (r *MarketingRepository) SaveEmailCapture(ctx context.Context, capture *models.EmailCapture) error {
	if capture.ID == uuid.Nil {
		capture.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(capture).Error
}

// InteractionsSince returns contact interactions recorded at or after t,
// oldest first. Used for the back-office charts.
func (r *MarketingRepository) InteractionsSince(ctx context.Context, t time.Time) ([]models.ContactInteraction, error) {
	var interactions []models.ContactInteraction
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", t).
		Order("created_at ASC").
		Find(&interactions).Error
	if err != nil {
		return nil, err
	}
	return interactions, nil
}

func (r *MarketingRepository) CountInteractions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContactInteraction{}).Count(&count).Error
	return count, err
}

func (r *MarketingRepository) CountEmailCaptures(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EmailCapture{}).Count(&count).Error
	return count, err
}
