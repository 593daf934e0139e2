package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

type ReviewsRepository struct {
	db *gorm.DB
}

func NewReviewsRepository(db *gorm.DB) *ReviewsRepository {
	return &ReviewsRepository{db: db}
}

// ListPublic returns the newest approved, public reviews for the
// storefront carousel.
func (r *ReviewsRepository) ListPublic(ctx context.Context, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("status = ? AND is_public = ?", models.ReviewStatusApproved, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// List returns reviews for moderation, optionally filtered by status.
func (r *ReviewsRepository) List(ctx context.Context, status string) ([]models.Review, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewsRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *ReviewsRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReviewStatus) (*models.Review, error) {
	res := r.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewsRepository) UpdateVisibility(ctx context.Context, id uuid.UUID, isPublic bool) (*models.Review, error) {
	res := r.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).Update("is_public", isPublic)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewsRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).Count(&count).Error
	return count, err
}

func (r *ReviewsRepository) CountByStatus(ctx context.Context, status models.ReviewStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CountsByRating returns review counts keyed by rating value 1..5.
func (r *ReviewsRepository) CountsByRating(ctx context.Context) (map[int]int64, error) {
	type bucket struct {
		Rating int
		Count  int64
	}
	var buckets []bucket
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("rating, count(*) as count").
		Group("rating").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[int]int64, len(buckets))
	for _, b := range buckets {
		counts[b.Rating] = b.Count
	}
	return counts, nil
}
