package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
)

// ProductStats exposes the catalog aggregates for the back office.
type ProductStats interface {
	Count(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
	TotalClicks(ctx context.Context) (int64, error)
}

// ReviewStats exposes the review aggregates for the back office.
type ReviewStats interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.ReviewStatus) (int64, error)
	CountsByRating(ctx context.Context) (map[int]int64, error)
}

// MarketingStats exposes lead and interaction aggregates.
type MarketingStats interface {
	CountInteractions(ctx context.Context) (int64, error)
	CountEmailCaptures(ctx context.Context) (int64, error)
	InteractionsSince(ctx context.Context, t time.Time) ([]models.ContactInteraction, error)
}

// SettingsStore persists the storefront configuration documents.
type SettingsStore interface {
	GetAll(ctx context.Context) ([]models.SiteSetting, error)
	Upsert(ctx context.Context, key string, value datatypes.JSON) error
}

type AdminHandler struct {
	products  ProductStats
	reviews   ReviewStats
	marketing MarketingStats
	settings  SettingsStore
	profiles  ProfileStore
	logger    *logrus.Entry
}

func NewAdminHandler(products ProductStats, reviews ReviewStats, marketing MarketingStats, settings SettingsStore, profiles ProfileStore, logger *logrus.Logger) *AdminHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &AdminHandler{
		products:  products,
		reviews:   reviews,
		marketing: marketing,
		settings:  settings,
		profiles:  profiles,
		logger:    logger.WithField("component", "admin_handler"),
	}
}

// GetMetrics returns the headline numbers of the admin dashboard.
// GET /api/v1/admin/metrics
func (h *AdminHandler) GetMetrics(c *gin.Context) {
	ctx := c.Request.Context()

	totalProducts, err := h.products.Count(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count products")
		internalError(c, "Failed to fetch metrics")
		return
	}
	totalClicks, err := h.products.TotalClicks(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to sum clicks")
		internalError(c, "Failed to fetch metrics")
		return
	}
	totalReviews, err := h.reviews.Count(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count reviews")
		internalError(c, "Failed to fetch metrics")
		return
	}
	pendingReviews, err := h.reviews.CountByStatus(ctx, models.ReviewStatusPending)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count pending reviews")
		internalError(c, "Failed to fetch metrics")
		return
	}
	totalInteractions, err := h.marketing.CountInteractions(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count interactions")
		internalError(c, "Failed to fetch metrics")
		return
	}
	totalCaptures, err := h.marketing.CountEmailCaptures(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count email captures")
		internalError(c, "Failed to fetch metrics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_products":     totalProducts,
		"total_clicks":       totalClicks,
		"total_reviews":      totalReviews,
		"pending_reviews":    pendingReviews,
		"total_interactions": totalInteractions,
		"email_captures":     totalCaptures,
	})
}

type interactionsDay struct {
	Date     string `json:"date"`
	Whatsapp int    `json:"whatsapp"`
	Email    int    `json:"email"`
}

// GetCharts returns the admin dashboard chart series: interactions by
// day over the last week, products by category, reviews by rating.
// GET /api/v1/admin/charts
func (h *AdminHandler) GetCharts(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now()

	weekAgo := now.AddDate(0, 0, -6).Truncate(24 * time.Hour)
	interactions, err := h.marketing.InteractionsSince(ctx, weekAgo)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch interactions")
		internalError(c, "Failed to fetch charts")
		return
	}

	days := make([]interactionsDay, 7)
	for i := range days {
		day := now.AddDate(0, 0, i-6)
		days[i].Date = day.Format("02/01")
		for _, interaction := range interactions {
			if interaction.CreatedAt.Format("2006-01-02") != day.Format("2006-01-02") {
				continue
			}
			switch interaction.Type {
			case models.InteractionWhatsapp:
				days[i].Whatsapp++
			case models.InteractionEmail:
				days[i].Email++
			}
		}
	}

	byCategory, err := h.products.CountByCategory(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count products by category")
		internalError(c, "Failed to fetch charts")
		return
	}
	productsByCategory := []gin.H{
		{"category": "Produtos", "count": byCategory[models.CategoryProduct]},
		{"category": "Serviços", "count": byCategory[models.CategoryService]},
	}

	byRating, err := h.reviews.CountsByRating(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count reviews by rating")
		internalError(c, "Failed to fetch charts")
		return
	}
	reviewsRating := make([]gin.H, 0, 5)
	for rating := 1; rating <= 5; rating++ {
		reviewsRating = append(reviewsRating, gin.H{"rating": rating, "count": byRating[rating]})
	}

	c.JSON(http.StatusOK, gin.H{
		"interactionsByDay":  days,
		"productsByCategory": productsByCategory,
		"reviewsRating":      reviewsRating,
	})
}

// GetUsers returns the signed-in administrator's account info.
// GET /api/v1/admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		internalError(c, "Failed to fetch users")
		return
	}

	profile, err := h.profiles.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch admin profile")
		internalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, []models.Profile{*profile})
}

// GetSettings returns every site setting keyed by name.
// GET /api/v1/admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.GetAll(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch settings")
		internalError(c, "Failed to fetch settings")
		return
	}

	payload := make(map[string]json.RawMessage, len(settings))
	for _, setting := range settings {
		payload[setting.Key] = json.RawMessage(setting.Value)
	}
	c.JSON(http.StatusOK, payload)
}

// PutSettings upserts the provided settings keys.
// PUT /api/v1/admin/settings  body: {"contact": {...}, "hero": {...}}
func (h *AdminHandler) PutSettings(c *gin.Context) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if len(body) == 0 {
		badRequest(c, "EMPTY_BODY", "No settings provided")
		return
	}

	for key, value := range body {
		if err := h.settings.Upsert(c.Request.Context(), key, datatypes.JSON(value)); err != nil {
			h.logger.WithError(err).WithField("key", key).Error("Failed to save setting")
			internalError(c, "Failed to save settings")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
