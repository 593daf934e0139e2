package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog-service/internal/events"
	"catalog-service/internal/models"
)

// ReviewsStore is the review persistence consumed by the handlers.
type ReviewsStore interface {
	ListPublic(ctx context.Context, limit int) ([]models.Review, error)
	List(ctx context.Context, status string) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReviewStatus) (*models.Review, error)
	UpdateVisibility(ctx context.Context, id uuid.UUID, isPublic bool) (*models.Review, error)
}

type ReviewsHandler struct {
	store       ReviewsStore
	products    ProductsStore
	publisher   *events.Publisher
	publicLimit int
	logger      *logrus.Entry
}

func NewReviewsHandler(store ReviewsStore, products ProductsStore, publisher *events.Publisher, publicLimit int, logger *logrus.Logger) *ReviewsHandler {
	if publicLimit <= 0 {
		publicLimit = 6
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &ReviewsHandler{
		store:       store,
		products:    products,
		publisher:   publisher,
		publicLimit: publicLimit,
		logger:      logger.WithField("component", "reviews_handler"),
	}
}

// GetPublicReviews returns the approved, public reviews shown on the
// storefront.
// GET /api/v1/reviews
func (h *ReviewsHandler) GetPublicReviews(c *gin.Context) {
	reviews, err := h.store.ListPublic(c.Request.Context(), h.publicLimit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch reviews")
		internalError(c, "Failed to fetch reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

type submitReviewInput struct {
	ReviewerName  string      `json:"reviewer_name"`
	ReviewerEmail string      `json:"reviewer_email"`
	Rating        interface{} `json:"rating"`
	Comment       string      `json:"comment"`
	ProductID     *string     `json:"product_id"`
}

// SubmitReview accepts a visitor review; it lands as pending until
// moderated.
// POST /api/v1/reviews/submit
func (h *ReviewsHandler) SubmitReview(c *gin.Context) {
	var input submitReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "INVALID_JSON", "JSON inválido")
		return
	}

	var missing []string
	if input.ReviewerName == "" {
		missing = append(missing, "reviewer_name")
	}
	if input.ReviewerEmail == "" {
		missing = append(missing, "reviewer_email")
	}
	if input.Rating == nil {
		missing = append(missing, "rating")
	}
	if input.Comment == "" {
		missing = append(missing, "comment")
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Campos obrigatórios ausentes",
			"missing": missing,
		})
		return
	}

	rating, ok := input.Rating.(float64)
	if !ok || rating < 1 || rating > 5 {
		badRequest(c, "INVALID_RATING", "Rating deve ser um número entre 1 e 5")
		return
	}

	review := &models.Review{
		ReviewerName:  input.ReviewerName,
		ReviewerEmail: input.ReviewerEmail,
		Rating:        int(rating),
		Comment:       input.Comment,
		Status:        models.ReviewStatusPending,
		IsPublic:      true,
	}
	if input.ProductID != nil {
		if pid, err := uuid.Parse(*input.ProductID); err == nil {
			review.ProductID = &pid
		}
	}

	if err := h.store.Create(c.Request.Context(), review); err != nil {
		h.logger.WithError(err).Error("Failed to create review")
		internalError(c, "Falha ao criar review")
		return
	}

	if h.publisher != nil {
		h.publisher.PublishReviewSubmitted(c.Request.Context(), review)
	}

	c.JSON(http.StatusCreated, review)
}

// ListModeration returns reviews for the back office, joined with their
// product summaries.
// GET /api/v1/admin/reviews?filter=pending|approved|rejected
func (h *ReviewsHandler) ListModeration(c *gin.Context) {
	filter := c.Query("filter")
	if filter != "" && !models.ValidReviewStatus(filter) {
		badRequest(c, "INVALID_FILTER", "Invalid status filter")
		return
	}

	reviews, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch reviews")
		internalError(c, "Failed to fetch reviews")
		return
	}

	payload := make([]models.ModerationReview, 0, len(reviews))
	productByID := h.loadProducts(c, reviews)
	for _, review := range reviews {
		entry := models.ModerationReview{Review: review}
		if review.ProductID != nil {
			if p, ok := productByID[*review.ProductID]; ok {
				entry.Product = &models.ReviewProduct{
					ID:       p.ID,
					Title:    p.Title,
					SKU:      p.SKU,
					ImageURL: p.ImageURL,
				}
			}
		}
		payload = append(payload, entry)
	}

	c.JSON(http.StatusOK, payload)
}

func (h *ReviewsHandler) loadProducts(c *gin.Context, reviews []models.Review) map[uuid.UUID]models.Product {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, review := range reviews {
		if review.ProductID == nil {
			continue
		}
		if _, dup := seen[*review.ProductID]; dup {
			continue
		}
		seen[*review.ProductID] = struct{}{}
		ids = append(ids, *review.ProductID)
	}
	if len(ids) == 0 {
		return nil
	}

	products, err := h.products.GetByIDs(c.Request.Context(), ids)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to fetch products for reviews")
		return nil
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID
}

// UpdateStatus moderates a review.
// PATCH /api/v1/admin/reviews/:id/status  body: {"status": "approved"}
func (h *ReviewsHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "INVALID_ID", "Invalid id")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !models.ValidReviewStatus(body.Status) {
		badRequest(c, "INVALID_STATUS", "status é obrigatório")
		return
	}

	review, err := h.store.UpdateStatus(c.Request.Context(), id, models.ReviewStatus(body.Status))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Review not found")
			return
		}
		h.logger.WithError(err).Error("Failed to update review")
		internalError(c, "Failed to update review")
		return
	}

	c.JSON(http.StatusOK, review)
}

// UpdateVisibility toggles whether an approved review is shown publicly.
// PATCH /api/v1/admin/reviews/:id/visibility  body: {"is_public": false}
func (h *ReviewsHandler) UpdateVisibility(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "INVALID_ID", "Invalid id")
		return
	}

	var body struct {
		IsPublic *bool `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.IsPublic == nil {
		badRequest(c, "INVALID_BODY", "is_public é obrigatório")
		return
	}

	review, err := h.store.UpdateVisibility(c.Request.Context(), id, *body.IsPublic)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Review not found")
			return
		}
		h.logger.WithError(err).Error("Failed to update review visibility")
		internalError(c, "Failed to update review")
		return
	}

	c.JSON(http.StatusOK, review)
}
