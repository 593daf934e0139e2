package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// MarketingStore persists lead captures and contact interactions.
type MarketingStore interface {
	TrackInteraction(ctx context.Context, interaction *models.ContactInteraction) error
	SaveEmailCapture(ctx context.Context, capture *models.EmailCapture) error
}

type MarketingHandler struct {
	store  MarketingStore
	logger *logrus.Entry
}

func NewMarketingHandler(store MarketingStore, logger *logrus.Logger) *MarketingHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &MarketingHandler{
		store:  store,
		logger: logger.WithField("component", "marketing_handler"),
	}
}

// CaptureEmail stores a storefront lead.
// POST /api/v1/email-capture
func (h *MarketingHandler) CaptureEmail(c *gin.Context) {
	var body struct {
		Name      string  `json:"name"`
		Email     string  `json:"email"`
		Company   *string `json:"company"`
		ProductID *string `json:"product_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if body.Name == "" || body.Email == "" {
		badRequest(c, "MISSING_FIELDS", "Name and email are required")
		return
	}

	capture := &models.EmailCapture{
		Name:    body.Name,
		Email:   body.Email,
		Company: body.Company,
	}
	if body.ProductID != nil {
		if pid, err := uuid.Parse(*body.ProductID); err == nil {
			capture.ProductID = &pid
		}
	}

	if err := h.store.SaveEmailCapture(c.Request.Context(), capture); err != nil {
		h.logger.WithError(err).Error("Failed to save email capture")
		internalError(c, "Failed to save email capture")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TrackInteraction records a click on a contact channel.
// POST /api/v1/track-interaction
func (h *MarketingHandler) TrackInteraction(c *gin.Context) {
	var body struct {
		Type      string  `json:"type"`
		ProductID *string `json:"product_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "INVALID_JSON", "Invalid JSON body")
		return
	}

	interactionType := models.InteractionType(body.Type)
	if interactionType != models.InteractionWhatsapp && interactionType != models.InteractionEmail {
		badRequest(c, "INVALID_TYPE", "Invalid interaction type")
		return
	}

	interaction := &models.ContactInteraction{
		Type:      interactionType,
		VisitorIP: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if body.ProductID != nil {
		if pid, err := uuid.Parse(*body.ProductID); err == nil {
			interaction.ProductID = &pid
		}
	}

	if err := h.store.TrackInteraction(c.Request.Context(), interaction); err != nil {
		h.logger.WithError(err).Error("Failed to track interaction")
		internalError(c, "Failed to track interaction")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
