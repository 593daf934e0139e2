package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

// PartnersStore is the partner directory persistence.
type PartnersStore interface {
	List(ctx context.Context) ([]models.Partner, error)
	Create(ctx context.Context, partner *models.Partner) error
	Update(ctx context.Context, id uuid.UUID, input models.PartnerInput) (*models.Partner, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PartnersHandler struct {
	store  PartnersStore
	logger *logrus.Entry
}

func NewPartnersHandler(store PartnersStore, logger *logrus.Logger) *PartnersHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &PartnersHandler{
		store:  store,
		logger: logger.WithField("component", "partners_handler"),
	}
}

// GetPartners returns the partner directory, newest first.
// GET /api/v1/partners
func (h *PartnersHandler) GetPartners(c *gin.Context) {
	partners, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch partners")
		internalError(c, "Failed to fetch partners")
		return
	}
	c.JSON(http.StatusOK, partners)
}

// CreatePartner adds a partner from the back office.
// POST /api/v1/admin/partners
func (h *PartnersHandler) CreatePartner(c *gin.Context) {
	var input models.PartnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if input.Name == "" || input.Description == "" || input.LogoURL == "" || input.Category == "" {
		badRequest(c, "MISSING_FIELDS", "Missing required fields")
		return
	}

	partner := &models.Partner{
		Name:        input.Name,
		Description: input.Description,
		LogoURL:     input.LogoURL,
		WebsiteURL:  input.WebsiteURL,
		Whatsapp:    input.Whatsapp,
		Category:    input.Category,
	}
	if err := h.store.Create(c.Request.Context(), partner); err != nil {
		h.logger.WithError(err).Error("Failed to create partner")
		internalError(c, "Failed to create partner")
		return
	}

	c.JSON(http.StatusCreated, partner)
}

// UpdatePartner replaces a partner's fields.
// PUT /api/v1/admin/partners/:id
func (h *PartnersHandler) UpdatePartner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "INVALID_ID", "Invalid id")
		return
	}

	var input models.PartnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if input.Name == "" || input.Description == "" || input.LogoURL == "" || input.Category == "" {
		badRequest(c, "MISSING_FIELDS", "Missing required fields")
		return
	}

	partner, err := h.store.Update(c.Request.Context(), id, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Partner not found")
			return
		}
		h.logger.WithError(err).Error("Failed to update partner")
		internalError(c, "Failed to update partner")
		return
	}

	c.JSON(http.StatusOK, partner)
}

// DeletePartner removes a partner.
// DELETE /api/v1/admin/partners/:id
func (h *PartnersHandler) DeletePartner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "INVALID_ID", "Invalid id")
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Partner not found")
			return
		}
		h.logger.WithError(err).Error("Failed to delete partner")
		internalError(c, "Failed to delete partner")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Partner deleted successfully"})
}
