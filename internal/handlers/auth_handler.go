package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
)

const sessionTTL = 24 * time.Hour

// ProfileStore resolves back-office accounts.
type ProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
}

type AuthHandler struct {
	profiles  ProfileStore
	jwtSecret []byte
	logger    *logrus.Entry
}

func NewAuthHandler(profiles ProfileStore, jwtSecret string, logger *logrus.Logger) *AuthHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &AuthHandler{
		profiles:  profiles,
		jwtSecret: []byte(jwtSecret),
		logger:    logger.WithField("component", "auth_handler"),
	}
}

// Login verifies credentials and issues a session token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_CREDENTIALS_BODY", "Email and password are required")
		return
	}

	profile, err := h.profiles.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.rejectLogin(c)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)) != nil {
		h.rejectLogin(c)
		return
	}

	expiresAt := time.Now().Add(sessionTTL)
	claims := middleware.SessionClaims{
		Email: profile.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
	if err != nil {
		h.logger.WithError(err).Error("Failed to sign session token")
		internalError(c, "Failed to sign in")
		return
	}

	h.logger.WithField("email", profile.Email).Info("login")
	c.JSON(http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *profile,
	})
}

// Me returns the signed-in profile.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "NOT_AUTHENTICATED", Message: "Não autenticado"},
		})
		return
	}

	profile, err := h.profiles.GetByID(c.Request.Context(), userID)
	if err != nil {
		notFound(c, "Profile not found")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// rejectLogin keeps the response identical for unknown emails and wrong
// passwords.
func (h *AuthHandler) rejectLogin(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: "INVALID_CREDENTIALS", Message: "Email ou senha inválidos"},
	})
}
