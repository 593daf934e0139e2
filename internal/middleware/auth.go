package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"catalog-service/internal/models"
)

// Context keys set by AuthRequired.
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
)

// SessionClaims are the JWT claims carried by a session token. Subject
// is the profile ID.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// RoleLookup resolves the stored role of an identity.
type RoleLookup interface {
	GetRole(ctx context.Context, id uuid.UUID) (string, error)
}

// AuthRequired validates the bearer token and puts the identity on the
// context. Requests without a valid session are rejected with 401.
func AuthRequired(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c)
			return
		}

		claims := &SessionClaims{}
		token, err := jwt.ParseWithClaims(authHeader[len("Bearer "):], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			unauthorized(c)
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// RequireAdmin is the access guard for administrative operations: the
// caller must already be authenticated and its stored role must be
// admin. Fails closed: missing identity, missing profile, or any other
// role is rejected before the handler runs. The response does not say
// why authorization failed beyond the status.
func RequireAdmin(roles RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			unauthorized(c)
			return
		}

		role, err := roles.GetRole(c.Request.Context(), userID)
		if err != nil || role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "FORBIDDEN",
					Message: "Acesso negado",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUserID returns the authenticated profile ID from the context.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    "NOT_AUTHENTICATED",
			Message: "Não autenticado",
		},
	})
	c.Abort()
}
