package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
)

type mockProfileStore struct {
	mock.Mock
}

func (m *mockProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *mockProfileStore) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func adminProfile(t *testing.T, password string) *models.Profile {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.Profile{
		ID:           uuid.New(),
		Email:        "admin@example.com",
		FullName:     "Admin",
		Role:         models.RoleAdmin,
		PasswordHash: string(hash),
	}
}

func authRouter(profiles ProfileStore, secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(profiles, secret, nil)
	router := gin.New()
	router.POST("/auth/login", handler.Login)
	router.GET("/auth/me", middleware.AuthRequired([]byte(secret)), handler.Me)
	return router
}

func TestLoginIssuesUsableSessionToken(t *testing.T) {
	profile := adminProfile(t, "s3nha-forte")

	profiles := new(mockProfileStore)
	profiles.On("GetByEmail", mock.Anything, "admin@example.com").Return(profile, nil)
	profiles.On("GetByID", mock.Anything, profile.ID).Return(profile, nil)

	router := authRouter(profiles, "test-secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"admin@example.com","password":"s3nha-forte"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, profile.Email, resp.User.Email)
	assert.NotContains(t, w.Body.String(), profile.PasswordHash)

	// The issued token must pass the session middleware.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), profile.Email)
	profiles.AssertExpectations(t)
}

func TestLoginRejectsWrongPasswordAndUnknownEmailAlike(t *testing.T) {
	profile := adminProfile(t, "s3nha-forte")

	profiles := new(mockProfileStore)
	profiles.On("GetByEmail", mock.Anything, "admin@example.com").Return(profile, nil)
	profiles.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, assert.AnError)

	router := authRouter(profiles, "test-secret")

	wrongPassword := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"admin@example.com","password":"errada"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(wrongPassword, req)

	unknownEmail := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ghost@example.com","password":"errada"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(unknownEmail, req)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Identical body either way, so the endpoint does not leak which
	// emails have accounts.
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Contains(t, wrongPassword.Body.String(), "Email ou senha inválidos")
}

func TestLoginRequiresCredentials(t *testing.T) {
	router := authRouter(new(mockProfileStore), "test-secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"admin@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
