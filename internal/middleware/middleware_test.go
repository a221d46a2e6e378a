package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/activityhub/internal/app/models"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/pkg/apperrors"
	"github.com/yigit/activityhub/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, errorBody) {
	t.Helper()
	router := gin.New()
	router.GET("/", func(c *gin.Context) { HandleAPIError(c, err) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"validation", apperrors.NewValidationError("Validation failed", []apperrors.FieldViolation{{Path: "limit", Message: "limit must be at least 1"}}), 400, dto.ErrorCodeValidationFailed, "Validation failed"},
		{"not found", apperrors.NewNotFoundReason(apperrors.ErrActivityNotFound), 404, dto.ErrorCodeResourceNotFound, "activity not found"},
		{"full", apperrors.NewConflictReason(apperrors.ErrActivityFull), 409, dto.ErrorCodeConflict, "activity full"},
		{"already participating", apperrors.NewConflictReason(apperrors.ErrAlreadyParticipating), 409, dto.ErrorCodeConflict, "already participating"},
		{"forbidden", apperrors.NewForbiddenError("Only the author can modify this comment"), 403, dto.ErrorCodeForbidden, "Only the author can modify this comment"},
		{"unauthorized", apperrors.NewUnauthorizedError("Authentication required"), 401, dto.ErrorCodeUnauthorized, "Authentication required"},
		{"expired token", apperrors.ErrTokenExpired, 401, dto.ErrorCodeExpiredToken, "Token expired"},
		{"no email", apperrors.NewCustomError(apperrors.ErrNoEmail, "no email").WithCode(string(dto.ErrorCodeNoEmail)), 401, dto.ErrorCodeNoEmail, "no email"},
		{"storage", apperrors.NewStorageError("list activities", errors.New("pq: relation missing")), 500, dto.ErrorCodeDatabaseError, "Internal server error"},
		{"unknown", errors.New("boom"), 500, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serveError(t, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, body.Success)
			assert.Equal(t, string(tt.code), body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
			assert.NotContains(t, w.Body.String(), "relation missing")
		})
	}
}

func TestHandleAPIError_ValidationDetails(t *testing.T) {
	_, body := serveError(t, apperrors.NewValidationError("Validation failed", []apperrors.FieldViolation{
		{Path: "page", Message: "page must be at least 1"},
	}))

	var violations []apperrors.FieldViolation
	require.NoError(t, json.Unmarshal(body.Error.Details, &violations))
	assert.Equal(t, []apperrors.FieldViolation{{Path: "page", Message: "page must be at least 1"}}, violations)
}

func TestHandleAPIError_AccountNotLinked(t *testing.T) {
	err := apperrors.NewCustomError(apperrors.ErrAccountNotLinked, "linked elsewhere").
		WithCode(string(dto.ErrorCodeOAuthAccountNotLinked)).
		WithDetails(map[string]interface{}{"provider": "github"})

	w, body := serveError(t, err)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, string(dto.ErrorCodeOAuthAccountNotLinked), body.Error.Code)
	assert.JSONEq(t, `{"provider":"github"}`, string(body.Error.Details))
}

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "activityhub"})
	m := NewAuthMiddleware(jwtService, "gateway-secret")

	router := gin.New()
	router.Use(RequestLogger(zerolog.Nop()))
	router.GET("/me", m.JWTAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, c.MustGet(ContextUserID).(uuid.UUID).String())
	})
	router.POST("/gateway", m.GatewayKey(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return router, jwtService
}

func TestJWTAuth(t *testing.T) {
	router, jwtService := newAuthRouter(t)
	user := &models.User{ID: uuid.New(), Email: "kim@example.com"}
	token, _, err := jwtService.IssueAccessToken(user)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, user.ID.String(), w.Body.String())
	})

	t.Run("query token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token="+token, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), string(dto.ErrorCodeInvalidToken))
	})
}

func TestGatewayKey(t *testing.T) {
	router, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/gateway", nil)
	req.Header.Set(GatewayKeyHeader, "gateway-secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/gateway", nil)
	req.Header.Set(GatewayKeyHeader, "guess")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
