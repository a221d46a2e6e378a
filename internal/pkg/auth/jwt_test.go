package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/activityhub/internal/app/models"
	"github.com/yigit/activityhub/internal/pkg/apperrors"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "activityhub.test",
	})
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestService()
	user := &models.User{ID: uuid.New(), Email: "ada@example.com"}

	token, expiresAt, err := svc.IssueAccessToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, userID, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, "ada@example.com", claims.Email)
	_, err = uuid.Parse(claims.ID)
	assert.NoError(t, err, "jti is a uuid")
}

func TestValidate_Expired(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.IssueAccessToken(&models.User{ID: uuid.New(), Email: "a@b.c"})
	require.NoError(t, err)

	svc.now = time.Now
	_, _, err = svc.ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, _, err := newTestService().IssueAccessToken(&models.User{ID: uuid.New(), Email: "a@b.c"})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "activityhub.test"})
	_, _, err = other.ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)

	tok, err = ExtractBearerToken(`"a.b.c"`)
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)

	_, err = ExtractBearerToken("Basic dXNlcg==")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
}
