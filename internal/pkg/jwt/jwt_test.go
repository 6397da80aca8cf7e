package jwt

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRevocations struct {
	mu   sync.Mutex
	jtis map[string]time.Duration
}

func newMemoryRevocations() *memoryRevocations {
	return &memoryRevocations{jtis: make(map[string]time.Duration)}
}

func (m *memoryRevocations) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ttl > 0 {
		m.jtis[jti] = ttl
	}
	return nil
}

func (m *memoryRevocations) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jtis[jti]
	return ok, nil
}

func newTestService(t *testing.T) (Service, *memoryRevocations) {
	t.Helper()
	store := newMemoryRevocations()
	svc, err := NewJWTService("test-secret", "1h", "168h", store)
	require.NoError(t, err)
	return svc, store
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc, _ := newTestService(t)
	team := "team-1"

	token, expiresAt, err := svc.GenerateAccessToken(Subject{
		UserID: "user-1",
		Email:  "a@example.com",
		Role:   user.RoleAdmin,
		TeamID: &team,
	})
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, "team-1", claims["team_id"])
	assert.Nil(t, claims["shift_id"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
	assert.NotEmpty(t, decoded.JwtID())
}

func TestValidateRefreshToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	userID, err := svc.ValidateRefreshToken(ctx, refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	access, _, err := svc.GenerateAccessToken(Subject{UserID: "user-1", Role: user.RoleEmployee})
	require.NoError(t, err)
	_, err = svc.ValidateRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateRefreshToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeToken(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(ctx, refresh))
	assert.Len(t, store.jtis, 1)
	for _, ttl := range store.jtis {
		assert.InDelta(t, (168 * time.Hour).Seconds(), ttl.Seconds(), 5)
	}

	_, err = svc.ValidateRefreshToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// garbage is ignored
	assert.NoError(t, svc.RevokeToken(ctx, "garbage"))
}

func TestNewJWTService_BadDuration(t *testing.T) {
	_, err := NewJWTService("s", "forever", "1h", newMemoryRevocations())
	assert.Error(t, err)
}

func TestRefreshTokenCookie(t *testing.T) {
	svc, _ := newTestService(t)
	c := svc.RefreshTokenCookie("tok", time.Now().Add(time.Hour).Unix())
	assert.Equal(t, "refresh_token", c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, -1, svc.ClearRefreshTokenCookie().MaxAge)
}

func TestClaimsFromContext(t *testing.T) {
	svc, _ := newTestService(t)
	team := "team-9"
	token, _, err := svc.GenerateAccessToken(Subject{UserID: "u-1", Email: "e@example.com", Role: user.RoleEmployee, TeamID: &team})
	require.NoError(t, err)

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), decoded, nil)
	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, user.RoleEmployee, claims.Role)
	require.NotNil(t, claims.TeamID)
	assert.Equal(t, "team-9", *claims.TeamID)
	assert.Nil(t, claims.ShiftID)
	assert.False(t, claims.IsAdmin())

	_, err = ClaimsFromContext(context.Background())
	assert.ErrorIs(t, err, ErrClaimsMissing)
}
