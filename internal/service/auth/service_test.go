package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
	testUserID     = "11111111-1111-1111-1111-111111111111"
	testTeamID     = "33333333-3333-3333-3333-333333333333"
)

type fakeUserRepo struct {
	user.UserRepository
	users map[string]user.User
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, ids []string) (map[string]user.User, error) {
	out := map[string]user.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeUserRepo) List(context.Context) ([]user.User, error) { return nil, nil }

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	f.users[u.ID] = u
	return u, nil
}

type memoryRevocations struct {
	mu  sync.Mutex
	ids map[string]time.Duration
}

func (m *memoryRevocations) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[jti] = ttl
	return nil
}

func (m *memoryRevocations) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[jti]
	return ok, nil
}

func newTestAuthService(t *testing.T) (auth.AuthService, jwt.Service, *fakeUserRepo) {
	t.Helper()

	hash, err := HashPassword("password123")
	require.NoError(t, err)

	team := testTeamID
	repo := &fakeUserRepo{users: map[string]user.User{
		testUserID: {
			ID:           testUserID,
			Email:        "jane@example.com",
			PasswordHash: hash,
			FirstName:    "Jane",
			Role:         user.RoleEmployee,
			TeamID:       &team,
		},
	}}

	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp, &memoryRevocations{ids: map[string]time.Duration{}})
	require.NoError(t, err)

	return NewAuthService(repo, jwtService), jwtService, repo
}

func TestLogin_Success(t *testing.T) {
	svc, jwtService, _ := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Email: "Jane@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.RefreshTokenExpiresIn, resp.AccessTokenExpiresIn)

	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), resp.AccessToken)
	require.NoError(t, err)
	claims := token.PrivateClaims()
	assert.Equal(t, testUserID, claims["user_id"])
	assert.Equal(t, "employee", claims["role"])
	assert.Equal(t, testTeamID, claims["team_id"])
	assert.Equal(t, jwt.TokenTypeAccess, claims["type"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "jane@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), auth.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRefreshToken_PicksUpRoleChanges(t *testing.T) {
	svc, jwtService, repo := newTestAuthService(t)

	login, err := svc.Login(context.Background(), auth.LoginRequest{Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	u := repo.users[testUserID]
	u.Role = user.RoleAdmin
	repo.users[testUserID] = u

	refreshed, err := svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", token.PrivateClaims()["role"])
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	login, err := svc.Login(context.Background(), auth.LoginRequest{Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenMissing)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	login, err := svc.Login(context.Background(), auth.LoginRequest{Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), auth.RefreshTokenRequest{RefreshToken: login.RefreshToken}))

	_, err = svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestMe(t *testing.T) {
	svc, jwtService, _ := newTestAuthService(t)

	login, err := svc.Login(context.Background(), auth.LoginRequest{Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), login.AccessToken)
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), token, nil)

	me, err := svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", me.Email)
	assert.Equal(t, "Jane", me.FullName)

	_, err = svc.Me(context.Background())
	assert.ErrorIs(t, err, jwt.ErrClaimsMissing)
}
