package service

import (
	"context"
	"testing"

	"digitask/internal/config"
	"digitask/internal/dto"
	"digitask/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (AuthService, *stubUserRepo) {
	t.Helper()
	repo := newStubUserRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
	return NewAuthService(repo, cfg), repo
}

func seedUser(t *testing.T, repo *stubUserRepo, username, password, role string, active bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		Username:     username,
		FullName:     "Test User",
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLoginSuccess(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "tech1", "hunter2", model.RoleOperator, true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "tech1", Password: "hunter2"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotEqual(t, resp.AccessToken, resp.RefreshToken)
	assert.Equal(t, "tech1", resp.User.Username)
	assert.Equal(t, model.RoleOperator, resp.User.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "tech1", "hunter2", model.RoleOperator, true)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "tech1", Password: "wrong"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "hunter2"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginRejectsDeactivatedUser(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "gone", "hunter2", model.RoleOperator, false)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "gone", Password: "hunter2"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRefreshRoundTrip(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "tech1", "hunter2", model.RoleDispatcher, true)
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "tech1", Password: "hunter2"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "tech1", refreshed.User.Username)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	svc, repo := newAuthFixture(t)
	u := seedUser(t, repo, "tech1", "hunter2", model.RoleOperator, true)
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "tech1", Password: "hunter2"})
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(ctx, u.ID))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, repo := newAuthFixture(t)
	ctx := context.Background()

	resp, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		Username: "newtech",
		FullName: "New Tech",
		Password: "s3cret",
		Role:     model.RoleOperator,
	})
	require.NoError(t, err)
	assert.True(t, resp.Active)

	stored, err := repo.FindByUsername(ctx, "newtech")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))
}
