package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jamescw/unicef-assessment-tool/internal/errors"
	"github.com/jamescw/unicef-assessment-tool/internal/logger"
	"github.com/jamescw/unicef-assessment-tool/internal/models"
	"github.com/jamescw/unicef-assessment-tool/internal/repository"
)

func newTestAuthService(t *testing.T) *authService {
	t.Helper()
	svc := NewAuthService(repository.NewMemoryRepositories(), "test-secret", logger.NewNopLogger()).(*authService)
	svc.hash = func(p string) (string, error) {
		b, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.MinCost)
		return string(b), err
	}
	return svc
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &models.RegisterRequest{Email: " Analyst@Example.org ", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "analyst@example.org", user.Email)
	assert.Equal(t, string(models.RoleRespondent), user.Role)
	assert.Empty(t, user.PasswordHash)

	resp, err := svc.Login(ctx, "ANALYST@example.org", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.ID, resp.User.ID)

	validated, err := svc.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, validated.ID)

	refreshed, err := svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.User.ID)

	_, err = svc.RefreshToken(ctx, resp.Token)
	assert.Equal(t, errors.ErrCodeUnauthorized, errors.CodeOf(err))
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{Email: "a@example.org", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@example.org", "wrong-pass")
	assert.Equal(t, errors.ErrCodeUnauthorized, errors.CodeOf(err))

	_, err = svc.Login(ctx, "nobody@example.org", "s3cret-pass")
	assert.Equal(t, errors.ErrCodeUnauthorized, errors.CodeOf(err))
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{Email: "admin@example.org", Password: "s3cret-pass", Role: models.RoleAdmin})
	assert.Equal(t, errors.ErrCodeForbidden, errors.CodeOf(err))

	_, err = svc.Register(ctx, &models.RegisterRequest{Email: "not-an-email", Password: "s3cret-pass"})
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))

	_, err = svc.Register(ctx, &models.RegisterRequest{Email: "dup@example.org", Password: "s3cret-pass"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, &models.RegisterRequest{Email: "DUP@example.org", Password: "s3cret-pass"})
	assert.True(t, errors.IsConflict(err))
}

func TestAuthService_CreateUserAdmin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &models.RegisterRequest{Email: "admin@example.org", Password: "s3cret-pass", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	_, err = svc.CreateUser(ctx, &models.RegisterRequest{Email: "x@example.org", Password: "s3cret-pass", Role: "owner"})
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))
}

func TestAuthService_ShortPassword(t *testing.T) {
	svc := NewAuthService(repository.NewMemoryRepositories(), "test-secret", logger.NewNopLogger())

	_, err := svc.Register(context.Background(), &models.RegisterRequest{Email: "a@example.org", Password: "short"})
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))
}
