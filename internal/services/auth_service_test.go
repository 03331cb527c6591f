package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopatlas/affiliate-backend/internal/config"
	"github.com/shopatlas/affiliate-backend/internal/utils"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	utils.SetJWTSecret("test-secret")
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1}}
	return NewAuthService(setupTestDB(t), cfg)
}

func TestLogin(t *testing.T) {
	service := newAuthService(t)

	_, err := service.CreateUser(&CreateUserRequest{Username: "editor", Password: "secret1", IsAdmin: true})
	require.NoError(t, err)

	response, err := service.Login(&LoginRequest{Username: "editor", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)
	assert.Equal(t, "bearer", response.TokenType)
	assert.True(t, response.User.IsAdmin)

	claims, err := utils.ValidateJWT(response.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "editor", claims.Username)
	assert.True(t, claims.IsAdmin)
}

func TestLoginInvalidCredentials(t *testing.T) {
	service := newAuthService(t)

	_, err := service.CreateUser(&CreateUserRequest{Username: "editor", Password: "secret1"})
	require.NoError(t, err)

	_, err = service.Login(&LoginRequest{Username: "editor", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(&LoginRequest{Username: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserDuplicate(t *testing.T) {
	service := newAuthService(t)

	_, err := service.CreateUser(&CreateUserRequest{Username: "editor", Password: "secret1"})
	require.NoError(t, err)

	_, err = service.CreateUser(&CreateUserRequest{Username: "editor", Password: "secret2"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateUserHashesPassword(t *testing.T) {
	service := newAuthService(t)

	user, err := service.CreateUser(&CreateUserRequest{Username: "editor", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NoError(t, user.CheckPassword("secret1"))
}
