package service

import (
	"context"
	"testing"
	"time"

	"po-analytics/internal/config"
	"po-analytics/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		AppEnv:           env,
		JWTSecret:        "test-secret",
		JWTAccessExpire:  time.Hour,
		JWTRefreshExpire: 24 * time.Hour,
	}
}

func TestDevLogin(t *testing.T) {
	svc := NewAuthService(nil, testConfig("development"))

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "admin"})
	require.NoError(t, err)
	assert.Equal(t, DevUser.Username, resp.User.Username)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, DevUser.ID, claims.UserID)

	user, err := svc.GetUserByID(context.Background(), DevUser.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)
}

func TestLoginWithoutAccounts(t *testing.T) {
	svc := NewAuthService(nil, testConfig("production"))

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "admin"})
	assert.ErrorIs(t, err, ErrAccountsUnavailable)

	_, err = svc.Register(context.Background(), models.RegisterRequest{Username: "u", Email: "u@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrAccountsUnavailable)
}
