//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"mentor-booking/internal/domain/user"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTHelper mints tokens signed with the same secret as the app under test.
type JWTHelper struct {
	cfg     config.JWTConfig
	service *jwt.Service
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{
		cfg:     cfg,
		service: jwt.NewService(cfg.Secret, cfg.AccessTokenDuration, cfg.RefreshTokenDuration),
	}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := h.service.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	return token
}

// CreateExpiredToken returns an access token whose lifetime has already run out.
func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	shortLived := jwt.NewService(h.cfg.Secret, time.Millisecond, h.cfg.RefreshTokenDuration)
	token, err := shortLived.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
