//go:build unit

package usecase_test

import (
	"testing"
	"time"

	"mentor-booking/internal/domain/user"
	"mentor-booking/internal/pkg/jwt"
	"mentor-booking/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenValidator(t *testing.T) {
	svc := jwt.NewService("unit-secret", 15*time.Minute, time.Hour)
	validator := usecase.NewTokenValidator(svc)
	userID := uuid.New()

	t.Run("access token resolves identity", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(userID, user.RoleMentor)
		require.NoError(t, err)

		id, role, err := validator.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, id)
		assert.Equal(t, user.RoleMentor, role)
	})

	t.Run("refresh token is rejected", func(t *testing.T) {
		token, err := svc.GenerateRefreshToken(userID, user.RoleMentee)
		require.NoError(t, err)

		_, _, err = validator.ValidateToken(token)
		assert.ErrorIs(t, err, usecase.ErrNotAccessToken)
	})

	t.Run("foreign signature is rejected", func(t *testing.T) {
		token, err := jwt.NewService("other-secret", time.Minute, time.Hour).GenerateAccessToken(userID, user.RoleMentee)
		require.NoError(t, err)

		_, _, err = validator.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := jwt.NewService("unit-secret", -time.Minute, time.Hour).GenerateAccessToken(userID, user.RoleMentee)
		require.NoError(t, err)

		_, _, err = validator.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})
}
