//go:build unit

package password_test

import (
	"testing"

	"mentor-booking/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hashed, err := password.HashWithCost("mentee-secret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "mentee-secret", hashed)

	tests := []struct {
		name   string
		hashed string
		plain  string
		want   error
	}{
		{name: "matching password", hashed: hashed, plain: "mentee-secret"},
		{name: "wrong password", hashed: hashed, plain: "mentor-secret", want: password.ErrMismatch},
		{name: "unknown account", hashed: "", plain: "mentee-secret", want: password.ErrMismatch},
		{name: "empty password", hashed: hashed, plain: "", want: password.ErrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.hashed, tt.plain)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHashRejectsEmpty(t *testing.T) {
	_, err := password.Hash("")
	assert.ErrorIs(t, err, password.ErrEmpty)
}
