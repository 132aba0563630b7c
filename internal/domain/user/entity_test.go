//go:build unit

package user_test

import (
	"testing"

	"mentor-booking/internal/domain/user"
	"mentor-booking/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmp.AllowUnexported(user.User{}, user.Email{}),
	cmpopts.IgnoreFields(user.User{}, "id"),
	cmpopts.EquateEmpty(),
}

type testCase struct {
	name   string
	mutate func(*builder.UserBuilder)
	errIs  error
}

func TestUser(t *testing.T) {
	t.Run("basic success", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		email, _ := user.NewEmail("mentee@example.com")
		expected := user.NewUser(email, "hashed_password", user.RoleMentee)

		if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
			t.Errorf("User mismatch (-want +got):\n%s", diff)
		}

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.True(t, actual.IsActive())
		assert.Nil(t, actual.LastLogin())
	})

	t.Run("email", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "valid address",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("valid@example.com") },
			},
			{
				name:   "surrounding spaces trimmed",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("  valid@example.com ") },
			},
			{
				name:   "empty",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "no domain",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("invalid-email") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "no at sign",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("invalidemail.com") },
				errIs:  user.ErrInvalidEmail,
			},
		})
	})

	t.Run("role", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "mentee",
				mutate: func(b *builder.UserBuilder) { b.WithRole(user.RoleMentee) },
			},
			{
				name:   "mentor",
				mutate: func(b *builder.UserBuilder) { b.AsMentor() },
			},
			{
				name:   "admin",
				mutate: func(b *builder.UserBuilder) { b.WithRole(user.RoleAdmin) },
			},
			{
				name:   "unknown role",
				mutate: func(b *builder.UserBuilder) { b.WithRole("invalid_role") },
				errIs:  user.ErrInvalidRole,
			},
			{
				name:   "empty role",
				mutate: func(b *builder.UserBuilder) { b.WithRole("") },
				errIs:  user.ErrInvalidRole,
			},
		})
	})
}

func TestRoleCanBook(t *testing.T) {
	assert.True(t, user.RoleMentee.CanBook())
	assert.True(t, user.RoleAdmin.CanBook())
	assert.False(t, user.RoleMentor.CanBook())
}

func TestNewCredentials(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
		errIs    error
	}{
		{name: "valid", email: "mentee@example.com", password: "password123"},
		{name: "short password", email: "mentee@example.com", password: "short", errIs: user.ErrPasswordTooWeak},
		{name: "bad email checked first", email: "nope", password: "short", errIs: user.ErrInvalidEmail},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			creds, err := user.NewCredentials(c.email, c.password)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.email, creds.Email().Value())
			assert.Equal(t, c.password, creds.Password().Value())
		})
	}
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewUserBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
