//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"mentor-booking/internal/domain/user"
	"mentor-booking/internal/handler/dto/request"
	resdto "mentor-booking/internal/handler/dto/response"
	"mentor-booking/tests/common/authtest"
	"mentor-booking/tests/common/dbtest"
	"mentor-booking/tests/common/httptest"
	"mentor-booking/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	loginURL   = "/api/auth/login"
	logoutURL  = "/api/auth/logout"
	refreshURL = "/api/auth/refresh"
	meURL      = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
	jwtHelper *authtest.JWTHelper
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwtHelper = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	dbtest.CreateTestUser(s.T(), s.DB, "mentee@example.com", user.RoleMentee.String())
	dbtest.CreateTestUser(s.T(), s.DB, "mentor@example.com", user.RoleMentor.String())
	dbtest.CreateTestUser(s.T(), s.DB, "inactive@example.com", user.RoleMentee.String())

	_, err := s.DB.Exec(s.T().Context(), "UPDATE users SET is_active = false WHERE email = 'inactive@example.com'")
	require.NoError(s.T(), err)
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{name: "valid mentee credentials", email: "mentee@example.com", password: dbtest.TestPassword, expectedStatus: http.StatusOK},
		{name: "valid mentor credentials", email: "mentor@example.com", password: dbtest.TestPassword, expectedStatus: http.StatusOK},
		{name: "unknown user", email: "nobody@example.com", password: dbtest.TestPassword, expectedStatus: http.StatusUnauthorized},
		{name: "wrong password", email: "mentee@example.com", password: "wrongpassword", expectedStatus: http.StatusUnauthorized},
		{name: "inactive user", email: "inactive@example.com", password: dbtest.TestPassword, expectedStatus: http.StatusForbidden},
		{name: "empty email", email: "", password: dbtest.TestPassword, expectedStatus: http.StatusBadRequest},
		{name: "empty password", email: "mentee@example.com", password: "", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
				request.LoginRequest{Email: tt.email, Password: tt.password}, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus != http.StatusOK {
				return
			}
			var res resdto.LoginResponse
			httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
			require.NotEmpty(t, res.AccessToken)
			require.Equal(t, tt.email, res.User.Email)
			require.NotNil(t, httptest.ExtractCookie(w, "refresh_token"))

			var lastLogin any
			err := s.DB.QueryRow(t.Context(), "SELECT last_login FROM users WHERE email = $1", tt.email).Scan(&lastLogin)
			require.NoError(t, err)
			require.NotNil(t, lastLogin, "last_login should be updated")
		})
	}
}

func (s *authSuite) TestRefresh() {
	s.Run("refresh cookie issues a new access token", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "mentee@example.com", Password: dbtest.TestPassword}, "")
		require.Equal(t, http.StatusOK, w.Code)

		refreshed := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, refreshURL, nil,
			[]*http.Cookie{httptest.ExtractCookie(w, "refresh_token")}, "")
		var res resdto.RefreshResponse
		httptest.AssertSuccessResponse(t, refreshed, http.StatusOK, &res)
		require.NotEmpty(t, res.AccessToken)
	})

	s.Run("invalid refresh token is rejected", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, refreshURL,
			request.RefreshRequest{RefreshToken: "invalid-refresh-token"}, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Invalid or expired refresh token")
	})

	s.Run("missing refresh token is rejected", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, refreshURL, nil, "")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})
}

func (s *authSuite) TestLogout() {
	s.Run("authenticated logout", func() {
		session := authtest.Login(s.T(), s.Router, "mentee@example.com")
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, logoutURL, nil, session.AccessToken)
		require.Equal(s.T(), http.StatusNoContent, w.Code)
	})

	s.Run("cookie logout clears the session cookies", func() {
		session := authtest.Login(s.T(), s.Router, "mentee@example.com")
		authtest.Logout(s.T(), s.Router, session)
	})

	s.Run("logout without token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, logoutURL, nil, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Access token required")
	})
}

func (s *authSuite) TestMe() {
	s.Run("returns the caller without secrets", func() {
		t := s.T()
		session := authtest.LoginAs(t, s.DB, s.Router, "mentor2@example.com", user.RoleMentor)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, session.AccessToken)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		require.Contains(t, body, session.UserID.String())
		require.Contains(t, body, "mentor2@example.com")
		require.Contains(t, body, user.RoleMentor.String())
		require.NotContains(t, body, "password")
	})

	s.Run("expired token is rejected", func() {
		t := s.T()
		userID := dbtest.CreateTestUser(t, s.DB, "expiry@example.com", user.RoleMentee.String())
		expired := s.jwtHelper.CreateExpiredToken(t, userID, user.RoleMentee)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, expired)
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Invalid or expired token")
	})
}
