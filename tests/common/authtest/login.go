//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"mentor-booking/internal/domain/user"
	"mentor-booking/internal/handler/dto/request"
	"mentor-booking/internal/pkg/cookie"
	"mentor-booking/tests/common/dbtest"
	"mentor-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Session is what a browser holds after logging in through the API.
type Session struct {
	UserID      uuid.UUID
	AccessToken string
	Cookies     []*http.Cookie
}

// Login signs in with the fixture password and requires both auth cookies.
func Login(t *testing.T, router *gin.Engine, email string) Session {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: dbtest.TestPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	access := httptest.ExtractCookie(w, cookie.AccessTokenCookieName)
	require.NotNil(t, access, "login for %s set no access cookie", email)
	require.NotEmpty(t, access.Value)
	refresh := httptest.ExtractCookie(w, cookie.RefreshTokenCookieName)
	require.NotNil(t, refresh, "login for %s set no refresh cookie", email)

	return Session{AccessToken: access.Value, Cookies: []*http.Cookie{access, refresh}}
}

// LoginAs seeds an active mentor or mentee and signs them in.
func LoginAs(t *testing.T, db dbtest.DBLike, router *gin.Engine, email string, role user.Role) Session {
	t.Helper()
	id := dbtest.CreateTestUser(t, db, email, role.String())
	s := Login(t, router, email)
	s.UserID = id
	return s
}

// Logout ends the session the way the browser would, by cookie only.
func Logout(t *testing.T, router *gin.Engine, s Session) {
	t.Helper()

	w := httptest.PerformRequestWithCookies(t, router, http.MethodPost, "/api/auth/logout", nil, s.Cookies, "")
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
}
