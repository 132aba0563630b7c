//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	"testing"

	"mentor-booking/internal/domain/user"
	"mentor-booking/internal/handler/middleware"
	"mentor-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	tokens map[string]stubClaims
}

type stubClaims struct {
	id   uuid.UUID
	role user.Role
}

func (v stubValidator) ValidateToken(token string) (uuid.UUID, user.Role, error) {
	c, ok := v.tokens[token]
	if !ok {
		return uuid.Nil, "", errors.New("token is expired")
	}
	return c.id, c.role, nil
}

func newRouter(t *testing.T) (*gin.Engine, uuid.UUID, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	menteeID, mentorID := uuid.New(), uuid.New()
	auth := middleware.NewAuthMiddleware(stubValidator{tokens: map[string]stubClaims{
		"mentee-token": {id: menteeID, role: user.RoleMentee},
		"mentor-token": {id: mentorID, role: user.RoleMentor},
	}})

	whoami := func(c *gin.Context) {
		id, _ := middleware.GetUserID(c)
		role, _ := middleware.GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "role": string(role)})
	}

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), whoami)
	r.POST("/book", auth.RequireAuth(), auth.RequireRole(user.RoleMentee, user.RoleAdmin), whoami)
	r.POST("/unguarded-role", auth.RequireRole(user.RoleMentee), whoami)
	r.POST("/cron", middleware.CronAuth("cron-secret"), whoami)
	r.POST("/cron-unset", middleware.CronAuth(""), whoami)
	return r, menteeID, mentorID
}

func TestRequireAuth(t *testing.T) {
	r, menteeID, _ := newRouter(t)

	t.Run("bearer header", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/me", nil, "mentee-token")

		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, map[string]string{"id": menteeID.String(), "role": "mentee"}, body)
	})

	t.Run("access token cookie", func(t *testing.T) {
		cookies := []*http.Cookie{{Name: "access_token", Value: "mentee-token"}}
		rec := httptest.PerformRequestWithCookies(t, r, http.MethodGet, "/me", nil, cookies, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/me", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("rejected token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/me", nil, "forged")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})
}

func TestRequireRole(t *testing.T) {
	r, _, _ := newRouter(t)

	cases := []struct {
		name       string
		path       string
		token      string
		wantStatus int
		wantMsg    string
	}{
		{name: "allowed role", path: "/book", token: "mentee-token", wantStatus: http.StatusOK},
		{name: "mentor cannot book", path: "/book", token: "mentor-token", wantStatus: http.StatusForbidden, wantMsg: "Insufficient permissions"},
		{name: "role check without auth", path: "/unguarded-role", token: "mentee-token", wantStatus: http.StatusInternalServerError, wantMsg: "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.PerformRequest(t, r, http.MethodPost, tc.path, nil, tc.token)
			if tc.wantMsg == "" {
				assert.Equal(t, tc.wantStatus, rec.Code)
				return
			}
			httptest.AssertErrorResponse(t, rec, tc.wantStatus, tc.wantMsg)
		})
	}
}

func TestCronAuth(t *testing.T) {
	r, _, _ := newRouter(t)

	cases := []struct {
		name       string
		path       string
		token      string
		wantStatus int
	}{
		{name: "matching secret", path: "/cron", token: "cron-secret", wantStatus: http.StatusOK},
		{name: "wrong secret", path: "/cron", token: "cron-secreT", wantStatus: http.StatusUnauthorized},
		{name: "user token", path: "/cron", token: "mentee-token", wantStatus: http.StatusUnauthorized},
		{name: "no header", path: "/cron", token: "", wantStatus: http.StatusUnauthorized},
		{name: "unset secret never matches", path: "/cron-unset", token: "", wantStatus: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.PerformRequest(t, r, http.MethodPost, tc.path, nil, tc.token)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
