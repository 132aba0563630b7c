package cookie

import (
	"net/http"
	"time"

	"mentor-booking/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookieName  = "access_token"
	RefreshTokenCookieName = "refresh_token"

	// The refresh token is only ever read by the auth endpoints.
	refreshTokenPath = "/api/auth"
)

func SetTokenCookies(c *gin.Context, cfg config.CookieConfig, accessToken, refreshToken string, accessExpiry, refreshExpiry time.Duration) {
	http.SetCookie(c.Writer, newCookie(cfg, AccessTokenCookieName, accessToken, "/", accessExpiry))
	http.SetCookie(c.Writer, newCookie(cfg, RefreshTokenCookieName, refreshToken, refreshTokenPath, refreshExpiry))
}

// ClearTokenCookies must use the same paths as SetTokenCookies or browsers keep the old values.
func ClearTokenCookies(c *gin.Context, cfg config.CookieConfig) {
	http.SetCookie(c.Writer, newCookie(cfg, AccessTokenCookieName, "", "/", -1))
	http.SetCookie(c.Writer, newCookie(cfg, RefreshTokenCookieName, "", refreshTokenPath, -1))
}

func GetAccessToken(c *gin.Context) string {
	token, _ := c.Cookie(AccessTokenCookieName)
	return token
}

func GetRefreshToken(c *gin.Context) string {
	token, _ := c.Cookie(RefreshTokenCookieName)
	return token
}

func newCookie(cfg config.CookieConfig, name, value, path string, ttl time.Duration) *http.Cookie {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   cfg.Domain,
		MaxAge:   maxAge,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: sameSite(cfg.SameSite),
	}
}

func sameSite(s string) http.SameSite {
	switch s {
	case "Strict":
		return http.SameSiteStrictMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
