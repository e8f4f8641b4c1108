package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrovia/agrovia/internal/user"
)

const userKey = "currentUser"

// Protect resolves the session cookie back to a stored user and aborts with
// 401 when there is no valid session. The stored role is authoritative: a
// forged or stale role claim in the cookie has no effect.
func Protect(tokens *Tokens, users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(CookieName)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token"})
			return
		}
		uid, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, token failed"})
			return
		}
		u, err := users.GetByID(c.Request.Context(), uid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, token failed"})
			return
		}
		c.Set(userKey, u)
		c.Next()
	}
}

// RequireRoles is the declarative per-route role gate. It must run after
// Protect.
func RequireRoles(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token"})
			return
		}
		for _, r := range roles {
			if u.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role " + string(u.Role) + " is not authorized to access this route"})
	}
}

// CurrentUser returns the resolved user, or nil outside a protected route.
func CurrentUser(c *gin.Context) *user.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*user.User)
	return u
}

// SetSession sets the httpOnly session cookie. Secure and SameSite=None are
// used in production so the SPA can talk cross-site.
func SetSession(c *gin.Context, token string, maxAge int, production bool) {
	sameSite := http.SameSiteStrictMode
	if production {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(CookieName, token, maxAge, "/", "", production, true)
}

// ClearSession expires the cookie; calling it without a session is harmless.
func ClearSession(c *gin.Context, production bool) {
	sameSite := http.SameSiteStrictMode
	if production {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(CookieName, "", -1, "/", "", production, true)
}
