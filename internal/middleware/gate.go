package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	AuthCookie      = "Auth"
	LoginPath       = "/login"
	DashboardPath   = "/dashboard"
	dashboardPrefix = DashboardPath + "/"
)

// EdgeGate guards the web pages by cookie only: the dashboard needs an
// Auth cookie and a signed-in visitor is sent past the login page. The
// API is not affected.
func EdgeGate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		token, _ := c.Cookie(AuthCookie)

		switch {
		case path == DashboardPath || strings.HasPrefix(path, dashboardPrefix):
			if token == "" {
				c.Redirect(http.StatusFound, LoginPath)
				c.Abort()
				return
			}
		case path == LoginPath:
			if token != "" {
				if _, err := ParseToken(secret, token); err == nil {
					c.Redirect(http.StatusFound, DashboardPath)
					c.Abort()
					return
				}
			}
		}

		c.Next()
	}
}
