package middleware

import (
	"net/http"
	"strings"

	"github.com/Crownicles/Crownicles-sub006/internal/config"

	"github.com/gin-gonic/gin"
)

var loopbackOrigins = []string{
	"http://localhost:", "http://127.0.0.1:", "http://[::1]:",
	"https://localhost:", "https://127.0.0.1:", "https://[::1]:",
}

// DevCORS allows credentialed requests from loopback origins in development only.
func DevCORS(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := strings.TrimSpace(c.GetHeader("Origin"))
		if origin == "" || cfg.AppEnv != "development" {
			c.Next()
			return
		}
		for _, prefix := range loopbackOrigins {
			if strings.HasPrefix(origin, prefix) {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Vary", "Origin")
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept-Language")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
				break
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
