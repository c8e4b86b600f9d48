package middleware

import (
	"net/http"
	"strings"

	"github.com/Crownicles/Crownicles-sub006/internal/auth"
	"github.com/Crownicles/Crownicles-sub006/internal/config"

	"github.com/gin-gonic/gin"
)

func RequireAuth(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := auth.ParseAndValidateToken(token, cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(auth.ContextPlayerID, claims.PlayerID)
		c.Set(auth.ContextUsername, claims.Username)
		c.Next()
	}
}

// TokenFromRequest reads the session cookie first, then an Authorization bearer header.
func TokenFromRequest(r *http.Request) string {
	if ck, err := r.Cookie(auth.CookieName); err == nil {
		if t := strings.TrimSpace(ck.Value); t != "" {
			return t
		}
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}
