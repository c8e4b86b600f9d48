package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/Crownicles/Crownicles-sub006/internal/auth"
	"github.com/Crownicles/Crownicles-sub006/internal/config"
	"github.com/Crownicles/Crownicles-sub006/internal/middleware"
	"github.com/Crownicles/Crownicles-sub006/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Language string `json:"language"`
}

type authResponse struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
}

// setSessionCookie stores the token for browser clients. Secure only outside development.
func setSessionCookie(c *gin.Context, cfg config.Config, token string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func RegisterHandler(db *sql.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeAPIError(c, models.ErrInvalidJSON)
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		uLen := utf8.RuneCountInString(req.Username)
		if uLen < 3 || uLen > 32 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username must be 3-32 characters"})
			return
		}
		// Do not TrimSpace passwords: leading/trailing spaces are valid characters.
		if utf8.RuneCountInString(req.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
			return
		}
		lang := strings.TrimSpace(req.Language)
		if lang == "" {
			lang = cfg.DefaultLanguage
		}
		if lang != "en" && lang != "fr" {
			writeAPIError(c, models.ErrInvalidLanguage)
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		acc, err := models.CreateAccount(c.Request.Context(), db, req.Username, hash, lang)
		if err != nil {
			writeAPIError(c, err)
			return
		}

		token, err := auth.GenerateToken(acc.ID, acc.Username, cfg)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		logger().Info("account registered", zap.Int64("player_id", acc.ID))
		setSessionCookie(c, cfg, token, int(cfg.JWTTTL.Seconds()))
		c.JSON(http.StatusCreated, authResponse{Token: token, Account: acc})
	}
}

func LoginHandler(db *sql.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeAPIError(c, models.ErrInvalidJSON)
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
			return
		}

		acc, err := models.GetAccountByUsername(c.Request.Context(), db, req.Username)
		if err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				writeAPIError(c, err)
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err := auth.ComparePasswordHash(acc.PasswordHash, req.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := auth.GenerateToken(acc.ID, acc.Username, cfg)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		setSessionCookie(c, cfg, token, int(cfg.JWTTTL.Seconds()))
		c.JSON(http.StatusOK, authResponse{Token: token, Account: acc})
	}
}

// MeHandler validates the session itself so the frontend can probe it without a 401 cascade.
func MeHandler(db *sql.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := middleware.TokenFromRequest(c.Request)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := auth.ParseAndValidateToken(token, cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		acc, err := models.GetAccountByID(c.Request.Context(), db, claims.PlayerID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"account": acc})
	}
}

func LogoutHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		setSessionCookie(c, cfg, "", -1)
		c.Status(http.StatusNoContent)
	}
}

type languageRequest struct {
	Language string `json:"language"`
}

func SetLanguageHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, ok := requirePlayer(c)
		if !ok {
			return
		}
		var req languageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeAPIError(c, models.ErrInvalidJSON)
			return
		}
		lang := strings.TrimSpace(req.Language)
		if err := models.SetAccountLanguage(c.Request.Context(), db, playerID, lang); err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"language": lang})
	}
}
