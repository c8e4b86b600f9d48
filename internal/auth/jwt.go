package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Crownicles/Crownicles-sub006/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identify the player; the player id is also the account id.
type Claims struct {
	PlayerID int64  `json:"player_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

var ErrMissingSecret = errors.New("JWT_SECRET is required")

func GenerateToken(playerID int64, username string, cfg config.Config) (string, error) {
	if cfg.JWTSecret == "" {
		return "", ErrMissingSecret
	}
	now := time.Now().UTC()
	claims := Claims{
		PlayerID: playerID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.JWTIssuer,
			Subject:   strconv.FormatInt(playerID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.JWTTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
}

func ParseAndValidateToken(tokenString string, cfg config.Config) (*Claims, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	},
		jwt.WithIssuer(cfg.JWTIssuer),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.PlayerID <= 0 {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
