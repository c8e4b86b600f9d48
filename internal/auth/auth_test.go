package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/Crownicles/Crownicles-sub006/internal/config"
)

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", JWTIssuer: "crownicles", JWTTTL: time.Hour}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	tok, err := GenerateToken(42, "alice", cfg)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := ParseAndValidateToken(tok, cfg)
	if err != nil {
		t.Fatalf("ParseAndValidateToken: %v", err)
	}
	if claims.PlayerID != 42 || claims.Username != "alice" || claims.Subject != "42" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenRejectsOtherSecretOrIssuer(t *testing.T) {
	cfg := testConfig()
	tok, err := GenerateToken(1, "alice", cfg)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	other := cfg
	other.JWTSecret = "other"
	if _, err := ParseAndValidateToken(tok, other); err == nil {
		t.Fatal("expected a signature error")
	}
	other = cfg
	other.JWTIssuer = "someone-else"
	if _, err := ParseAndValidateToken(tok, other); err == nil {
		t.Fatal("expected an issuer error")
	}
	if _, err := GenerateToken(1, "alice", config.Config{}); err != ErrMissingSecret {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePasswordHash(hash, "correct horse"); err != nil {
		t.Fatalf("ComparePasswordHash: %v", err)
	}
	if err := ComparePasswordHash(hash, "wrong horse"); err == nil {
		t.Fatal("expected a mismatch")
	}

	for _, bad := range []string{"", "short", strings.Repeat("x", 73)} {
		if _, err := HashPassword(bad); !IsPasswordValidationError(err) {
			t.Fatalf("expected a validation error for %d bytes, got %v", len(bad), err)
		}
	}
}
