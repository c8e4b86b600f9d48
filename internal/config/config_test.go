package config

import (
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
)

func load(vars map[string]string) (Config, error) {
	return Load(env.Options{Environment: vars})
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(map[string]string{
		"JWT_SECRET":    "secret",
		"DATABASE_PATH": "data/app.db",
		"PORT":          "8080",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected :8080, got %q", cfg.Addr)
	}
	if cfg.JWTTTL != 7*24*time.Hour || cfg.JWTIssuer != "crownicles" {
		t.Fatalf("unexpected jwt config %v %q", cfg.JWTTTL, cfg.JWTIssuer)
	}
	if cfg.DatabaseDriver != "sqlite3" || cfg.MaxMissionSlots != 3 || cfg.AppEnv != "development" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.TracesExporter != "stdout" || cfg.TracesSampler != "" || cfg.TracesPretty {
		t.Fatalf("unexpected tracing defaults %+v", cfg)
	}
}

func TestLoadParsesLists(t *testing.T) {
	cfg, err := load(map[string]string{
		"JWT_SECRET":            "secret",
		"DATABASE_PATH":         ":memory:",
		"BACKEND_ADDR":          "127.0.0.1:9000",
		"WS_ALLOWED_ORIGINS":    "https://a.example, ,https://b.example",
		"WS_ALLOW_QUERY_TOKENS": "true",
		"DATABASE_DRIVER":       "sqlite",
		"APP_ENV":               "production",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.WSAllowedOrigins) != 2 || cfg.WSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %q", cfg.WSAllowedOrigins)
	}
	if !cfg.WSAllowQueryTokens || !cfg.IsProduction() || cfg.DatabaseDriver != "sqlite" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadReportsMissing(t *testing.T) {
	_, err := load(map[string]string{"DATABASE_DRIVER": "postgres"})
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []string{"JWT_SECRET", "DATABASE_PATH", "BACKEND_ADDR", "DATABASE_DRIVER"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in %q", want, err)
		}
	}
}
