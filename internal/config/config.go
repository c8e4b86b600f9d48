package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr           string `env:"BACKEND_ADDR"`
	Port           string `env:"PORT"`
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite3"`
	DatabasePath   string `env:"DATABASE_PATH"`

	JWTSecret     string `env:"JWT_SECRET"`
	JWTIssuer     string `env:"JWT_ISSUER" envDefault:"crownicles"`
	JWTTTLMinutes int64  `env:"JWT_TTL_MINUTES" envDefault:"10080"`
	// JWTTTL is derived from JWTTTLMinutes.
	JWTTTL time.Duration

	AppEnv                string   `env:"APP_ENV" envDefault:"development"`
	WSAllowedOrigins      []string `env:"WS_ALLOWED_ORIGINS" envSeparator:","`
	WSAllowQueryTokens    bool     `env:"WS_ALLOW_QUERY_TOKENS"`
	DevWebSocketsAllowAll bool     `env:"DEV_WEBSOCKETS_ALLOW_ALL"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	TracesExporter   string `env:"OTEL_TRACES_EXPORTER" envDefault:"stdout"`
	TracesSampler    string `env:"OTEL_TRACES_SAMPLER"`
	TracesSamplerArg string `env:"OTEL_TRACES_SAMPLER_ARG"`
	TracesPretty     bool   `env:"OTEL_TRACES_PRETTY"`

	// RandomSeed makes game rolls reproducible when non-zero.
	RandomSeed      int64  `env:"RANDOM_SEED"`
	MaxMissionSlots int    `env:"MAX_MISSION_SLOTS" envDefault:"3"`
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"en"`
}

// LoadFromEnv reads the process environment.
func LoadFromEnv() (Config, error) {
	return Load(env.Options{})
}

// Load parses with custom options; tests pass Environment to avoid touching the process env.
func Load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.normalize()
}

func (cfg *Config) normalize() error {
	cfg.AppEnv = strings.TrimSpace(cfg.AppEnv)
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.JWTTTLMinutes <= 0 {
		cfg.JWTTTLMinutes = 10080
	}
	cfg.JWTTTL = time.Duration(cfg.JWTTTLMinutes) * time.Minute
	if cfg.MaxMissionSlots <= 0 {
		cfg.MaxMissionSlots = 3
	}

	var origins []string
	for _, o := range cfg.WSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.WSAllowedOrigins = origins

	// BACKEND_ADDR is optional if PORT is set by the hosting environment.
	if cfg.Addr == "" {
		if port := strings.TrimSpace(cfg.Port); port != "" {
			if strings.Contains(port, ":") {
				cfg.Addr = port
			} else {
				cfg.Addr = ":" + port
			}
		}
	}

	var missing []string
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.DatabasePath == "" {
		missing = append(missing, "DATABASE_PATH")
	}
	if cfg.Addr == "" {
		missing = append(missing, "BACKEND_ADDR (or PORT)")
	}
	if cfg.DatabaseDriver != "sqlite3" && cfg.DatabaseDriver != "sqlite" {
		missing = append(missing, fmt.Sprintf("DATABASE_DRIVER (%q is not sqlite3 or sqlite)", cfg.DatabaseDriver))
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing/invalid env: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (cfg Config) IsProduction() bool {
	return strings.EqualFold(cfg.AppEnv, "production")
}
