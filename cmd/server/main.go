package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Crownicles/Crownicles-sub006/internal/config"
	"github.com/Crownicles/Crownicles-sub006/internal/database"
	"github.com/Crownicles/Crownicles-sub006/internal/game/dispatch"
	"github.com/Crownicles/Crownicles-sub006/internal/handlers"
	"github.com/Crownicles/Crownicles-sub006/internal/i18n"
	"github.com/Crownicles/Crownicles-sub006/internal/logging"
	"github.com/Crownicles/Crownicles-sub006/internal/middleware"
	"github.com/Crownicles/Crownicles-sub006/internal/random"
	"github.com/Crownicles/Crownicles-sub006/internal/tracing"
	"github.com/Crownicles/Crownicles-sub006/pkg/websocket"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const serviceName = "crownicles"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "crownicles: %v\n", err)
		os.Exit(1)
	}
}

func newRandom(seed int64) (random.Source, error) {
	if seed != 0 {
		return random.New(seed), nil
	}
	return random.NewFromCrypto()
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	handlers.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName: serviceName,
		Environment: cfg.AppEnv,
		Exporter:    cfg.TracesExporter,
		Sampler:     cfg.TracesSampler,
		SamplerArg:  cfg.TracesSamplerArg,
		PrettyPrint: cfg.TracesPretty,
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	db, err := database.OpenAndMigrate(ctx, cfg.DatabaseDriver, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("db open/migrate: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("db close", zap.Error(err))
		}
	}()

	rnd, err := newRandom(cfg.RandomSeed)
	if err != nil {
		return fmt.Errorf("random source: %w", err)
	}
	d, err := dispatch.New(db, dispatch.Options{
		Logger:          log,
		Rand:            rnd,
		MaxMissionSlots: cfg.MaxMissionSlots,
		Language:        i18n.ResolveTag(cfg.DefaultLanguage, i18n.Default()),
	})
	if err != nil {
		return fmt.Errorf("dispatcher: %w", err)
	}

	hubRef := websocket.NewHubRef(websocket.NewHub(log.Named("ws")))
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hubRef.Supervise(ctx, log.Named("ws"))
	}()

	handlers.SetWebSocketOriginPolicy(!cfg.IsProduction(), cfg.DevWebSocketsAllowAll, cfg.WSAllowedOrigins)
	handlers.SetHubProvider(hubRef.Get)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.DevCORS(cfg))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := r.Group("/api")
	handlers.RegisterAuthRoutes(api, db, cfg)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(cfg))
	handlers.RegisterGameRoutes(protected, db, d)

	// The websocket authenticates itself: cookie, bearer header, or ?token= when enabled.
	r.GET("/ws", handlers.WebSocketHandler(hubRef.Get, d, cfg))

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case serveErr = <-errCh:
		log.Error("server error", zap.Error(serveErr))
	}
	stop()

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Warn("server shutdown", zap.Error(err))
	}
	<-hubDone
	return serveErr
}
