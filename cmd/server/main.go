package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"lewis.chat/gateway/common/id"
	"lewis.chat/gateway/common/logger"
	"lewis.chat/gateway/common/otel"
	"lewis.chat/gateway/core/config"
	"lewis.chat/gateway/core/db"
	"lewis.chat/gateway/internal/admission"
	"lewis.chat/gateway/internal/carrier"
	"lewis.chat/gateway/internal/dedupe"
	"lewis.chat/gateway/internal/http/middleware"
	httprouter "lewis.chat/gateway/internal/http/router"
	"lewis.chat/gateway/internal/llm"
	"lewis.chat/gateway/internal/service"
	"lewis.chat/gateway/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "gateway starting", "env", cfg.Env)

	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	deduper := dedupe.NewNoop()
	if cfg.Dedupe.Enabled() {
		redisOpts, err := redis.ParseURL(cfg.Dedupe.RedisURL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		deduper = dedupe.NewRedis(redisClient, cfg.Dedupe.TTL)
		slog.InfoContext(ctx, "redis connected, webhook dedupe enabled", "ttl", cfg.Dedupe.TTL.String())
	} else {
		slog.InfoContext(ctx, "no redis configured, webhook dedupe disabled")
	}

	oracle, err := llm.NewOpenAIOracle(cfg.OpenAI)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create reply oracle", "error", err)
		os.Exit(1)
	}

	gateway, err := carrier.NewTwilioGateway(cfg.Twilio)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create carrier gateway", "error", err)
		os.Exit(1)
	}

	limiter := admission.New(cfg.Admission)

	services := service.NewServices(store.NewStores(database.Pool()), store.NewUnitOfWork(database), oracle, gateway, limiter)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, deduper)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services, deduper dedupe.Deduper) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger
	// logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, deduper)

	return router
}

const banner = `
 _              _
| | _____      _(_)___
| |/ _ \ \ /\ / / / __|
| |  __/\ V  V /| \__ \
|_|\___| \_/\_/ |_|___/  sms gateway
`
