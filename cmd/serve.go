package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/tutorly/internal/config"
	"github.com/abhisek/tutorly/internal/logger"
	"github.com/abhisek/tutorly/internal/middleware"
	"github.com/abhisek/tutorly/internal/practice"
	"github.com/abhisek/tutorly/internal/server"
	"github.com/abhisek/tutorly/internal/store"
	"github.com/abhisek/tutorly/internal/tutor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}
		serve(cfg)
		return nil
	},
}

func init() {
	serveCmd.Flags().String("port", "", "Port to listen on (overrides TUTORLY_PORT)")
}

// serve runs the API until SIGINT or SIGTERM. Startup failures are fatal.
func serve(cfg *config.Config) {
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.Port).
		Str("mode", cfg.GinMode).
		Str("version", displayVersion()).
		Msg("Starting tutorly server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer st.Close()

	svc := practice.NewService(st, practice.WithLogger(log))
	if cfg.Seed {
		if _, err := svc.SeedDefaults(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed problems")
		}
	}

	limiter, closeLimiter := newLimiter(ctx, cfg, log)
	defer closeLimiter()

	gin.SetMode(cfg.GinMode)
	r := server.NewRouter(server.Options{
		Practice:       svc,
		Tutor:          tutor.WithLogging(tutor.New(tutor.WithDelay(cfg.TutorDelay)), st.EventRepo(), log),
		Health:         st.Ping,
		Limiter:        limiter,
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            log,
		Version:        displayVersion(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	log.Info().Msg("Server stopped")
}

// newLimiter picks the Redis limiter when redis_url is set, the in-process
// one otherwise, or none when rate limiting is disabled.
func newLimiter(ctx context.Context, cfg *config.Config, log zerolog.Logger) (middleware.Limiter, func()) {
	if cfg.RateLimit == 0 {
		return nil, func() {}
	}

	if cfg.RedisURL != "" {
		rdb, err := connectRedis(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		return middleware.NewRedisLimiter(rdb, cfg.RateLimit, cfg.RateWindow), func() { rdb.Close() }
	}

	ml := middleware.NewMemoryLimiter(cfg.RateLimit, cfg.RateWindow)
	go ml.Run(ctx)
	return ml, func() {}
}

func connectRedis(ctx context.Context, url string, log zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().Str("addr", opts.Addr).Msg("Redis connected")
	return rdb, nil
}
