package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/howl/internal/config"
	"github.com/davidbz/howl/internal/domain"
	"github.com/davidbz/howl/internal/http"
	"github.com/davidbz/howl/internal/http/middleware"
	"github.com/davidbz/howl/internal/observability"
	"github.com/davidbz/howl/internal/provider/echo"
	"github.com/davidbz/howl/internal/provider/openai"
	"github.com/davidbz/howl/internal/ratelimit"
	"github.com/davidbz/howl/internal/relay"
	"github.com/davidbz/howl/internal/upload"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *http.Server, uploads *upload.Store) {
		uploads.StartJanitor(context.Background())

		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}

	// Upstream completer. Constructed here and passed down explicitly; the
	// echo provider keeps local runs working without credentials.
	if err := container.Provide(func(cfg *openai.Config, logger *zap.Logger) (domain.Completer, error) {
		if cfg.APIKey == "" {
			logger.Warn("OPENAI_API_KEY not set, falling back to echo provider")
			return echo.NewProvider(), nil
		}

		return openai.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide completer: %v", err)
	}

	// Admission counter store: shared Redis store when configured, bounded
	// in-memory store otherwise.
	if err := container.Provide(func(cfg *config.RateLimitConfig, logger *zap.Logger) (ratelimit.Store, error) {
		if cfg.RedisAddr == "" {
			return ratelimit.NewLRUStore(cfg.Capacity)
		}

		store := ratelimit.NewRedisStore(cfg.RedisAddr)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return nil, err
		}

		logger.Info("using shared rate limit store", zap.String("addr", cfg.RedisAddr))
		return store, nil
	}); err != nil {
		log.Fatalf("Failed to provide rate limit store: %v", err)
	}

	// Stream padding
	if err := container.Provide(relay.NewPadding); err != nil {
		log.Fatalf("Failed to provide stream padding: %v", err)
	}

	// Uploads
	if err := container.Provide(upload.NewStore); err != nil {
		log.Fatalf("Failed to provide upload store: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}
