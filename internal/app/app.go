package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/jpkr-backend/internal/adapter/postgres"
	"github.com/heartmarshall/jpkr-backend/internal/adapter/postgres/example"
	"github.com/heartmarshall/jpkr-backend/internal/adapter/postgres/skill"
	"github.com/heartmarshall/jpkr-backend/internal/adapter/postgres/word"
	"github.com/heartmarshall/jpkr-backend/internal/adapter/storage"
	"github.com/heartmarshall/jpkr-backend/internal/adapter/tokenizer"
	"github.com/heartmarshall/jpkr-backend/internal/auth"
	"github.com/heartmarshall/jpkr-backend/internal/config"
	"github.com/heartmarshall/jpkr-backend/internal/service/feed"
	"github.com/heartmarshall/jpkr-backend/internal/transport/middleware"
	"github.com/heartmarshall/jpkr-backend/internal/transport/rest"
)

// Run is the server entry point. It wires config, database, tokenizer,
// storage and the feed service, then serves HTTP until ctx is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log, os.Stderr)
	logger.Info("starting application",
		slog.String("build", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("feed_strategy", cfg.Feed.Strategy),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	start := time.Now()
	tok, err := tokenizer.New()
	if err != nil {
		return fmt.Errorf("init tokenizer: %w", err)
	}
	logger.Info("tokenizer ready", slog.Duration("took", time.Since(start)))

	var urls interface {
		Resolve(ctx context.Context, key string, ttl time.Duration) (string, error)
		Ping(ctx context.Context) error
	} = storage.Noop{}
	if cfg.Storage.Enabled {
		r, err := storage.NewResolver(cfg.Storage, logger)
		if err != nil {
			return err
		}
		urls = r
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	feedSvc := feed.NewService(
		logger,
		cfg.Feed.ToDomain(),
		word.New(pool),
		example.New(pool),
		skill.New(pool),
		tok,
		urls,
		feed.NewMetrics(reg),
	)

	health := rest.NewHealthHandler(BuildVersion(),
		rest.Check{Name: "database", Target: pool, Required: true},
		rest.Check{Name: "storage", Target: urls},
	)

	handler := newRouter(routerDeps{
		log:       logger,
		cors:      cfg.CORS,
		validator: auth.NewValidator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer),
		health:    health,
		feed:      rest.NewFeedHandler(feedSvc, logger),
		registry:  reg,
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

// serve runs srv until ctx is done, then drains in-flight requests for at
// most shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

type routerDeps struct {
	log       *slog.Logger
	cors      config.CORSConfig
	validator tokenValidator
	health    *rest.HealthHandler
	feed      *rest.FeedHandler
	registry  *prometheus.Registry // nil disables /metrics
}

// newRouter mounts every route behind the middleware chain. Metrics sits
// innermost so it sees the pattern matched by the mux; a nil registry
// turns metrics off entirely.
func newRouter(d routerDeps) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", d.health.Live)
	mux.HandleFunc("GET /ready", d.health.Ready)
	mux.HandleFunc("GET /health", d.health.Health)
	mux.HandleFunc("POST /examples/feed", d.feed.Feed)

	var metrics middleware.Middleware
	if d.registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{Registry: d.registry}))
		metrics = middleware.Metrics(middleware.NewHTTPMetrics(d.registry))
	}

	return middleware.Chain(
		middleware.Recovery(d.log),
		middleware.RequestID,
		middleware.Logger(d.log, "/live", "/ready", "/metrics"),
		middleware.CORS(d.cors),
		middleware.Auth(d.validator),
		metrics,
	)(mux)
}
