package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/reservations-latency-demo/internal/config"
	"github.com/Sternrassler/reservations-latency-demo/pkg/backend"
	"github.com/Sternrassler/reservations-latency-demo/pkg/httpmetrics"
	"github.com/Sternrassler/reservations-latency-demo/pkg/logging"
	"github.com/Sternrassler/reservations-latency-demo/pkg/metrics"
	"github.com/Sternrassler/reservations-latency-demo/pkg/pathnorm"
	"github.com/Sternrassler/reservations-latency-demo/pkg/reservations"
	"github.com/Sternrassler/reservations-latency-demo/pkg/synthetic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const upBody = "I am running"

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Setup(logging.DefaultConfig())
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// run connects to Redis, serves HTTP and blocks until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.NewLogger(logging.ComponentServer)

	redisClient := redis.NewClient(&redis.Options{
		Addr:       cfg.RedisAddr(),
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: -1, // one attempt per call
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr(), err)
	}
	logger.Info().Str("addr", cfg.RedisAddr()).Msg("Connected to Redis")

	registry, err := metrics.New(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	svc := reservations.NewService(
		backend.NewInstrumented(
			backend.NewRedisStore(redisClient),
			registry,
			logging.NewLogger(logging.ComponentBackend),
		),
		logging.NewLogger(logging.ComponentReservations),
		reservations.WithFetcher(reservations.NewSimulatedFetcher(cfg.Fetch.MinDelay, cfg.Fetch.MaxDelay)),
	)

	srv := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      newMux(registry, svc, synthetic.NewGenerator()),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("Starting reservations server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newMux builds the route table. Every route except /metrics is
// instrumented.
func newMux(registry *metrics.Registry, svc *reservations.Service, gen *synthetic.Generator) *http.ServeMux {
	mw := httpmetrics.New(registry, pathnorm.Default(), logging.NewLogger(logging.ComponentHTTP))

	mux := http.NewServeMux()
	mux.Handle("GET /reservations/{user_id}", mw.Wrap(reservations.Handler(svc)))
	mux.Handle("GET /synthetic", mw.Wrap(gen.Handler()))
	mux.Handle("GET /{$}", mw.WrapHandler(http.HandlerFunc(upHandler)))
	mux.Handle("GET /up", mw.WrapHandler(http.HandlerFunc(upHandler)))
	mux.Handle("GET /metrics", registry.Handler())

	return mux
}

func upHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, upBody)
}
