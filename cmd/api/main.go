// Package main is the entry point for the InstaStay booking API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/instastay/booking-api/internal/catalog"
	"github.com/instastay/booking-api/internal/config"
	"github.com/instastay/booking-api/internal/handler"
	"github.com/instastay/booking-api/internal/identity"
	"github.com/instastay/booking-api/internal/middleware"
	"github.com/instastay/booking-api/internal/offer"
	"github.com/instastay/booking-api/internal/payment"
	"github.com/instastay/booking-api/internal/pricing"
	"github.com/instastay/booking-api/internal/repo"
	"github.com/instastay/booking-api/internal/service"
	"github.com/instastay/booking-api/migrations"
)

// maxBodyBytes caps request bodies at 1 MiB. Booking payloads are tiny;
// anything larger is abuse.
const maxBodyBytes = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic. The container
	// orchestrator may start the database a moment after us, so retry with
	// fibonacci backoff instead of failing on the first ping.
	backoff := retry.WithMaxDuration(30*time.Second, retry.NewFibonacci(500*time.Millisecond))
	err = retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("database not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Migrations -------------------------------------------------------
	// Goose needs database/sql, so borrow a database/sql view of the pool.
	if err := runMigrations(pool); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// --- Dependencies -----------------------------------------------------
	hotelRepo := repo.NewHotelRepo(pool)
	bookingRepo := repo.NewBookingRepo(pool)
	reviewRepo := repo.NewReviewRepo(pool)
	redemptionRepo := repo.NewRedemptionRepo(pool)

	hotelCatalog := catalog.NewCachedCatalog(hotelRepo, cfg.CatalogCacheTTL)
	offerResolver := offer.NewResolver(offer.DefaultRegistry(), redemptionRepo)
	pricer := pricing.NewCalculator(cfg.TaxRatePercent)

	reservations := service.NewReservationService(
		hotelRepo,
		bookingRepo,
		reviewRepo,
		offerResolver,
		&payment.MockGateway{},
		pricer,
		service.ReservationConfig{
			Currency:       cfg.Currency,
			PaymentTimeout: cfg.PaymentTimeout,
		},
	)

	srv := handler.NewServer(reservations, hotelCatalog, offerResolver, identity.ContextProvider{}, pool)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → Logger → Recoverer → CORS →
	// user extraction → body cap. RequestID generates a unique trace ID per
	// request, RealIP sets r.RemoteAddr from proxy headers, SlogLogger writes
	// one structured JSON line per request, and Recoverer turns panics into
	// HTTP 500s instead of crashing the process.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewUserExtractor())
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies any pending schema migrations from the embedded
// filesystem before the server starts serving requests.
func runMigrations(pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}

	results, err := provider.Up(context.Background())
	if err != nil {
		return err
	}
	for _, res := range results {
		slog.Info("migration applied", "source", res.Source.Path)
	}
	return nil
}
