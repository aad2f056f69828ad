package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/GatherFlow/EventService/internal/app"
	"github.com/GatherFlow/EventService/internal/clock"
	"github.com/GatherFlow/EventService/internal/config"
	"github.com/GatherFlow/EventService/internal/logger"
	"github.com/GatherFlow/EventService/internal/scheduler"
	"github.com/GatherFlow/EventService/internal/storage/postgres"
	transporthttp "github.com/GatherFlow/EventService/internal/transport/http"
	"github.com/GatherFlow/EventService/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: load .env: %v", err)
	}

	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		zlog.Fatal("db ping", zap.Error(err))
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		zlog.Fatal("apply migrations", zap.Error(err))
	}

	eventRepo := postgres.NewEventRepository(pool)
	eventSvc := app.NewEventService(eventRepo, clock.NewSystem())
	tagRepo := postgres.NewTagRepository(pool)
	tagSvc := app.NewTagService(tagRepo)
	ticketRepo := postgres.NewTicketRepository(pool)
	ticketSvc := app.NewTicketService(ticketRepo, clock.NewSystem())
	stockSvc := app.NewStockService(ticketRepo)

	sched := scheduler.New(cfg.TaskDelay, zlog)
	sched.Register("stock_reconcile", stockSvc.Reconcile)
	schedHandle := sched.Start(context.Background())

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/events", transporthttp.HandleCreateEvent(eventSvc, tagSvc))
	mux.Handle("/events/mine", transporthttp.HandleMyEvents(eventSvc))
	mux.Handle("/events/search", transporthttp.HandleSearchEvents(eventSvc))
	mux.Handle("/events/", transporthttp.HandleEventByID(eventSvc, tagSvc))
	mux.Handle("/tags/suggest", transporthttp.HandleSuggestTags(eventSvc))
	mux.Handle("/event-tickets", transporthttp.HandleEventTickets(ticketSvc))
	mux.Handle("/event-tickets/", transporthttp.HandleEventTicketByID(ticketSvc))
	mux.Handle("/tickets", transporthttp.HandlePurchaseTicket(ticketSvc))
	mux.Handle("/tickets/", transporthttp.HandleRefundTicket(ticketSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), zlog)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	zlog.Info("api listening", zap.String("port", cfg.Port))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("server error", zap.Error(err))
		}
	case <-stopCtx.Done():
		zlog.Info("shutdown signal received, stopping server")
	}

	schedHandle.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zlog.Error("server shutdown error", zap.Error(err))
	}
	zlog.Info("server stopped")
}
