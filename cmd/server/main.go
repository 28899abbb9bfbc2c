package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"golang.org/x/sync/errgroup"

	"train-booking-system/internal/api"
	"train-booking-system/internal/booking"
	"train-booking-system/internal/config"
	"train-booking-system/internal/database"
	"train-booking-system/internal/events"
	"train-booking-system/internal/logging"
	"train-booking-system/internal/metrics"
	"train-booking-system/internal/payment"
	"train-booking-system/internal/storage"
	"train-booking-system/internal/temporal/activities"
	"train-booking-system/internal/temporal/workflows"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("Server exited with error")
		os.Exit(1)
	}
	logger.Info("Server exited")
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	bus := events.NewBus(logger)
	defer bus.Close()

	sys := booking.New(ctx, booking.Options{
		Store:     store,
		Decider:   payment.NewRandomDecider(cfg.PaymentFailureRate, rand.NewSource(time.Now().UnixNano())),
		Latency:   booking.DefaultLatency().Scale(cfg.LatencyScale),
		Publisher: bus,
		Metrics:   metrics.New(reg),
	}, logger)

	var temporalClient client.Client
	if cfg.PaymentMode == config.PaymentTemporal {
		temporalClient, err = client.Dial(client.Options{
			HostPort: cfg.TemporalAddress,
			Logger:   logging.NewTemporalLogger(logger),
		})
		if err != nil {
			return fmt.Errorf("failed to create Temporal client: %w", err)
		}
		defer temporalClient.Close()
		logger.WithField("address", cfg.TemporalAddress).Info("Connected to Temporal")

		// The worker runs in-process so activities act on the same state as the API.
		w := worker.New(temporalClient, workflows.TaskQueue, worker.Options{})
		w.RegisterWorkflow(workflows.PaymentWorkflow)
		w.RegisterWorkflow(workflows.CancellationWorkflow)
		w.RegisterActivity(activities.NewOrderActivities(sys))
		if err := w.Start(); err != nil {
			return fmt.Errorf("failed to start worker: %w", err)
		}
		defer w.Stop()
		logger.WithField("taskQueue", workflows.TaskQueue).Info("Worker started")
	}

	handler := api.NewHandler(sys, temporalClient, cfg.PaymentTimeout, logger)
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      api.NewRouter(handler, reg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.PaymentTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return events.NewNotifier(bus, logger).Run(gctx)
	})

	g.Go(func() error {
		logger.WithFields(logrus.Fields{
			"port":         cfg.ServerPort,
			"storage":      cfg.StorageDriver,
			"payment_mode": cfg.PaymentMode,
		}).Info("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (storage.Store, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return storage.NewMemory(), func() {}, nil

	case config.StorageMySQL:
		db, err := database.NewDB(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to prepare schema: %w", err)
		}
		logger.Info("Connected to database")
		return db, func() { db.Close() }, nil

	case config.StorageRedis:
		rdb, err := storage.DialRedis(ctx, cfg.RedisAddr, "booking:")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.WithField("addr", cfg.RedisAddr).Info("Connected to Redis")
		return rdb, func() { rdb.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
