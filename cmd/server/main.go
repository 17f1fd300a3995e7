package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"supplyhub/internal/auth"
	"supplyhub/internal/commons"
	"supplyhub/internal/infrastructure/kafka"
	"supplyhub/internal/infrastructure/logger"
	"supplyhub/internal/infrastructure/mysql"
	"supplyhub/internal/infrastructure/redis"
	"supplyhub/internal/infrastructure/telemetry"
	"supplyhub/internal/inventory"
	"supplyhub/internal/notification"
	"supplyhub/internal/order"
	"supplyhub/internal/order/usecase"
	"supplyhub/internal/payment"
	"supplyhub/internal/product"
	"supplyhub/internal/server"
	"supplyhub/internal/stock"
	"supplyhub/internal/summary"
)

func main() {
	cfg, err := commons.LoadConfig(".env")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.ServiceName)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	tp, shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.ServiceName, cfg.Telemetry.ExporterEndpoint)
	if err != nil {
		zapLogger.Fatal("setting up tracing", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(registry)

	db, err := mysql.NewConnection(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if cfg.Database.Migrate {
		if err := mysql.Migrate(db, zapLogger); err != nil {
			zapLogger.Fatal("migrating database", zap.Error(err))
		}
	}

	redisClient, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		zapLogger.Warn("redis unavailable, running without cache and payment guard", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var notifier notification.Notifier = notification.NewLogNotifier(zapLogger)
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka, cfg.ServiceName, tp)
		if err != nil {
			zapLogger.Fatal("creating kafka producer", zap.Error(err))
		}
		defer producer.Close()
		notifier = notification.NewKafkaNotifier(producer)
	}
	dispatcher := notification.NewDispatcher(notifier, cfg.Notification.QueueSize, cfg.Notification.Workers, zapLogger, metrics)
	dispatcher.Start()

	var guard usecase.PaymentGuard
	if redisClient != nil {
		guard = payment.NewRedisGuard(redisClient, cfg.Order.PaymentGuardTTL)
	}

	reports := summary.NewReportCache(redisClient, cfg.Redis.SummaryCacheTTL)

	tx := mysql.NewTransactor(db, cfg.Order.ReservationTxTimeout)
	ledger := stock.NewMySQLLedger()
	inventoryModule := inventory.NewModule(db, tx, zapLogger, metrics)

	handlers := server.Handlers{
		Orders: order.NewModule(cfg, order.Dependencies{
			DB:        db,
			Tx:        tx,
			Ledger:    ledger,
			Inventory: inventoryModule.Service,
			Guard:     guard,
			Queue:     dispatcher,
			Reports:   reports,
			Logger:    zapLogger,
			Metrics:   metrics,
		}),
		Inventory: inventoryModule.Controller,
		Summary:   summary.NewModule(db, reports, zapLogger, metrics),
		Products:  product.NewModule(db, tx, ledger, reports, zapLogger, metrics),
	}

	router := server.NewRouter(handlers, auth.NewHeaderAuthenticator(), metrics, registry, zapLogger)
	srv := server.New(cfg.Server.Port, router, zapLogger)
	grpcSrv := server.NewGRPC(cfg.Server.GRPCPort, cfg.ServiceName, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()
	go func() {
		if err := grpcSrv.Start(); err != nil {
			zapLogger.Fatal("grpc server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server shutdown failed", zap.Error(err))
	}
	grpcSrv.Shutdown()

	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		zapLogger.Warn("notification queue not drained", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zapLogger.Warn("tracer shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
