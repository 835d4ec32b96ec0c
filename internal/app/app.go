package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"github.com/tecsup/order-svc/internal/clients"
	"github.com/tecsup/order-svc/internal/dal/postgres"
	"github.com/tecsup/order-svc/internal/dal/rabbitmq"
	outboxrepo "github.com/tecsup/order-svc/internal/dal/repositories/outbox/postgres"
	"github.com/tecsup/order-svc/internal/metrics"
	"github.com/tecsup/order-svc/internal/otel"
	"github.com/tecsup/order-svc/internal/service/models/outbox"
	"github.com/tecsup/order-svc/internal/service/services/orderitemsvc"
	"github.com/tecsup/order-svc/internal/service/services/ordersvc"
	httptransport "github.com/tecsup/order-svc/internal/transport/http"
	outboxworker "github.com/tecsup/order-svc/internal/worker/outbox"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	outboxWorker   *outboxworker.Worker
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()

	postgresClient := postgres.MustNewClient()

	rabbitClient := rabbitmq.MustNewClient()
	if _, err := rabbitClient.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    outbox.OrderCreatedQueue,
		Durable: true,
	}); err != nil {
		panic("failed to declare order events queue: " + err.Error())
	}

	userClient := clients.NewHTTPUserClient(clientConfig("services.user"))
	productClient := clients.NewHTTPProductClient(clientConfig("services.product"))

	itemSvc := orderitemsvc.MustNewOrderItemService(
		orderitemsvc.WithProductClient(productClient),
	)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithUserClient(userClient),
		ordersvc.WithItemService(itemSvc),
	)

	outboxWorker := outboxworker.NewWorker(
		outboxrepo.NewOutboxRepository(postgresClient.Pool()),
		rabbitClient,
	)

	serverMetrics := metrics.NewServerMetrics("order_svc")

	transport := httptransport.NewHTTPTransport(orderSvc, serverMetrics)
	transport.RegisterRoutes()

	return &App{
		orderSvc:       orderSvc,
		transport:      transport,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		outboxWorker:   outboxWorker,
		otelController: otelController,
	}
}

func clientConfig(key string) clients.Config {
	return clients.Config{
		BaseURL:          viper.GetString(key + ".base_url"),
		Timeout:          time.Duration(viper.GetInt(key+".timeout_seconds")) * time.Second,
		BreakerThreshold: viper.GetUint32(key + ".breaker.failure_threshold"),
		BreakerCooldown:  time.Duration(viper.GetInt(key+".breaker.cooldown_seconds")) * time.Second,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go a.outboxWorker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	cancelWorker()

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Trace provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
