package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"

	"tokostore/internal/config"
	"tokostore/internal/database"
	"tokostore/internal/handlers"
	"tokostore/internal/middleware"
	"tokostore/internal/repositories"
	"tokostore/internal/services"
	"tokostore/pkg/logger"
	"tokostore/pkg/rabbitmq"
)

func main() {
	cfg := config.MustLoad()

	log := logger.MustNew(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.App.Environment == "development",
	})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("failed to open database", "driver", cfg.Database.Driver, "error", err)
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", "error", err)
	}

	// --- RabbitMQ (optional) ---
	// publisher stays a nil interface when the broker is disabled.
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQ.Enabled {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
		}, log)
		if err != nil {
			log.Fatal("failed to initialize RabbitMQ client", "error", err)
		}
		defer func() { _ = mqClient.Close() }()
		publisher = mqClient
	}

	app, productService := newApp(db, publisher, cfg, log)

	if mqClient != nil {
		consumer := handlers.NewStockConsumer(productService, log)
		if err := mqClient.Consume(ctx, cfg.RabbitMQ.StockQueue, consumer.Handle); err != nil {
			log.Fatal("failed to start stock consumer", "queue", cfg.RabbitMQ.StockQueue, "error", err)
		}
	}

	go func() {
		log.Info("starting server", "address", cfg.Server.Address)
		if err := app.Listen(cfg.Server.Address); err != nil {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("server gracefully stopped")
}

// newApp wires repositories, services and handlers into a fiber app.
func newApp(db *gorm.DB, publisher services.EventPublisher, cfg *config.Config, log *logger.Logger) (*fiber.App, *services.ProductService) {
	productRepo := repositories.NewProductsRepository(repositories.NewGORMProductStore(db), log)
	orderRepo := repositories.NewGORMOrderRepository(db)

	productService := services.NewProductService(productRepo, log)
	orderService := services.NewOrderService(orderRepo, productRepo, publisher, cfg.RabbitMQ.Exchange, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))

	apiV1 := app.Group("/api/v1")
	handlers.NewProductHandler(productService, log).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orderService, log).RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		code := fiber.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Context()) != nil {
			status = "unhealthy"
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"rabbitmq": publisher != nil,
		})
	})

	return app, productService
}
