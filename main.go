package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/server"
	"storefront/internal/services"
	"storefront/internal/views"
	"storefront/pkg/rabbitmq"
	"storefront/pkg/storage"
)

func main() {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, cleanup, err := newApp(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer cleanup()

	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

type repositorySet struct {
	products repositories.ProductRepository
	users    repositories.UserRepository
	orders   repositories.OrderRepository
	close    func()
}

// newApp wires repositories, services and routes from cfg. The returned
// cleanup closes every connection that was opened.
func newApp(ctx context.Context, cfg *config.Config) (*fiber.App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return nil, cleanup, err
	}
	if repos.close != nil {
		closers = append(closers, repos.close)
	}

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closers = append(closers, func() { redisClient.Close() })
		repos.products = cache.NewProductRepository(repos.products, cache.NewRedisCache(redisClient, cfg.ProductCacheTTL))
		log.Printf("Product cache enabled at %s", cfg.RedisAddr)
	}

	store, err := openInvoiceStore(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: order events disabled: %v", err)
		} else {
			publisher = mqClient
			closers = append(closers, func() { mqClient.Close() })
		}
	}

	productService := services.NewProductService(repos.products, cfg.ItemsPerPage)
	cartService := services.NewCartService(repos.users, repos.products)
	orderService := services.NewOrderService(repos.orders, repos.users, cartService, publisher)
	invoiceService := services.NewInvoiceService(repos.orders, store)
	authService := services.NewAuthService(repos.users, cfg.JWTSecret)

	if mqClient != nil {
		if err := mqClient.ConsumeOrderEvents(invoiceWarmer(invoiceService)); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	if cfg.SeedProducts {
		seedProducts(ctx, productService)
	}

	deps := server.Dependencies{
		Products:   productService,
		Carts:      cartService,
		Orders:     orderService,
		Invoices:   invoiceService,
		Auth:       authService,
		RequestLog: true,
	}
	if cfg.ViewsDir != "" {
		deps.Views = views.NewEngine(cfg.ViewsDir)
	}
	return server.New(deps), cleanup, nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositorySet, error) {
	switch cfg.DatabaseDriver {
	case "memory":
		return &repositorySet{
			products: repositories.NewMemoryProductRepository(),
			users:    repositories.NewMemoryUserRepository(),
			orders:   repositories.NewMemoryOrderRepository(),
		}, nil
	case "mongo":
		db, err := repositories.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, err
		}
		products := repositories.NewMongoProductRepository(db)
		users := repositories.NewMongoUserRepository(db)
		orders := repositories.NewMongoOrderRepository(db)
		closeClient := func() {
			if err := db.Client().Disconnect(context.Background()); err != nil {
				log.Printf("Error disconnecting from MongoDB: %v", err)
			}
		}
		for _, idx := range []interface{ CreateIndexes(context.Context) error }{products, users, orders} {
			if err := idx.CreateIndexes(ctx); err != nil {
				closeClient()
				return nil, err
			}
		}
		return &repositorySet{products: products, users: users, orders: orders, close: closeClient}, nil
	default:
		db, err := repositories.OpenGORM(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		set := &repositorySet{
			products: repositories.NewGORMProductRepository(db),
			users:    repositories.NewGORMUserRepository(db),
			orders:   repositories.NewGORMOrderRepository(db),
		}
		if sqlDB, err := db.DB(); err == nil {
			set.close = func() { sqlDB.Close() }
		}
		return set, nil
	}
}

func openInvoiceStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.InvoiceStorage == "s3" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.RetryMaxAttempts = 3
		})
		return storage.NewS3Store(client, cfg.InvoiceBucket, cfg.InvoicePrefix, "application/pdf"), nil
	}

	store, err := storage.NewAferoStore(afero.NewOsFs(), cfg.InvoiceDir)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// invoiceWarmer writes the durable invoice copy of every newly placed order,
// so the stored file exists even if the buyer never downloads it. Orders that
// are gone by the time the event arrives are skipped.
func invoiceWarmer(invoices *services.InvoiceService) func(rabbitmq.OrderEvent) error {
	return func(event rabbitmq.OrderEvent) error {
		if event.Type != rabbitmq.OrderPlaced {
			log.Printf("Received %s for order %s", event.Type, event.OrderID)
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := invoices.Prerender(ctx, event.OrderID)
		if errors.Is(err, services.ErrNotFound) {
			log.Printf("Skipping invoice for order %s: %v", event.OrderID, err)
			return nil
		}
		return err
	}
}

// seedProducts fills an empty catalog with a few demo products.
func seedProducts(ctx context.Context, productService *services.ProductService) {
	page, err := productService.ListProducts(ctx, 1)
	if err != nil {
		log.Printf("Skipping product seed: %v", err)
		return
	}
	if page.TotalItems > 0 {
		return
	}

	products := []models.Product{
		{Title: "Laptop", Description: "High performance laptop", Price: decimal.RequireFromString("1200.00")},
		{Title: "Keyboard", Description: "Mechanical keyboard", Price: decimal.RequireFromString("75.00")},
		{Title: "Mouse", Description: "Ergonomic wireless mouse", Price: decimal.RequireFromString("25.00")},
	}
	for i := range products {
		if err := productService.CreateProduct(ctx, &products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Title, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Title, products[i].ID)
		}
	}
}
