package server

import (
	"time"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/services"
	"storefront/internal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// Dependencies are the services behind the HTTP routes.
type Dependencies struct {
	Products *services.ProductService
	Carts    *services.CartService
	Orders   *services.OrderService
	Invoices *services.InvoiceService
	Auth     *services.AuthService

	// Views, when set, renders pages through templates; otherwise pages are
	// JSON.
	Views fiber.Views
	// RequestLog enables the Fiber request logger.
	RequestLog bool
}

// New builds the Fiber app with every storefront route registered.
func New(d Dependencies) *fiber.App {
	var presenter views.Presenter = views.JSONPresenter{}
	if d.Views != nil {
		presenter = views.TemplatePresenter{}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		Views:        d.Views,
	})
	if d.RequestLog {
		app.Use(logger.New())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handlers.NewAuthHandler(d.Auth).RegisterRoutes(app)
	handlers.NewProductHandler(d.Products, presenter).RegisterRoutes(app)

	shop := app.Group("", middleware.AuthRequired(d.Auth))
	handlers.NewCartHandler(d.Carts, presenter).RegisterRoutes(shop)
	handlers.NewOrderHandler(d.Orders, d.Invoices, presenter).RegisterRoutes(shop)

	return app
}
