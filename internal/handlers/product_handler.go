package handlers

import (
	"storefront/internal/services"
	"storefront/internal/views"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler serves the catalog pages.
type ProductHandler struct {
	service   *services.ProductService
	presenter views.Presenter
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, presenter views.Presenter) *ProductHandler {
	return &ProductHandler{
		service:   service,
		presenter: presenter,
	}
}

// RegisterRoutes registers the catalog routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleIndex)
	router.Get("/products", h.HandleGetProducts)
	router.Get("/products/:productId", h.HandleGetProduct)
}

// HandleIndex renders one page of the catalog, selected by ?page=.
func (h *ProductHandler) HandleIndex(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	result, err := h.service.ListProducts(c.UserContext(), page)
	if err != nil {
		return err
	}
	return h.presenter.Present(c, "shop/index", views.View{
		PageTitle: "Shop",
		Path:      "/",
		Data:      result,
	})
}

// HandleGetProducts renders the full product list.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return err
	}
	return h.presenter.Present(c, "shop/product-list", views.View{
		PageTitle: "All Products",
		Path:      "/products",
		Data:      products,
	})
}

// HandleGetProduct renders one product.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("productId"))
	if err != nil {
		return err
	}
	return h.presenter.Present(c, "shop/product-detail", views.View{
		PageTitle: product.Title,
		Path:      "/products",
		Data:      product,
	})
}
