package handlers

import (
	"log"

	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/views"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartRequest is the form or JSON body of the cart mutation routes.
type CartRequest struct {
	ProductID string `json:"productId" form:"productId" validate:"required"`
}

// CartHandler serves the cart of the authenticated user.
type CartHandler struct {
	service   *services.CartService
	presenter views.Presenter
	validate  *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, presenter views.Presenter) *CartHandler {
	return &CartHandler{
		service:   service,
		presenter: presenter,
		validate:  validator.New(),
	}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/cart", h.HandleGetCart)
	router.Post("/cart", h.HandleAddToCart)
	router.Post("/cart-delete-item", h.HandleRemoveFromCart)
}

// HandleGetCart renders the populated cart with its total.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return h.renderCart(c, user)
}

// HandleAddToCart adds one unit of a product and renders the cart.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	req, err := h.parse(c)
	if err != nil {
		return validationFailed(c, err)
	}
	if _, err := h.service.AddToCart(c.UserContext(), user, req.ProductID); err != nil {
		return err
	}
	return h.renderCart(c, user)
}

// HandleRemoveFromCart removes a product's entry and renders the cart.
func (h *CartHandler) HandleRemoveFromCart(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	req, err := h.parse(c)
	if err != nil {
		return validationFailed(c, err)
	}
	if _, err := h.service.RemoveFromCart(c.UserContext(), user, req.ProductID); err != nil {
		return err
	}
	return h.renderCart(c, user)
}

func (h *CartHandler) parse(c *fiber.Ctx) (*CartRequest, error) {
	var req CartRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cart request body: %v", err)
		return nil, err
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *CartHandler) renderCart(c *fiber.Ctx, user *models.User) error {
	cart, err := h.service.GetCart(c.UserContext(), user)
	if err != nil {
		log.Printf("Error loading cart of user %s: %v", user.ID, err)
		return err
	}
	return h.presenter.Present(c, "shop/cart", views.View{
		PageTitle: "Your Cart",
		Path:      "/cart",
		Data:      cart,
	})
}
