package handlers

import (
	"fmt"
	"log"

	"storefront/internal/services"
	"storefront/internal/views"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders and invoices.
type OrderHandler struct {
	orders    *services.OrderService
	invoices  *services.InvoiceService
	presenter views.Presenter
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *services.OrderService, invoices *services.InvoiceService, presenter views.Presenter) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		invoices:  invoices,
		presenter: presenter,
	}
}

// RegisterRoutes registers the order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/create-order", h.HandlePlaceOrder)
	router.Get("/orders", h.HandleGetOrders)
	router.Post("/orders/:orderId/delete", h.HandleDeleteOrder)
	router.Delete("/orders/:orderId", h.HandleDeleteOrder)
	router.Get("/orders/:orderId/invoice", h.HandleGetInvoice)
}

// HandlePlaceOrder turns the cart into an order and renders the order list.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	order, err := h.orders.PlaceOrder(c.UserContext(), user)
	if err != nil {
		log.Printf("Error placing order for user %s: %v", user.ID, err)
		return err
	}
	log.Printf("Order %s placed by user %s", order.ID, user.ID)

	list, err := h.orders.ListOrders(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	c.Status(fiber.StatusCreated)
	return h.presentOrders(c, list)
}

// HandleGetOrders renders the user's orders with their grand total.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	list, err := h.orders.ListOrders(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return h.presentOrders(c, list)
}

// HandleDeleteOrder deletes one of the user's orders and renders the rest.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	orderID := c.Params("orderId")
	list, err := h.orders.DeleteOrder(c.UserContext(), orderID, user.ID)
	if err != nil {
		log.Printf("Error deleting order %s: %v", orderID, err)
		return err
	}
	return h.presentOrders(c, list)
}

// HandleGetInvoice streams the PDF invoice of an order.
func (h *OrderHandler) HandleGetInvoice(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	orderID := c.Params("orderId")
	if err := h.invoices.Render(c.UserContext(), orderID, user.ID, c); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", services.InvoiceName(orderID)))
	return nil
}

func (h *OrderHandler) presentOrders(c *fiber.Ctx, list *services.OrderList) error {
	return h.presenter.Present(c, "shop/orders", views.View{
		PageTitle: "Your Orders",
		Path:      "/orders",
		Data:      list,
	})
}
