package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/rabbitmq"

	"github.com/shopspring/decimal"
)

// EventPublisher publishes order lifecycle events. *rabbitmq.Client
// implements it.
type EventPublisher interface {
	PublishOrderEvent(event rabbitmq.OrderEvent) error
}

// OrderList is a user's orders with the grand total across all of them.
type OrderList struct {
	Orders     []models.Order  `json:"orders"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepository
	carts     *CartService
	publisher EventPublisher // optional
	now       func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, userRepo repositories.UserRepository, carts *CartService, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		carts:     carts,
		publisher: publisher,
		now:       time.Now,
	}
}

// PlaceOrder turns the user's cart into an order and empties the cart.
//
// Products are copied by value, so later catalog edits never change the
// order. When the order store implements repositories.CheckoutRepository the
// insert and the cart clear share one transaction. Otherwise they are two
// writes: if clearing fails the order stands and the cart keeps its items.
func (s *OrderService) PlaceOrder(ctx context.Context, user *models.User) (*models.Order, error) {
	lines, err := s.carts.populate(ctx, user.Cart)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	products := make([]models.OrderProduct, 0, len(lines))
	for _, l := range lines {
		products = append(products, models.OrderProduct{
			Quantity: l.Quantity,
			Product:  l.Product.Snapshot(),
		})
	}
	order := &models.Order{
		ID:        repositories.NewID(),
		User:      models.OrderUser{UserID: user.ID, Email: user.Email},
		Products:  products,
		CreatedAt: s.now(),
	}

	if checkout, ok := s.orderRepo.(repositories.CheckoutRepository); ok {
		if err := checkout.CreateAndClearCart(ctx, order); err != nil {
			return nil, storeError("place order", err)
		}
		user.Cart = models.Cart{}
	} else {
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return nil, storeError("create order", err)
		}
		if err := s.carts.ClearCart(ctx, user); err != nil {
			log.Printf("Warning: order %s saved but cart of user %s was not cleared: %v", order.ID, user.ID, err)
		}
	}

	s.publish(rabbitmq.OrderPlaced, order)
	return order, nil
}

// ListOrders returns the user's orders, oldest first, and their combined total.
func (s *OrderService) ListOrders(ctx context.Context, userID string) (*OrderList, error) {
	orders, err := s.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeError("list orders", err)
	}

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Total())
	}
	return &OrderList{Orders: orders, TotalPrice: total}, nil
}

// GetOrderByID retrieves a single order owned by userID.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID, userID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, storeError("get order "+orderID, err)
	}
	if order.User.UserID != userID {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrUnauthorized)
	}
	return order, nil
}

// DeleteOrder removes an order owned by userID and returns the remaining
// orders of that user.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID, userID string) (*OrderList, error) {
	order, err := s.GetOrderByID(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return nil, storeError("delete order "+orderID, err)
	}
	s.publish(rabbitmq.OrderDeleted, order)
	return s.ListOrders(ctx, userID)
}

func (s *OrderService) publish(eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := rabbitmq.OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		UserID:     order.User.UserID,
		Total:      order.Total().StringFixed(2),
		OccurredAt: s.now(),
	}
	if err := s.publisher.PublishOrderEvent(event); err != nil {
		log.Printf("Warning: failed to publish %s for order %s: %v", eventType, order.ID, err)
	}
}
