package services

import (
	"context"
	"errors"
	"log"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
)

// CartLine is a cart item resolved to the current catalog product.
type CartLine struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// CartView is the populated cart shown to the user.
type CartView struct {
	Items      []CartLine      `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CartService manages the cart embedded in each user record.
//
// Cart writes are read-modify-write on the user passed in; two concurrent
// requests for the same user can overwrite each other and lose an increment.
type CartService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(userRepo repositories.UserRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

// AddToCart adds one unit of the product to the user's cart and persists it.
func (s *CartService) AddToCart(ctx context.Context, user *models.User, productID string) (*models.Cart, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, storeError("get product "+productID, err)
	}

	cart := user.Cart.WithProduct(product.ID)
	if err := s.userRepo.UpdateCart(ctx, user.ID, cart); err != nil {
		return nil, storeError("save cart", err)
	}
	user.Cart = cart
	return &cart, nil
}

// RemoveFromCart deletes the product's entry from the cart. Removing a
// product that is not in the cart changes nothing.
func (s *CartService) RemoveFromCart(ctx context.Context, user *models.User, productID string) (*models.Cart, error) {
	cart, removed := user.Cart.Without(productID)
	if !removed {
		current := user.Cart
		return &current, nil
	}

	if err := s.userRepo.UpdateCart(ctx, user.ID, cart); err != nil {
		return nil, storeError("save cart", err)
	}
	user.Cart = cart
	return &cart, nil
}

// ClearCart empties the user's cart.
func (s *CartService) ClearCart(ctx context.Context, user *models.User) error {
	if err := s.userRepo.UpdateCart(ctx, user.ID, models.Cart{}); err != nil {
		return storeError("clear cart", err)
	}
	user.Cart = models.Cart{}
	return nil
}

// GetCart resolves every cart item to its product and totals the cart.
// Items whose product has been removed from the catalog are skipped.
func (s *CartService) GetCart(ctx context.Context, user *models.User) (*CartView, error) {
	lines, err := s.populate(ctx, user.Cart)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return &CartView{Items: lines, TotalPrice: total}, nil
}

func (s *CartService) populate(ctx context.Context, cart models.Cart) ([]CartLine, error) {
	lines := make([]CartLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("Skipping cart item for deleted product %s", item.ProductID)
			continue
		}
		if err != nil {
			return nil, storeError("populate cart", err)
		}
		lines = append(lines, CartLine{Product: *product, Quantity: item.Quantity})
	}
	return lines, nil
}
