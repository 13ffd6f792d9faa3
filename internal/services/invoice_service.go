package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/invoice"
	"storefront/pkg/storage"

	"golang.org/x/sync/errgroup"
)

// InvoiceName is the durable file name of an order's invoice.
func InvoiceName(orderID string) string {
	return "invoice-" + orderID + ".pdf"
}

// InvoiceService renders order invoices and keeps a copy in durable storage.
type InvoiceService struct {
	orderRepo repositories.OrderRepository
	store     storage.Store
	opts      []invoice.Option
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(orderRepo repositories.OrderRepository, store storage.Store, opts ...invoice.Option) *InvoiceService {
	return &InvoiceService{
		orderRepo: orderRepo,
		store:     store,
		opts:      opts,
	}
}

// Render writes the invoice of orderID to w and to durable storage.
//
// Nothing is written anywhere unless the order exists and belongs to userID.
// The PDF is produced once, then both sinks receive the same bytes
// concurrently. The storage copy is best-effort: its failure is logged and
// never affects w. It also outlives ctx cancellation, so a client that
// disconnects mid-download still leaves a complete file behind. The returned
// error reports only what happened to w.
func (s *InvoiceService) Render(ctx context.Context, orderID, userID string, w io.Writer) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return storeError("get order "+orderID, err)
	}
	if order.User.UserID != userID {
		return fmt.Errorf("invoice for order %s: %w", orderID, ErrUnauthorized)
	}

	data, err := s.build(order)
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.Go(func() error {
		if err := s.persist(context.WithoutCancel(ctx), order.ID, data); err != nil {
			log.Printf("Warning: invoice for order %s not stored: %v", order.ID, err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to stream invoice for order %s: %w", order.ID, err)
		}
		return nil
	})
	return g.Wait()
}

// Prerender writes only the durable copy of an order's invoice.
func (s *InvoiceService) Prerender(ctx context.Context, orderID string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return storeError("get order "+orderID, err)
	}
	data, err := s.build(order)
	if err != nil {
		return err
	}
	return s.persist(ctx, order.ID, data)
}

func (s *InvoiceService) build(order *models.Order) ([]byte, error) {
	var buf bytes.Buffer
	if err := invoice.Render(&buf, InvoiceDocument(order), s.opts...); err != nil {
		return nil, fmt.Errorf("order %s: %w", order.ID, err)
	}
	return buf.Bytes(), nil
}

func (s *InvoiceService) persist(ctx context.Context, orderID string, data []byte) error {
	f, err := s.store.Create(ctx, InvoiceName(orderID))
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", InvoiceName(orderID), err)
	}
	return f.Close()
}

// InvoiceDocument maps an order onto invoice lines, keeping product order.
func InvoiceDocument(order *models.Order) invoice.Document {
	lines := make([]invoice.Line, 0, len(order.Products))
	for _, p := range order.Products {
		lines = append(lines, invoice.Line{
			Title:     p.Product.Title,
			Quantity:  p.Quantity,
			UnitPrice: p.Product.Price,
		})
	}
	return invoice.Document{Lines: lines, IssuedAt: order.CreatedAt}
}
