// Package application orchestrates the order workflow: creating, updating,
// cancelling, and shipping orders while keeping product stock consistent.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogdomain "github.com/fstore/fstore-api/internal/domains/catalog/domain"
	"github.com/fstore/fstore-api/internal/domains/orders/domain"
	"github.com/fstore/fstore-api/internal/domains/orders/ports"
)

// Service orchestrates order use cases. Every mutation runs inside one
// atomic unit of work: a validation failure anywhere aborts the whole call
// and nothing is persisted.
type Service struct {
	store ports.Store
	now   func() time.Time
}

// NewService wires the order workflow with its store.
func NewService(store ports.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// ListOrders returns a page of order summaries with resolved members.
func (s *Service) ListOrders(ctx context.Context, page ports.Page) ([]*ports.OrderSummary, error) {
	var summaries []*ports.OrderSummary
	err := s.store.Atomically(ctx, func(tx ports.Tx) error {
		orders, err := tx.Orders().List(ctx, page)
		if err != nil {
			return err
		}
		summaries = make([]*ports.OrderSummary, 0, len(orders))
		for _, order := range orders {
			summaries = append(summaries, &ports.OrderSummary{
				Order:  *order,
				Member: lookupMember(ctx, tx, order.MemberID),
			})
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return summaries, nil
}

// GetOrder loads a single order with member and detail views.
func (s *Service) GetOrder(ctx context.Context, id int64) (*ports.OrderView, error) {
	var view *ports.OrderView
	err := s.store.Atomically(ctx, func(tx ports.Tx) error {
		order, err := tx.Orders().GetByID(ctx, id)
		if err != nil {
			return err
		}
		details := make([]ports.DetailView, 0, len(order.Details))
		for _, detail := range order.Details {
			row := ports.DetailView{
				ProductID: detail.ProductID,
				UnitPrice: detail.UnitPrice,
				Quantity:  detail.Quantity,
				Discount:  detail.Discount,
			}
			if product, err := tx.Products().GetByID(ctx, detail.ProductID); err == nil {
				row.ProductName = product.ProductName
			}
			details = append(details, row)
		}
		view = &ports.OrderView{
			OrderSummary: ports.OrderSummary{Order: *order, Member: lookupMember(ctx, tx, order.MemberID)},
			Details:      details,
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return view, nil
}

// CreateOrder validates the requested line items against live stock, reserves
// stock per item, and creates the order with price snapshots. Stock is
// decremented immediately per item, so a later item in the same request sees
// the already-reduced stock.
func (s *Service) CreateOrder(ctx context.Context, memberID int64, items []ports.LineItem) (*ports.OrderSummary, error) {
	if len(items) == 0 {
		return nil, mapError(domain.ErrEmptyDetails)
	}
	var summary *ports.OrderSummary
	err := s.store.Atomically(ctx, func(tx ports.Tx) error {
		details := make([]domain.OrderDetail, 0, len(items))
		for _, item := range items {
			product, err := s.resolveProduct(ctx, tx, item.ProductID)
			if err != nil {
				return err
			}
			if err := domain.ValidateLineItem(item.Quantity, item.Discount); err != nil {
				return err
			}
			if err := product.Reserve(item.Quantity); err != nil {
				return err
			}
			details = append(details, domain.OrderDetail{
				ProductID: item.ProductID,
				UnitPrice: product.UnitPrice,
				Quantity:  item.Quantity,
				Discount:  item.Discount,
			})
			if err := tx.Products().UpdateStock(ctx, product); err != nil {
				return err
			}
		}
		order := domain.NewOrder(memberID, s.now(), details)
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		summary = &ports.OrderSummary{Order: *order, Member: lookupMember(ctx, tx, order.MemberID)}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return summary, nil
}

// UpdateOrder replaces the order's detail set with the set built from the
// request. A requested product without an existing line is a new reservation
// checked against current stock; a requested product with an existing line is
// a quantity change checked against stock plus the line's old reservation.
// Previous lines absent from the request are dropped without restocking.
func (s *Service) UpdateOrder(ctx context.Context, id int64, items []ports.LineItem) (*ports.OrderSummary, error) {
	var summary *ports.OrderSummary
	err := s.store.Atomically(ctx, func(tx ports.Tx) error {
		order, err := tx.Orders().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrEmptyDetails
		}
		next := make([]domain.OrderDetail, 0, len(items))
		for _, item := range items {
			product, err := s.resolveProduct(ctx, tx, item.ProductID)
			if err != nil {
				return err
			}
			if err := domain.ValidateLineItem(item.Quantity, item.Discount); err != nil {
				return err
			}
			existing := order.DetailByProduct(item.ProductID)
			if existing == nil {
				if err := product.Reserve(item.Quantity); err != nil {
					return err
				}
				next = append(next, domain.OrderDetail{
					OrderID:   order.ID,
					ProductID: item.ProductID,
					UnitPrice: product.UnitPrice,
					Quantity:  item.Quantity,
					Discount:  item.Discount,
				})
			} else {
				// The line's old reservation is given back before checking.
				ceiling := product.UnitsInStock + existing.Quantity
				if item.Quantity > ceiling {
					return fmt.Errorf("%w (%d)", catalogdomain.ErrInsufficientStock, ceiling)
				}
				// Net adjustment: return the old reservation, take the new
				// one, collapsed into a single delta.
				product.AdjustStock(existing.Quantity - item.Quantity)
				existing.Quantity = item.Quantity
				existing.Discount = item.Discount
				next = append(next, *existing)
			}
			if err := tx.Products().UpdateStock(ctx, product); err != nil {
				return err
			}
		}
		order.Details = next
		if err := tx.Orders().Update(ctx, order); err != nil {
			return err
		}
		summary = &ports.OrderSummary{Order: *order, Member: lookupMember(ctx, tx, order.MemberID)}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return summary, nil
}

// CancelOrder restocks every line whose product still exists, then deletes
// the order. Lines whose product is gone are skipped.
func (s *Service) CancelOrder(ctx context.Context, id int64) (*ports.OrderSummary, error) {
	var summary *ports.OrderSummary
	err := s.store.Atomically(ctx, func(tx ports.Tx) error {
		order, err := tx.Orders().GetByID(ctx, id)
		if err != nil {
			return err
		}
		for _, detail := range order.Details {
			product, err := tx.Products().GetByID(ctx, detail.ProductID)
			if err != nil {
				if errors.Is(err, ports.ErrProductNotFound) {
					continue
				}
				return err
			}
			product.Restock(detail.Quantity)
			if err := tx.Products().UpdateStock(ctx, product); err != nil {
				return err
			}
		}
		if err := tx.Orders().Delete(ctx, order.ID); err != nil {
			return err
		}
		summary = &ports.OrderSummary{Order: *order, Member: lookupMember(ctx, tx, order.MemberID)}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return summary, nil
}

// DeleteOrder removes the order and its details without restocking.
func (s *Service) DeleteOrder(ctx context.Context, id int64) (*ports.OrderSummary, error) {
	var summary *ports.OrderSummary
	err := s.store.Atomically(ctx, func(tx ports.Tx) error {
		order, err := tx.Orders().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Orders().Delete(ctx, order.ID); err != nil {
			return err
		}
		summary = &ports.OrderSummary{Order: *order, Member: lookupMember(ctx, tx, order.MemberID)}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return summary, nil
}

// ShipOrder sets the shipped date exactly once.
func (s *Service) ShipOrder(ctx context.Context, id int64) (*ports.OrderSummary, error) {
	var summary *ports.OrderSummary
	err := s.store.Atomically(ctx, func(tx ports.Tx) error {
		order, err := tx.Orders().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Ship(s.now()); err != nil {
			return err
		}
		if err := tx.Orders().UpdateShippedDate(ctx, order.ID, *order.ShippedDate); err != nil {
			return err
		}
		summary = &ports.OrderSummary{Order: *order, Member: lookupMember(ctx, tx, order.MemberID)}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return summary, nil
}

func (s *Service) resolveProduct(ctx context.Context, tx ports.Tx, productID int64) (*catalogdomain.Product, error) {
	product, err := tx.Products().GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, ports.ErrProductNotFound) {
			return nil, errProductMissing(productID)
		}
		return nil, err
	}
	return product, nil
}

func lookupMember(ctx context.Context, tx ports.Tx, memberID int64) *domain.Member {
	member, err := tx.Members().GetByID(ctx, memberID)
	if err != nil {
		return nil
	}
	return member
}

var _ ports.Service = (*Service)(nil)
