// Package memory provides an in-memory order store, used as the development
// fallback and as the test fake for the workflow. Atomically stages all
// mutations on copies and swaps them in only when the unit of work succeeds.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	catalogdomain "github.com/fstore/fstore-api/internal/domains/catalog/domain"
	"github.com/fstore/fstore-api/internal/domains/orders/domain"
	"github.com/fstore/fstore-api/internal/domains/orders/ports"
)

var _ ports.Store = (*Store)(nil)

// Store is an in-memory unit-of-work adapter.
type Store struct {
	mu           sync.Mutex
	products     map[int64]*catalogdomain.Product
	members      map[int64]*domain.Member
	orders       map[int64]*domain.Order
	nextOrderID  int64
	nextDetailID int64
}

func NewStore() *Store {
	return &Store{
		products: map[int64]*catalogdomain.Product{},
		members:  map[int64]*domain.Member{},
		orders:   map[int64]*domain.Order{},
	}
}

// SeedProduct inserts or replaces a product outside any unit of work.
func (s *Store) SeedProduct(product catalogdomain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := product
	s.products[product.ID] = &clone
}

// SeedMember inserts or replaces a member outside any unit of work.
func (s *Store) SeedMember(member domain.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := member
	s.members[member.ID] = &clone
}

// RemoveProduct deletes a product outside any unit of work.
func (s *Store) RemoveProduct(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
}

// ProductStock reports a product's current stock, for assertions.
func (s *Store) ProductStock(id int64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		return 0, false
	}
	return product.UnitsInStock, true
}

// Atomically runs fn against staged copies of the store's state. The copies
// replace the live state only when fn returns nil.
func (s *Store) Atomically(_ context.Context, fn func(tx ports.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &storeTx{
		products:     cloneProducts(s.products),
		members:      s.members,
		orders:       cloneOrders(s.orders),
		nextOrderID:  s.nextOrderID,
		nextDetailID: s.nextDetailID,
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.products = tx.products
	s.orders = tx.orders
	s.nextOrderID = tx.nextOrderID
	s.nextDetailID = tx.nextDetailID
	return nil
}

type storeTx struct {
	products     map[int64]*catalogdomain.Product
	members      map[int64]*domain.Member
	orders       map[int64]*domain.Order
	nextOrderID  int64
	nextDetailID int64
}

func (t *storeTx) Orders() ports.OrderRepository { return (*orderRepo)(t) }

func (t *storeTx) Products() ports.ProductRepository { return (*productRepo)(t) }

func (t *storeTx) Members() ports.MemberRepository { return (*memberRepo)(t) }

type orderRepo storeTx

func (r *orderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (r *orderRepo) List(_ context.Context, page ports.Page) ([]*domain.Order, error) {
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, cloneOrder(order))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	offset := page.Offset()
	if offset >= len(list) {
		return []*domain.Order{}, nil
	}
	end := offset + page.Limit()
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], nil
}

func (r *orderRepo) Create(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	r.nextOrderID++
	order.ID = r.nextOrderID
	for i := range order.Details {
		r.nextDetailID++
		order.Details[i].ID = r.nextDetailID
		order.Details[i].OrderID = order.ID
	}
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *orderRepo) Update(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	if _, ok := r.orders[order.ID]; !ok {
		return ports.ErrOrderNotFound
	}
	for i := range order.Details {
		if order.Details[i].ID == 0 {
			r.nextDetailID++
			order.Details[i].ID = r.nextDetailID
		}
		order.Details[i].OrderID = order.ID
	}
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *orderRepo) UpdateShippedDate(_ context.Context, id int64, shippedAt time.Time) error {
	order, ok := r.orders[id]
	if !ok {
		return ports.ErrOrderNotFound
	}
	at := shippedAt
	order.ShippedDate = &at
	return nil
}

func (r *orderRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.orders[id]; !ok {
		return ports.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

type productRepo storeTx

func (r *productRepo) GetByID(_ context.Context, id int64) (*catalogdomain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *productRepo) UpdateStock(_ context.Context, product *catalogdomain.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	stored, ok := r.products[product.ID]
	if !ok {
		return ports.ErrProductNotFound
	}
	stored.UnitsInStock = product.UnitsInStock
	return nil
}

type memberRepo storeTx

func (r *memberRepo) GetByID(_ context.Context, id int64) (*domain.Member, error) {
	member, ok := r.members[id]
	if !ok {
		return nil, ports.ErrMemberNotFound
	}
	clone := *member
	return &clone, nil
}

func cloneProducts(src map[int64]*catalogdomain.Product) map[int64]*catalogdomain.Product {
	dst := make(map[int64]*catalogdomain.Product, len(src))
	for id, product := range src {
		clone := *product
		dst[id] = &clone
	}
	return dst
}

func cloneOrders(src map[int64]*domain.Order) map[int64]*domain.Order {
	dst := make(map[int64]*domain.Order, len(src))
	for id, order := range src {
		dst[id] = cloneOrder(order)
	}
	return dst
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Details = append([]domain.OrderDetail(nil), order.Details...)
	if order.RequiredDate != nil {
		at := *order.RequiredDate
		clone.RequiredDate = &at
	}
	if order.ShippedDate != nil {
		at := *order.ShippedDate
		clone.ShippedDate = &at
	}
	return &clone
}
