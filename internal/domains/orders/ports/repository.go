package ports

import (
	"context"
	"errors"
	"time"

	catalogdomain "github.com/fstore/fstore-api/internal/domains/catalog/domain"
	"github.com/fstore/fstore-api/internal/domains/orders/domain"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrMemberNotFound  = errors.New("member not found")
)

// Store opens one atomic unit of work per workflow call. Mutations staged
// inside fn become durable only when fn returns nil; any error discards them
// all, which is the only rollback mechanism the workflow relies on.
type Store interface {
	Atomically(ctx context.Context, fn func(tx Tx) error) error
}

// Tx groups the repositories bound to one unit of work.
type Tx interface {
	Orders() OrderRepository
	Products() ProductRepository
	Members() MemberRepository
}

// Page bounds a listing. Index is 1-based.
type Page struct {
	Index int
	Size  int
}

// DefaultPage is the first page with the default size.
var DefaultPage = Page{Index: 1, Size: 10}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	index := p.Index
	if index < 1 {
		index = 1
	}
	return (index - 1) * p.Limit()
}

// Limit returns the page size, defaulting to 10 when unset.
func (p Page) Limit() int {
	if p.Size < 1 {
		return 10
	}
	return p.Size
}

// OrderRepository persists orders together with their detail lines.
type OrderRepository interface {
	// GetByID loads an order with its details.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, page Page) ([]*domain.Order, error)
	// Create inserts the order and its details, assigning identifiers.
	Create(ctx context.Context, order *domain.Order) error
	// Update persists the order row and replaces its detail set wholesale
	// with order.Details.
	Update(ctx context.Context, order *domain.Order) error
	UpdateShippedDate(ctx context.Context, id int64, shippedAt time.Time) error
	// Delete removes the order's details, then the order.
	Delete(ctx context.Context, id int64) error
}

// ProductRepository is the narrow product view the workflow needs: point
// lookup plus stock persistence.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*catalogdomain.Product, error)
	UpdateStock(ctx context.Context, product *catalogdomain.Product) error
}

// MemberRepository resolves the members orders reference.
type MemberRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
}
