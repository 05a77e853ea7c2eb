// Package memory provides in-memory catalog persistence adapters, used as
// the development fallback and as test fakes.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fstore/fstore-api/internal/domains/catalog/domain"
	"github.com/fstore/fstore-api/internal/domains/catalog/ports"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

// ProductRepository is an in-memory product persistence adapter.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: map[int64]*domain.Product{}}
}

func (r *ProductRepository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *ProductRepository) List(_ context.Context, page ports.Page) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return paginate(r.all(), page), nil
}

func (r *ProductRepository) FindByNameContains(_ context.Context, keyword string, page ports.Page) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(keyword)
	var matches []*domain.Product
	for _, product := range r.all() {
		if strings.Contains(strings.ToLower(product.ProductName), needle) {
			matches = append(matches, product)
		}
	}
	return paginate(matches, page), nil
}

func (r *ProductRepository) FindByPriceRange(_ context.Context, min, max decimal.Decimal, page ports.Page) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []*domain.Product
	for _, product := range r.all() {
		if product.UnitPrice.GreaterThanOrEqual(min) && product.UnitPrice.LessThanOrEqual(max) {
			matches = append(matches, product)
		}
	}
	return paginate(matches, page), nil
}

func (r *ProductRepository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.products[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *ProductRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepository) all() []*domain.Product {
	list := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		clone := *product
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func paginate(list []*domain.Product, page ports.Page) []*domain.Product {
	offset := page.Offset()
	if offset >= len(list) {
		return []*domain.Product{}
	}
	end := offset + page.Limit()
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository is an in-memory category lookup adapter.
type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[int64]*domain.Category
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{categories: map[int64]*domain.Category{}}
}

// Put seeds a category, assigning an ID when unset.
func (r *CategoryRepository) Put(category domain.Category) domain.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	if category.ID == 0 {
		category.ID = int64(len(r.categories) + 1)
	}
	clone := category
	r.categories[category.ID] = &clone
	return category
}

func (r *CategoryRepository) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, ports.ErrCategoryNotFound
	}
	clone := *category
	return &clone, nil
}

func (r *CategoryRepository) List(_ context.Context) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Category, 0, len(r.categories))
	for _, category := range r.categories {
		clone := *category
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}
