// Package postgres persists the catalog in PostgreSQL using GORM.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fstore/fstore-api/internal/domains/catalog/domain"
	"github.com/fstore/fstore-api/internal/domains/catalog/ports"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

// ProductRepository persists products in PostgreSQL.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository wires a PostgreSQL-backed repository. Caller manages
// the DB lifecycle and runs migrations.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// productRecord maps the product aggregate to a relational table.
type productRecord struct {
	ID           int64           `gorm:"primaryKey;column:id"`
	CategoryID   *int64          `gorm:"column:category_id;index"`
	ProductName  string          `gorm:"column:product_name;index"`
	Weight       string          `gorm:"column:weight"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2)"`
	UnitsInStock int             `gorm:"column:units_in_stock"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *ProductRepository) List(ctx context.Context, page ports.Page) ([]*domain.Product, error) {
	return r.query(ctx, r.db.WithContext(ctx), page)
}

func (r *ProductRepository) FindByNameContains(ctx context.Context, keyword string, page ports.Page) ([]*domain.Product, error) {
	tx := r.db.WithContext(ctx).Where("product_name ILIKE ?", "%"+keyword+"%")
	return r.query(ctx, tx, page)
}

func (r *ProductRepository) FindByPriceRange(ctx context.Context, min, max decimal.Decimal, page ports.Page) ([]*domain.Product, error) {
	tx := r.db.WithContext(ctx).Where("unit_price BETWEEN ? AND ?", min, max)
	return r.query(ctx, tx, page)
}

func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toProductRecord(product)
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&productRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) query(_ context.Context, tx *gorm.DB, page ports.Page) ([]*domain.Product, error) {
	var records []productRecord
	if err := tx.Order("id").Offset(page.Offset()).Limit(page.Limit()).Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func toProductRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:           product.ID,
		CategoryID:   product.CategoryID,
		ProductName:  product.ProductName,
		Weight:       product.Weight,
		UnitPrice:    product.UnitPrice,
		UnitsInStock: product.UnitsInStock,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:           r.ID,
		CategoryID:   r.CategoryID,
		ProductName:  r.ProductName,
		Weight:       r.Weight,
		UnitPrice:    r.UnitPrice,
		UnitsInStock: r.UnitsInStock,
	}
}

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository resolves categories from PostgreSQL.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

type categoryRecord struct {
	ID           int64  `gorm:"primaryKey;column:id"`
	CategoryName string `gorm:"column:category_name"`
}

func (categoryRecord) TableName() string { return "categories" }

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var record categoryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrCategoryNotFound
		}
		return nil, err
	}
	return &domain.Category{ID: record.ID, CategoryName: record.CategoryName}, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	categories := make([]*domain.Category, 0, len(records))
	for i := range records {
		categories = append(categories, &domain.Category{ID: records[i].ID, CategoryName: records[i].CategoryName})
	}
	return categories, nil
}
