// Package postgres persists the order workflow state in PostgreSQL using
// GORM. One Atomically call maps to one database transaction, which is the
// workflow's single commit point.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogdomain "github.com/fstore/fstore-api/internal/domains/catalog/domain"
	"github.com/fstore/fstore-api/internal/domains/orders/domain"
	"github.com/fstore/fstore-api/internal/domains/orders/ports"
)

var _ ports.Store = (*Store)(nil)

// Store is the PostgreSQL unit-of-work adapter.
type Store struct {
	db *gorm.DB
}

// NewStore wires a PostgreSQL-backed store. Caller manages the DB lifecycle
// and runs migrations.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Atomically runs fn inside a single database transaction.
func (s *Store) Atomically(ctx context.Context, fn func(tx ports.Tx) error) error {
	if s == nil || s.db == nil {
		return errors.New("postgres order store not configured")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&storeTx{db: tx})
	})
}

type storeTx struct {
	db *gorm.DB
}

func (t *storeTx) Orders() ports.OrderRepository { return &orderRepo{db: t.db} }

func (t *storeTx) Products() ports.ProductRepository { return &productRepo{db: t.db} }

func (t *storeTx) Members() ports.MemberRepository { return &memberRepo{db: t.db} }

// orderRecord maps the order aggregate to its relational table.
type orderRecord struct {
	ID           int64           `gorm:"primaryKey;column:id"`
	MemberID     int64           `gorm:"column:member_id;index"`
	OrderDate    time.Time       `gorm:"column:order_date"`
	RequiredDate *time.Time      `gorm:"column:required_date"`
	ShippedDate  *time.Time      `gorm:"column:shipped_date"`
	Freight      decimal.Decimal `gorm:"column:freight;type:decimal(12,2)"`
	CreatedAt    time.Time       `gorm:"column:created_at;index"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderDetailRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;index:idx_order_details_order_product"`
	ProductID int64           `gorm:"column:product_id;index:idx_order_details_order_product"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2)"`
	Quantity  int             `gorm:"column:quantity"`
	Discount  float64         `gorm:"column:discount"`
}

func (orderDetailRecord) TableName() string { return "order_details" }

type productRecord struct {
	ID           int64           `gorm:"primaryKey;column:id"`
	CategoryID   *int64          `gorm:"column:category_id"`
	ProductName  string          `gorm:"column:product_name"`
	Weight       string          `gorm:"column:weight"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2)"`
	UnitsInStock int             `gorm:"column:units_in_stock"`
}

func (productRecord) TableName() string { return "products" }

type memberRecord struct {
	ID    int64  `gorm:"primaryKey;column:id"`
	Email string `gorm:"column:email"`
}

func (memberRecord) TableName() string { return "members" }

type orderRepo struct {
	db *gorm.DB
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	details, err := r.detailsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return record.toDomain(details), nil
}

func (r *orderRepo) List(ctx context.Context, page ports.Page) ([]*domain.Order, error) {
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id").Offset(page.Offset()).Limit(page.Limit()).Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain(nil))
	}
	return orders, nil
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	record := toOrderRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return err
	}
	order.ID = record.ID
	return r.insertDetails(ctx, order)
}

func (r *orderRepo) Update(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	record := toOrderRecord(order)
	result := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", order.ID).
		Updates(map[string]any{
			"member_id":     record.MemberID,
			"order_date":    record.OrderDate,
			"required_date": record.RequiredDate,
			"shipped_date":  record.ShippedDate,
			"freight":       record.Freight,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrOrderNotFound
	}
	// The detail set is replaced wholesale with order.Details.
	if err := r.db.WithContext(ctx).Where("order_id = ?", order.ID).Delete(&orderDetailRecord{}).Error; err != nil {
		return err
	}
	return r.insertDetails(ctx, order)
}

func (r *orderRepo) UpdateShippedDate(ctx context.Context, id int64, shippedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", id).Update("shipped_date", shippedAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Delete(&orderDetailRecord{}).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) detailsFor(ctx context.Context, orderID int64) ([]domain.OrderDetail, error) {
	var records []orderDetailRecord
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	details := make([]domain.OrderDetail, 0, len(records))
	for _, rec := range records {
		details = append(details, domain.OrderDetail{
			ID:        rec.ID,
			OrderID:   rec.OrderID,
			ProductID: rec.ProductID,
			UnitPrice: rec.UnitPrice,
			Quantity:  rec.Quantity,
			Discount:  rec.Discount,
		})
	}
	return details, nil
}

func (r *orderRepo) insertDetails(ctx context.Context, order *domain.Order) error {
	for i := range order.Details {
		rec := orderDetailRecord{
			OrderID:   order.ID,
			ProductID: order.Details[i].ProductID,
			UnitPrice: order.Details[i].UnitPrice,
			Quantity:  order.Details[i].Quantity,
			Discount:  order.Details[i].Discount,
		}
		if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
			return err
		}
		order.Details[i].ID = rec.ID
		order.Details[i].OrderID = order.ID
	}
	return nil
}

func toOrderRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:           order.ID,
		MemberID:     order.MemberID,
		OrderDate:    order.OrderDate,
		RequiredDate: order.RequiredDate,
		ShippedDate:  order.ShippedDate,
		Freight:      order.Freight,
	}
}

func (r orderRecord) toDomain(details []domain.OrderDetail) *domain.Order {
	return &domain.Order{
		ID:           r.ID,
		MemberID:     r.MemberID,
		OrderDate:    r.OrderDate,
		RequiredDate: r.RequiredDate,
		ShippedDate:  r.ShippedDate,
		Freight:      r.Freight,
		Details:      details,
	}
}

type productRepo struct {
	db *gorm.DB
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*catalogdomain.Product, error) {
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return &catalogdomain.Product{
		ID:           record.ID,
		CategoryID:   record.CategoryID,
		ProductName:  record.ProductName,
		Weight:       record.Weight,
		UnitPrice:    record.UnitPrice,
		UnitsInStock: record.UnitsInStock,
	}, nil
}

func (r *productRepo) UpdateStock(ctx context.Context, product *catalogdomain.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", product.ID).
		Update("units_in_stock", product.UnitsInStock)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

type memberRepo struct {
	db *gorm.DB
}

func (r *memberRepo) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	var record memberRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrMemberNotFound
		}
		return nil, err
	}
	return &domain.Member{ID: record.ID, Email: record.Email}, nil
}
