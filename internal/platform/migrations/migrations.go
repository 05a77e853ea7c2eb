// Package migrations applies the relational schema for all bounded contexts.
package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&categoryRecord{},
		&productRecord{},
		&memberRecord{},
		&orderRecord{},
		&orderDetailRecord{},
	)
}

// Category schema mirrors the catalog Postgres adapter.
type categoryRecord struct {
	ID           int64  `gorm:"primaryKey;column:id"`
	CategoryName string `gorm:"column:category_name"`
}

func (categoryRecord) TableName() string { return "categories" }

// Product schema mirrors the catalog Postgres adapter.
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

// Member schema mirrors the orders Postgres adapter.
type memberRecord struct {
	ID    int64  `gorm:"primaryKey;column:id"`
	Email string `gorm:"column:email;uniqueIndex"`
}

func (memberRecord) TableName() string { return "members" }

// Order schema mirrors the orders Postgres adapter.
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

// OrderDetail schema mirrors the orders Postgres adapter. UnitPrice is the
// price snapshot taken when the line was created.
type orderDetailRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;index:idx_order_details_order_product"`
	ProductID int64           `gorm:"column:product_id;index:idx_order_details_order_product"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2)"`
	Quantity  int             `gorm:"column:quantity"`
	Discount  float64         `gorm:"column:discount"`
}

func (orderDetailRecord) TableName() string { return "order_details" }
