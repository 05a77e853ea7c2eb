//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fstore/fstore-api/internal/domains/orders/domain"
	"github.com/fstore/fstore-api/internal/domains/orders/ports"
	"github.com/fstore/fstore-api/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("fstore_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedOrderFixtures(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&memberRecord{ID: 1, Email: "member@fstore.local"}).Error)
	require.NoError(t, db.Create(&productRecord{
		ID:           1,
		ProductName:  "Oolong Tea",
		UnitPrice:    decimal.NewFromInt(12),
		UnitsInStock: 10,
	}).Error)
}

func createTestOrder(t *testing.T, store *Store, quantity int) *domain.Order {
	t.Helper()
	order := domain.NewOrder(1, time.Now(), []domain.OrderDetail{
		{ProductID: 1, UnitPrice: decimal.NewFromInt(12), Quantity: quantity},
	})
	err := store.Atomically(context.Background(), func(tx ports.Tx) error {
		return tx.Orders().Create(context.Background(), order)
	})
	require.NoError(t, err)
	require.NotZero(t, order.ID)
	return order
}

func TestStore_AtomicallyCommits(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()
	seedOrderFixtures(t, db)

	store := NewStore(db)
	ctx := context.Background()

	order := createTestOrder(t, store, 3)

	var fetched *domain.Order
	err := store.Atomically(ctx, func(tx ports.Tx) error {
		var err error
		fetched, err = tx.Orders().GetByID(ctx, order.ID)
		return err
	})
	require.NoError(t, err)
	require.Len(t, fetched.Details, 1)
	assert.Equal(t, int64(1), fetched.Details[0].ProductID)
	assert.Equal(t, 3, fetched.Details[0].Quantity)
	assert.True(t, fetched.Details[0].UnitPrice.Equal(decimal.NewFromInt(12)))
}

func TestStore_AtomicallyRollsBackOnError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()
	seedOrderFixtures(t, db)

	store := NewStore(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Atomically(ctx, func(tx ports.Tx) error {
		product, err := tx.Products().GetByID(ctx, 1)
		if err != nil {
			return err
		}
		product.UnitsInStock = 0
		if err := tx.Products().UpdateStock(ctx, product); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.Atomically(ctx, func(tx ports.Tx) error {
		product, err := tx.Products().GetByID(ctx, 1)
		if err != nil {
			return err
		}
		assert.Equal(t, 10, product.UnitsInStock)
		return nil
	})
	require.NoError(t, err)
}

func TestOrderRepository_UpdateReplacesDetailSet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()
	seedOrderFixtures(t, db)
	require.NoError(t, db.Create(&productRecord{
		ID:           2,
		ProductName:  "Robusta Coffee",
		UnitPrice:    decimal.NewFromInt(18),
		UnitsInStock: 5,
	}).Error)

	store := NewStore(db)
	ctx := context.Background()

	order := createTestOrder(t, store, 3)

	order.Details = []domain.OrderDetail{
		{OrderID: order.ID, ProductID: 2, UnitPrice: decimal.NewFromInt(18), Quantity: 1},
	}
	err := store.Atomically(ctx, func(tx ports.Tx) error {
		return tx.Orders().Update(ctx, order)
	})
	require.NoError(t, err)

	var fetched *domain.Order
	err = store.Atomically(ctx, func(tx ports.Tx) error {
		var err error
		fetched, err = tx.Orders().GetByID(ctx, order.ID)
		return err
	})
	require.NoError(t, err)
	require.Len(t, fetched.Details, 1)
	assert.Equal(t, int64(2), fetched.Details[0].ProductID)
}

func TestOrderRepository_UpdateShippedDate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()
	seedOrderFixtures(t, db)

	store := NewStore(db)
	ctx := context.Background()

	order := createTestOrder(t, store, 1)
	shippedAt := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	err := store.Atomically(ctx, func(tx ports.Tx) error {
		return tx.Orders().UpdateShippedDate(ctx, order.ID, shippedAt)
	})
	require.NoError(t, err)

	var fetched *domain.Order
	err = store.Atomically(ctx, func(tx ports.Tx) error {
		var err error
		fetched, err = tx.Orders().GetByID(ctx, order.ID)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, fetched.ShippedDate)
	assert.True(t, fetched.ShippedDate.Equal(shippedAt))

	err = store.Atomically(ctx, func(tx ports.Tx) error {
		return tx.Orders().UpdateShippedDate(ctx, 999, shippedAt)
	})
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)
}

func TestOrderRepository_DeleteRemovesDetails(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()
	seedOrderFixtures(t, db)

	store := NewStore(db)
	ctx := context.Background()

	order := createTestOrder(t, store, 2)

	err := store.Atomically(ctx, func(tx ports.Tx) error {
		return tx.Orders().Delete(ctx, order.ID)
	})
	require.NoError(t, err)

	err = store.Atomically(ctx, func(tx ports.Tx) error {
		_, err := tx.Orders().GetByID(ctx, order.ID)
		return err
	})
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)

	var count int64
	require.NoError(t, db.Model(&orderDetailRecord{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMemberRepository_GetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()
	seedOrderFixtures(t, db)

	store := NewStore(db)
	ctx := context.Background()

	err := store.Atomically(ctx, func(tx ports.Tx) error {
		member, err := tx.Members().GetByID(ctx, 1)
		if err != nil {
			return err
		}
		assert.Equal(t, "member@fstore.local", member.Email)

		_, err = tx.Members().GetByID(ctx, 999)
		assert.ErrorIs(t, err, ports.ErrMemberNotFound)
		return nil
	})
	require.NoError(t, err)
}
