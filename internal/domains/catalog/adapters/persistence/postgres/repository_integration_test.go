//go:build integration

package postgres

import (
	"context"
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

	"github.com/fstore/fstore-api/internal/domains/catalog/domain"
	"github.com/fstore/fstore-api/internal/domains/catalog/ports"
	"github.com/fstore/fstore-api/internal/platform/migrations"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func seedTestCategory(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	record := categoryRecord{CategoryName: "Beverages"}
	require.NoError(t, db.Create(&record).Error)
	return record.ID
}

func TestProductRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	categoryID := seedTestCategory(t, db)
	repo := NewProductRepository(db)
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.Product{
		CategoryID:   &categoryID,
		ProductName:  "Oolong Tea",
		Weight:       "250g",
		UnitPrice:    decimal.New(1250, -2),
		UnitsInStock: 10,
	})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oolong Tea", fetched.ProductName)
	assert.True(t, fetched.UnitPrice.Equal(decimal.New(1250, -2)))
	assert.Equal(t, 10, fetched.UnitsInStock)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestProductRepository_FindByNameContains(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	categoryID := seedTestCategory(t, db)
	repo := NewProductRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Oolong Tea", "Jasmine Tea", "Robusta Coffee"} {
		_, err := repo.Save(ctx, &domain.Product{
			CategoryID:  &categoryID,
			ProductName: name,
			UnitPrice:   decimal.NewFromInt(10),
		})
		require.NoError(t, err)
	}

	// ILIKE makes the match case-insensitive.
	matches, err := repo.FindByNameContains(ctx, "TEA", ports.DefaultPage)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestProductRepository_FindByPriceRange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	categoryID := seedTestCategory(t, db)
	repo := NewProductRepository(db)
	ctx := context.Background()

	prices := []int64{12, 15, 18}
	names := []string{"Oolong Tea", "Jasmine Tea", "Robusta Coffee"}
	for i := range prices {
		_, err := repo.Save(ctx, &domain.Product{
			CategoryID:  &categoryID,
			ProductName: names[i],
			UnitPrice:   decimal.NewFromInt(prices[i]),
		})
		require.NoError(t, err)
	}

	matches, err := repo.FindByPriceRange(ctx, decimal.NewFromInt(13), decimal.NewFromInt(20), ports.DefaultPage)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestProductRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	categoryID := seedTestCategory(t, db)
	repo := NewProductRepository(db)
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.Product{
		CategoryID:  &categoryID,
		ProductName: "Oolong Tea",
		UnitPrice:   decimal.NewFromInt(12),
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, saved.ID))

	_, err = repo.GetByID(ctx, saved.ID)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)

	err = repo.Delete(ctx, saved.ID)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestCategoryRepository_GetByIDAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	categoryID := seedTestCategory(t, db)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	category, err := repo.GetByID(ctx, categoryID)
	require.NoError(t, err)
	assert.Equal(t, "Beverages", category.CategoryName)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ports.ErrCategoryNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
