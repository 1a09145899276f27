package adapters

import (
	"context"
	"testing"

	"spice-market/internal/features/catalog/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemoryProductRepository_GetProduct verifies lookup by id.
func TestMemoryProductRepository_GetProduct(t *testing.T) {
	repo := NewSeededProductRepository()

	p, err := repo.GetProduct(context.Background(), "black-pepper")
	require.NoError(t, err)
	assert.Equal(t, "Black Pepper", p.Name)
	assert.True(t, decimal.RequireFromString("12.99").Equal(p.Price))
	assert.Equal(t, 10, p.DiscountPercent)
}

// TestMemoryProductRepository_GetProduct_NotFound verifies the sentinel error.
func TestMemoryProductRepository_GetProduct_NotFound(t *testing.T) {
	repo := NewSeededProductRepository()

	p, err := repo.GetProduct(context.Background(), "no-such-spice")
	assert.Nil(t, p)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

// TestMemoryProductRepository_ListAvailable verifies filtering and stable order.
func TestMemoryProductRepository_ListAvailable(t *testing.T) {
	products := []domain.Product{
		{ID: "a", Name: "A", Price: decimal.New(1, 0), IsAvailable: true},
		{ID: "b", Name: "B", Price: decimal.New(2, 0), IsAvailable: false},
		{ID: "c", Name: "C", Price: decimal.New(3, 0), IsAvailable: true},
	}
	repo := NewMemoryProductRepository(products)

	available, err := repo.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, "a", available[0].ID)
	assert.Equal(t, "c", available[1].ID)
}

// TestMemoryProductRepository_DuplicateSeed verifies duplicate ids are ignored.
func TestMemoryProductRepository_DuplicateSeed(t *testing.T) {
	products := []domain.Product{
		{ID: "a", Name: "First", IsAvailable: true},
		{ID: "a", Name: "Second", IsAvailable: true},
	}
	repo := NewMemoryProductRepository(products)

	p, err := repo.GetProduct(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "First", p.Name)

	available, err := repo.ListAvailable(context.Background())
	require.NoError(t, err)
	assert.Len(t, available, 1)
}
