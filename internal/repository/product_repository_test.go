package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// failingStore rejects every write.
type failingStore struct{ *store.Memory }

func (failingStore) Set(context.Context, string, []byte) error { return errors.New("disk full") }
func (failingStore) Remove(context.Context, string) error      { return errors.New("disk full") }

func TestStoredProductRepository_Seeds(t *testing.T) {
	repo := NewStoredProductRepository(context.Background(), store.NewMemory(), testLogger())

	products, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, []string{"p1", "p2", "p3"}, []string{products[0].ID, products[1].ID, products[2].ID})
	assert.True(t, products[1].IsRecommended)
}

func TestStoredProductRepository_LoadsPersisted(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, store.SaveSlice(ctx, s, store.KeyProducts, []models.Product{{ID: "x", Name: "Stored", Price: 1, Stock: 1}}))

	repo := NewStoredProductRepository(ctx, s, testLogger())
	products, _ := repo.List(ctx, "")
	require.Len(t, products, 1)
	assert.Equal(t, "Stored", products[0].Name)
}

func TestStoredProductRepository_DropsInvalidStoredProducts(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, store.SaveSlice(ctx, s, store.KeyProducts, []models.Product{
		{ID: "ok", Name: " Lamp ", Price: 100, Stock: 5, Discounts: []models.DiscountTier{{Quantity: 10, Rate: 0.2}, {Quantity: 5, Rate: 0.1}}},
		{ID: "dup-tier", Name: "Chair", Price: 100, Stock: 5, Discounts: []models.DiscountTier{{Quantity: 5, Rate: 0.1}, {Quantity: 5, Rate: 0.2}}},
		{ID: "bad-price", Name: "Desk", Price: 0, Stock: 5},
		{ID: "ok", Name: "Same id", Price: 100, Stock: 5},
		{ID: "dup-name", Name: "Lamp", Price: 100, Stock: 5},
		{ID: "", Name: "No id", Price: 100, Stock: 5},
	}))

	repo := NewStoredProductRepository(ctx, s, testLogger())
	products, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Lamp", products[0].Name)
	assert.Equal(t, []models.DiscountTier{{Quantity: 5, Rate: 0.1}, {Quantity: 10, Rate: 0.2}}, products[0].Discounts)
}

func TestStoredProductRepository_AllInvalidFallsBackToSeeds(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, store.SaveSlice(ctx, s, store.KeyProducts, []models.Product{{ID: "x", Name: "", Price: 1, Stock: 1}}))

	products, _ := NewStoredProductRepository(ctx, s, testLogger()).List(ctx, "")
	assert.Len(t, products, len(DefaultProducts()))
}

func TestStoredProductRepository_List(t *testing.T) {
	repo := NewStoredProductRepository(context.Background(), store.NewMemory(), testLogger())

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"p1", "p2", "p3"}},
		{"상품2", []string{"p2"}},
		{"  상품3 ", []string{"p3"}},
		{"실용적", []string{"p2"}},
		{"nothing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			products, err := repo.List(context.Background(), tt.query)
			require.NoError(t, err)
			var ids []string
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestStoredProductRepository_Mutations(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	repo := NewStoredProductRepository(ctx, s, testLogger())

	added := models.Product{ID: "p4", Name: "Lamp", Price: 5000, Stock: 3}
	require.NoError(t, repo.Create(ctx, added))

	err := repo.Create(ctx, models.Product{ID: "p5", Name: " Lamp ", Price: 1, Stock: 1})
	assert.True(t, errors.Is(err, models.ErrDuplicateName))

	added.Price = 6000
	require.NoError(t, repo.Update(ctx, added), "own name is not a duplicate")

	renamed := added
	renamed.Name = "상품1"
	assert.True(t, errors.Is(repo.Update(ctx, renamed), models.ErrDuplicateName))

	assert.True(t, errors.Is(repo.Update(ctx, models.Product{ID: "nope", Name: "x"}), models.ErrNotFound))

	got, err := repo.GetByID(ctx, "p4")
	require.NoError(t, err)
	assert.Equal(t, int64(6000), got.Price)

	require.NoError(t, repo.Delete(ctx, "p1"))
	assert.True(t, errors.Is(repo.Delete(ctx, "p1"), models.ErrNotFound))
	_, ok := repo.FindProduct("p1")
	assert.False(t, ok)

	persisted := store.Load(ctx, s, testLogger(), store.KeyProducts, []models.Product(nil))
	require.Len(t, persisted, 3)
	assert.Equal(t, "p4", persisted[2].ID)
	assert.Equal(t, int64(6000), persisted[2].Price)
}

func TestStoredProductRepository_FailedWriteKeepsState(t *testing.T) {
	ctx := context.Background()
	repo := NewStoredProductRepository(ctx, failingStore{store.NewMemory()}, testLogger())

	err := repo.Create(ctx, models.Product{ID: "p4", Name: "Lamp", Price: 1, Stock: 1})
	require.Error(t, err)

	_, ok := repo.FindProduct("p4")
	assert.False(t, ok)
}
