package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
)

func TestStoredCouponRepository(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	repo := NewStoredCouponRepository(ctx, s, testLogger())

	coupons, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, coupons, 2)

	c, err := repo.Find(ctx, " percent10 ")
	require.NoError(t, err)
	assert.Equal(t, models.DiscountPercentage, c.DiscountType)

	welcome := models.Coupon{Code: "WELCOME", Name: "Welcome", DiscountType: models.DiscountAmount, DiscountValue: 1000}
	require.NoError(t, repo.Add(ctx, welcome))
	assert.True(t, errors.Is(repo.Add(ctx, welcome), models.ErrDuplicateCode))

	require.NoError(t, repo.Remove(ctx, "amount5000"))
	assert.True(t, errors.Is(repo.Remove(ctx, "AMOUNT5000"), models.ErrNotFound))
	_, err = repo.Find(ctx, "AMOUNT5000")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	reloaded := NewStoredCouponRepository(ctx, s, testLogger())
	coupons, _ = reloaded.List(ctx)
	require.Len(t, coupons, 2)
	assert.Equal(t, "PERCENT10", coupons[0].Code)
	assert.Equal(t, "WELCOME", coupons[1].Code)
}

func TestStoredCouponRepository_EmptyListIsReseeded(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	repo := NewStoredCouponRepository(ctx, s, testLogger())

	require.NoError(t, repo.Remove(ctx, "AMOUNT5000"))
	require.NoError(t, repo.Remove(ctx, "PERCENT10"))

	_, err := s.Get(ctx, store.KeyCoupons)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	coupons, _ := NewStoredCouponRepository(ctx, s, testLogger()).List(ctx)
	assert.Len(t, coupons, 2)
}

func TestStoredCouponRepository_DropsInvalidStoredCoupons(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, store.SaveSlice(ctx, s, store.KeyCoupons, []models.Coupon{
		{Code: "welcome", Name: " Welcome ", DiscountType: models.DiscountAmount, DiscountValue: 1000},
		{Code: "BAD-CODE", Name: "Bad", DiscountType: models.DiscountAmount, DiscountValue: 1000},
		{Code: "TOOMUCH", Name: "Too much", DiscountType: models.DiscountPercentage, DiscountValue: 150},
		{Code: "ZERO", Name: "Zero", DiscountType: models.DiscountAmount, DiscountValue: 0},
		{Code: "WELCOME", Name: "Again", DiscountType: models.DiscountAmount, DiscountValue: 2000},
	}))

	coupons, err := NewStoredCouponRepository(ctx, s, testLogger()).List(ctx)
	require.NoError(t, err)
	require.Len(t, coupons, 1)
	assert.Equal(t, models.Coupon{Code: "WELCOME", Name: "Welcome", DiscountType: models.DiscountAmount, DiscountValue: 1000}, coupons[0])
}
