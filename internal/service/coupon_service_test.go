package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
)

func TestCouponService_CreateCoupon(t *testing.T) {
	tests := []struct {
		name    string
		input   models.CouponInput
		want    string
		wantErr error
	}{
		{
			name:  "normalizes code",
			input: models.CouponInput{Code: " summer24 ", Name: "Summer", DiscountType: models.DiscountPercentage, DiscountValue: 15},
			want:  "SUMMER24",
		},
		{
			name:    "duplicate code ignoring case",
			input:   models.CouponInput{Code: "percent10", Name: "Dup", DiscountType: models.DiscountPercentage, DiscountValue: 10},
			wantErr: models.ErrDuplicateCode,
		},
		{
			name:    "code too short",
			input:   models.CouponInput{Code: "AB1", Name: "Short", DiscountType: models.DiscountAmount, DiscountValue: 100},
			wantErr: models.ErrInvalidInput,
		},
		{
			name:    "percentage over 100",
			input:   models.CouponInput{Code: "HUGE", Name: "Huge", DiscountType: models.DiscountPercentage, DiscountValue: 101},
			wantErr: models.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, sink := newCouponService(t)

			c, err := svc.CreateCoupon(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Equal(t, notify.SeverityError, sink.last())
				coupons, _ := svc.ListCoupons(context.Background())
				assert.Len(t, coupons, 2)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Code)
			found, err := svc.FindCoupon(context.Background(), tt.want)
			require.NoError(t, err)
			assert.Equal(t, c, found)
		})
	}
}

func TestCouponService_ApplicableCoupons(t *testing.T) {
	svc, _ := newCouponService(t)

	below, err := svc.ApplicableCoupons(context.Background(), 9999)
	require.NoError(t, err)
	require.Len(t, below, 1)
	assert.Equal(t, "AMOUNT5000", below[0].Code)

	at, err := svc.ApplicableCoupons(context.Background(), 10000)
	require.NoError(t, err)
	assert.Len(t, at, 2)
}

func TestCouponService_RemoveCoupon(t *testing.T) {
	svc, sink := newCouponService(t)

	require.NoError(t, svc.RemoveCoupon(context.Background(), "amount5000"))
	assert.Equal(t, notify.SeveritySuccess, sink.last())

	err := svc.RemoveCoupon(context.Background(), "AMOUNT5000")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestCouponService_ImportCoupons(t *testing.T) {
	svc, _ := newCouponService(t)

	added, err := svc.ImportCoupons(context.Background(), []models.Coupon{
		{Code: "PERCENT10", Name: "Other", DiscountType: models.DiscountPercentage, DiscountValue: 50},
		{Code: "NEWYEAR", Name: "New year", DiscountType: models.DiscountAmount, DiscountValue: 2000},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	existing, _ := svc.FindCoupon(context.Background(), "PERCENT10")
	assert.Equal(t, float64(10), existing.DiscountValue, "existing coupon wins")
}
