package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/coupon"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
)

// CouponRepository defines the interface for coupon data access
type CouponRepository interface {
	List(ctx context.Context) ([]models.Coupon, error)
	Find(ctx context.Context, code string) (models.Coupon, error)
	Add(ctx context.Context, c models.Coupon) error
	Remove(ctx context.Context, code string) error
}

// DefaultCoupons seeds an empty coupon list.
func DefaultCoupons() []models.Coupon {
	return []models.Coupon{
		{Code: "AMOUNT5000", Name: "5000원 할인", DiscountType: models.DiscountAmount, DiscountValue: 5000},
		{Code: "PERCENT10", Name: "10% 할인", DiscountType: models.DiscountPercentage, DiscountValue: 10},
	}
}

// StoredCouponRepository mirrors StoredProductRepository for coupons.
type StoredCouponRepository struct {
	mu      sync.RWMutex
	coupons []models.Coupon
	store   store.Store
	logger  *slog.Logger
}

func NewStoredCouponRepository(ctx context.Context, s store.Store, logger *slog.Logger) *StoredCouponRepository {
	coupons := sanitizeCoupons(store.Load(ctx, s, logger, store.KeyCoupons, DefaultCoupons()), logger)
	if len(coupons) == 0 {
		coupons = DefaultCoupons()
	}
	logger.Info("coupons loaded", "count", len(coupons))

	return &StoredCouponRepository{
		coupons: coupons,
		store:   s,
		logger:  logger,
	}
}

func (r *StoredCouponRepository) List(ctx context.Context) ([]models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Coupon, len(r.coupons))
	copy(out, r.coupons)
	return out, nil
}

// Find looks code up case-insensitively.
func (r *StoredCouponRepository) Find(ctx context.Context, code string) (models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexLocked(code); i >= 0 {
		return r.coupons[i], nil
	}
	return models.Coupon{}, fmt.Errorf("%w: coupon %s", models.ErrNotFound, coupon.NormalizeCode(code))
}

func (r *StoredCouponRepository) Add(ctx context.Context, c models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexLocked(c.Code) >= 0 {
		return fmt.Errorf("%w: %s", models.ErrDuplicateCode, c.Code)
	}

	next := make([]models.Coupon, len(r.coupons), len(r.coupons)+1)
	copy(next, r.coupons)
	return r.commitLocked(ctx, append(next, c))
}

func (r *StoredCouponRepository) Remove(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(code)
	if i < 0 {
		return fmt.Errorf("%w: coupon %s", models.ErrNotFound, coupon.NormalizeCode(code))
	}

	next := make([]models.Coupon, 0, len(r.coupons)-1)
	next = append(next, r.coupons[:i]...)
	next = append(next, r.coupons[i+1:]...)
	return r.commitLocked(ctx, next)
}

func (r *StoredCouponRepository) indexLocked(code string) int {
	code = coupon.NormalizeCode(code)
	for i, c := range r.coupons {
		if c.Code == code {
			return i
		}
	}
	return -1
}

func (r *StoredCouponRepository) commitLocked(ctx context.Context, next []models.Coupon) error {
	if err := store.SaveSlice(ctx, r.store, store.KeyCoupons, next); err != nil {
		return fmt.Errorf("persist coupons: %w", err)
	}
	r.coupons = next
	return nil
}

// sanitizeCoupons re-validates stored coupons through coupon.New, dropping
// invalid entries and repeated codes.
func sanitizeCoupons(stored []models.Coupon, logger *slog.Logger) []models.Coupon {
	seen := make(map[string]struct{}, len(stored))
	out := make([]models.Coupon, 0, len(stored))

	for _, c := range stored {
		clean, err := coupon.New(models.CouponInput{
			Code:          c.Code,
			Name:          c.Name,
			DiscountType:  c.DiscountType,
			DiscountValue: c.DiscountValue,
		})
		if err == nil {
			if _, dup := seen[clean.Code]; dup {
				err = fmt.Errorf("%w: %s", models.ErrDuplicateCode, clean.Code)
			}
		}
		if err != nil {
			logger.Warn("dropping invalid stored coupon", "code", c.Code, "error", err)
			continue
		}

		seen[clean.Code] = struct{}{}
		out = append(out, clean)
	}
	return out
}
