package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/coupon"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/repository"
)

// CouponService handles coupon management.
type CouponService struct {
	repo     repository.CouponRepository
	notifier notify.Sink
	logger   *slog.Logger
}

func NewCouponService(repo repository.CouponRepository, notifier notify.Sink, logger *slog.Logger) *CouponService {
	return &CouponService{repo: repo, notifier: notifier, logger: logger}
}

func (s *CouponService) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	return s.repo.List(ctx)
}

// ApplicableCoupons lists coupons selectable against subtotal.
func (s *CouponService) ApplicableCoupons(ctx context.Context, subtotal int64) ([]models.Coupon, error) {
	coupons, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return coupon.Applicable(coupons, subtotal), nil
}

// FindCoupon looks a coupon up by code, case-insensitively.
func (s *CouponService) FindCoupon(ctx context.Context, code string) (models.Coupon, error) {
	return s.repo.Find(ctx, code)
}

func (s *CouponService) CreateCoupon(ctx context.Context, in models.CouponInput) (models.Coupon, error) {
	c, err := coupon.New(in)
	if err != nil {
		return models.Coupon{}, s.reject("create coupon", err)
	}
	if err := s.repo.Add(ctx, c); err != nil {
		return models.Coupon{}, s.reject("create coupon", err)
	}

	s.logger.Info("coupon created", "code", c.Code, "type", c.DiscountType)
	s.notifier.Notify("Coupon added.", notify.SeveritySuccess)
	return c, nil
}

func (s *CouponService) RemoveCoupon(ctx context.Context, code string) error {
	if err := s.repo.Remove(ctx, code); err != nil {
		return s.reject("remove coupon", err)
	}

	s.logger.Info("coupon removed", "code", coupon.NormalizeCode(code))
	s.notifier.Notify("Coupon removed.", notify.SeveritySuccess)
	return nil
}

// ImportCoupons adds coupons from a seed source. Existing codes are kept and
// the imported duplicate skipped. It returns how many were added.
func (s *CouponService) ImportCoupons(ctx context.Context, coupons []models.Coupon) (int, error) {
	added := 0
	for _, c := range coupons {
		err := s.repo.Add(ctx, c)
		switch {
		case err == nil:
			added++
		case errors.Is(err, models.ErrDuplicateCode):
			s.logger.Debug("seed coupon already present", "code", c.Code)
		default:
			return added, err
		}
	}

	s.logger.Info("seed coupons imported", "added", added, "offered", len(coupons))
	return added, nil
}

func (s *CouponService) reject(op string, err error) error {
	s.notifier.Notify(rejectionMessage(err), notify.SeverityError)
	s.logger.Debug("coupon change rejected", "op", op, "error", err)
	return err
}
