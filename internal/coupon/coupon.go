// Package coupon defines coupon creation rules, eligibility and the monetary
// effect of a coupon on a subtotal, plus seed loading from external sources.
package coupon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// MaxPercentage caps percentage coupon values.
const MaxPercentage = 100

var codePattern = regexp.MustCompile(`^[A-Z0-9]{4,12}$`)

// NormalizeCode trims and uppercases a coupon code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether code (already normalized) is 4-12 uppercase
// letters or digits.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// New validates in and builds a normalized coupon.
func New(in models.CouponInput) (models.Coupon, error) {
	name := strings.TrimSpace(in.Name)
	code := NormalizeCode(in.Code)

	if name == "" {
		return models.Coupon{}, fmt.Errorf("%w: coupon name is required", models.ErrInvalidInput)
	}
	if code == "" {
		return models.Coupon{}, fmt.Errorf("%w: coupon code is required", models.ErrInvalidInput)
	}
	if !ValidCode(code) {
		return models.Coupon{}, fmt.Errorf("%w: coupon code must be 4-12 uppercase letters or digits", models.ErrInvalidInput)
	}

	switch in.DiscountType {
	case models.DiscountAmount, models.DiscountPercentage:
	default:
		return models.Coupon{}, fmt.Errorf("%w: discount type must be amount or percentage", models.ErrInvalidInput)
	}

	if !(in.DiscountValue > 0) {
		return models.Coupon{}, fmt.Errorf("%w: discount value must be greater than 0", models.ErrInvalidInput)
	}
	if in.DiscountType == models.DiscountPercentage && in.DiscountValue > MaxPercentage {
		return models.Coupon{}, fmt.Errorf("%w: percentage discount must be at most %d", models.ErrInvalidInput, MaxPercentage)
	}

	return models.Coupon{
		Code:          code,
		Name:          name,
		DiscountType:  in.DiscountType,
		DiscountValue: in.DiscountValue,
	}, nil
}
