package coupon

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// MinOrderForPercentage is the smallest subtotal a percentage coupon applies to.
const MinOrderForPercentage = 10_000

// ErrNotApplicable rejects selecting a coupon the subtotal does not qualify for.
var ErrNotApplicable = errors.New("coupon not applicable")

var hundred = decimal.NewFromInt(100)

// IsApplicable reports whether c may be selected against subtotal.
// Percentage coupons need a subtotal of at least MinOrderForPercentage;
// amount coupons have no minimum and are capped at the subtotal instead.
// The rule gates selection and listing only: once selected, a coupon keeps
// its effect when the cart later shrinks.
func IsApplicable(c models.Coupon, subtotal int64) bool {
	switch c.DiscountType {
	case models.DiscountPercentage:
		return subtotal >= MinOrderForPercentage
	case models.DiscountAmount:
		return true
	default:
		return false
	}
}

// CheckSelectable is IsApplicable with a reason attached.
func CheckSelectable(c models.Coupon, subtotal int64) error {
	if IsApplicable(c, subtotal) {
		return nil
	}
	if c.DiscountType == models.DiscountPercentage {
		return fmt.Errorf("%w: percentage coupons require an order of at least %s",
			ErrNotApplicable, models.FormatPrice(MinOrderForPercentage))
	}
	return fmt.Errorf("%w: unsupported discount type %s", ErrNotApplicable, c.DiscountType)
}

// DiscountAmount is the amount a selected coupon takes off subtotal. The
// selection minimum is not re-checked here.
func DiscountAmount(c models.Coupon, subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}

	total := decimal.NewFromInt(subtotal)
	value := decimal.NewFromFloat(c.DiscountValue)

	switch c.DiscountType {
	case models.DiscountAmount:
		return decimal.Min(value, total).Round(0).IntPart()
	case models.DiscountPercentage:
		return total.Mul(value).Div(hundred).Round(0).IntPart()
	default:
		return 0
	}
}

// Apply returns subtotal after c's discount, never below zero.
func Apply(c models.Coupon, subtotal int64) int64 {
	result := subtotal - DiscountAmount(c, subtotal)
	if result < 0 {
		return 0
	}
	return result
}

// Applicable filters coupons down to those selectable against subtotal,
// preserving order.
func Applicable(coupons []models.Coupon, subtotal int64) []models.Coupon {
	out := make([]models.Coupon, 0, len(coupons))
	for _, c := range coupons {
		if IsApplicable(c, subtotal) {
			out = append(out, c)
		}
	}
	return out
}
