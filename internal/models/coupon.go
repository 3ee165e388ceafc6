package models

import (
	"fmt"
	"strings"
)

// DiscountType selects how a coupon's DiscountValue is interpreted.
type DiscountType int

const (
	// DiscountAmount subtracts DiscountValue currency units.
	DiscountAmount DiscountType = iota + 1
	// DiscountPercentage subtracts DiscountValue percent of the subtotal.
	DiscountPercentage
)

func (t DiscountType) String() string {
	switch t {
	case DiscountAmount:
		return "amount"
	case DiscountPercentage:
		return "percentage"
	default:
		return "unknown"
	}
}

// MarshalText encodes the type as "amount" or "percentage".
func (t DiscountType) MarshalText() ([]byte, error) {
	switch t {
	case DiscountAmount, DiscountPercentage:
		return []byte(t.String()), nil
	default:
		return nil, fmt.Errorf("%w: unknown discount type %d", ErrInvalidInput, int(t))
	}
}

// UnmarshalText accepts "amount" or "percentage", case-insensitively.
func (t *DiscountType) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "amount":
		*t = DiscountAmount
	case "percentage":
		*t = DiscountPercentage
	default:
		return fmt.Errorf("%w: unknown discount type %q", ErrInvalidInput, string(text))
	}
	return nil
}

// Coupon is an order-level discount identified by its code.
type Coupon struct {
	Code          string       `json:"code"`
	Name          string       `json:"name"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
}

// CouponInput carries the fields needed to create a coupon.
type CouponInput struct {
	Code          string       `json:"code"`
	Name          string       `json:"name"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
}
