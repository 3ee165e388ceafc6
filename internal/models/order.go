package models

import "time"

// CartLine references a product by id; the product itself is always read
// from the live catalog.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Totals are cart-level amounts. AfterDiscount includes the selected coupon.
type Totals struct {
	BeforeDiscount int64 `json:"totalBeforeDiscount"`
	AfterDiscount  int64 `json:"totalAfterDiscount"`
}

// Discount is the total amount saved.
func (t Totals) Discount() int64 {
	return t.BeforeDiscount - t.AfterDiscount
}

// OrderLine is a priced line frozen at completion time.
type OrderLine struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	UnitPrice    int64   `json:"unitPrice"`
	Quantity     int     `json:"quantity"`
	DiscountRate float64 `json:"discountRate"`
	Total        int64   `json:"total"`
}

// Order represents a completed checkout
type Order struct {
	ID          string      `json:"id"`
	Lines       []OrderLine `json:"lines"`
	Totals      Totals      `json:"totals"`
	CouponCode  string      `json:"couponCode,omitempty"`
	CompletedAt time.Time   `json:"completedAt"`
}
