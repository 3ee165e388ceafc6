package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/coupon"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// PricedLine is an item with its computed rate and total.
type PricedLine struct {
	Item
	Rate  decimal.Decimal
	Total int64
}

// Gross is the undiscounted line amount.
func (l PricedLine) Gross() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// PriceLines prices every item against the whole cart.
func PriceLines(items []Item) []PricedLine {
	lines := make([]PricedLine, len(items))
	for i, item := range items {
		lines[i] = PricedLine{
			Item:  item,
			Rate:  LineDiscountRate(item, items),
			Total: LineTotal(item, items),
		}
	}
	return lines
}

// Subtotal is the sum of line totals before any coupon.
func Subtotal(items []Item) int64 {
	var sum int64
	for _, item := range items {
		sum += LineTotal(item, items)
	}
	return sum
}

// CartTotals returns the undiscounted total and the total after line
// discounts and, when selected is non-nil, the coupon.
func CartTotals(items []Item, selected *models.Coupon) models.Totals {
	var before int64
	for _, item := range items {
		before += item.Product.Price * int64(item.Quantity)
	}

	after := Subtotal(items)
	if selected != nil {
		after = coupon.Apply(*selected, after)
	}

	return models.Totals{BeforeDiscount: before, AfterDiscount: after}
}
