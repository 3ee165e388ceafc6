// Package pricing computes per-line discount rates and cart totals. All
// functions are pure: the same items and coupon always give the same result.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// BulkQuantityThreshold is the line quantity that turns on the bulk bonus for
// the whole cart.
const BulkQuantityThreshold = 10

var (
	// BulkBonusRate is added to every line's rate while any line is bulk.
	BulkBonusRate = decimal.RequireFromString("0.05")
	// MaxDiscountRate caps any line's rate.
	MaxDiscountRate = decimal.RequireFromString("0.5")
)

var one = decimal.NewFromInt(1)

// Item is a cart line bound to the live product.
type Item struct {
	Product  models.Product
	Quantity int
}

// Resolve binds cart lines to the catalog in cart order. Lines whose product
// is missing are skipped.
func Resolve(c cart.Cart, catalog cart.Catalog) []Item {
	items := make([]Item, 0, len(c))
	for _, line := range c {
		product, ok := catalog.FindProduct(line.ProductID)
		if !ok {
			continue
		}
		items = append(items, Item{Product: product, Quantity: line.Quantity})
	}
	return items
}

// BaseRate is the highest tier rate whose threshold quantity reaches.
func BaseRate(tiers []models.DiscountTier, quantity int) decimal.Decimal {
	best := decimal.Zero
	for _, tier := range tiers {
		if quantity < tier.Quantity {
			continue
		}
		if rate := decimal.NewFromFloat(tier.Rate); rate.GreaterThan(best) {
			best = rate
		}
	}
	return best
}

// HasBulkPurchase reports whether any line reaches BulkQuantityThreshold.
func HasBulkPurchase(items []Item) bool {
	for _, item := range items {
		if item.Quantity >= BulkQuantityThreshold {
			return true
		}
	}
	return false
}

// LineDiscountRate is the rate for item given the whole cart: its base tier
// rate plus the bulk bonus when any line is bulk, capped at MaxDiscountRate.
func LineDiscountRate(item Item, items []Item) decimal.Decimal {
	rate := BaseRate(item.Product.Discounts, item.Quantity)
	if HasBulkPurchase(items) {
		rate = rate.Add(BulkBonusRate)
	}
	return decimal.Min(rate, MaxDiscountRate)
}

// LineTotal is price * quantity * (1 - rate), rounded half away from zero once.
func LineTotal(item Item, items []Item) int64 {
	gross := decimal.NewFromInt(item.Product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
	rate := LineDiscountRate(item, items)
	return gross.Mul(one.Sub(rate)).Round(0).IntPart()
}
