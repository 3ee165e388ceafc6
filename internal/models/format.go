package models

import (
	"fmt"
	"math"
	"strconv"
)

// FormatPrice renders an amount with thousands separators and the won suffix,
// e.g. 10000 -> "10,000원".
func FormatPrice(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return sign + string(out) + "원"
}

// FormatRate renders a fractional rate as a whole percentage, e.g. 0.1 -> "10%".
func FormatRate(rate float64) string {
	return fmt.Sprintf("%d%%", int64(math.Round(rate*100)))
}

// NextTierGap reports how many more units are needed to reach the next tier
// above quantity. ok is false when no higher tier exists.
func NextTierGap(tiers []DiscountTier, quantity int) (gap int, ok bool) {
	for _, tier := range SortTiers(tiers) {
		if tier.Quantity > quantity {
			return tier.Quantity - quantity, true
		}
	}
	return 0, false
}
