package session

import (
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/coupon"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/pricing"
)

// LineView is one priced cart line. NextTierGap is the extra quantity needed
// to reach the next discount tier, 0 when no higher tier exists.
type LineView struct {
	ProductID      string  `json:"productId"`
	Name           string  `json:"name"`
	UnitPrice      int64   `json:"unitPrice"`
	Quantity       int     `json:"quantity"`
	DiscountRate   float64 `json:"discountRate"`
	Gross          int64   `json:"gross"`
	Total          int64   `json:"total"`
	RemainingStock int     `json:"remainingStock"`
	LowStock       bool    `json:"lowStock"`
	NextTierGap    int     `json:"nextTierGap,omitempty"`
	FormattedTotal string  `json:"formattedTotal"`
	FormattedRate  string  `json:"formattedRate,omitempty"`
}

// View is a consistent, priced snapshot of the session.
type View struct {
	Lines          []LineView      `json:"lines"`
	ItemCount      int             `json:"itemCount"`
	BulkBonus      bool            `json:"bulkBonus"`
	Subtotal       int64           `json:"subtotal"`
	Totals         models.Totals   `json:"totals"`
	Discount       int64           `json:"discount"`
	CouponDiscount int64           `json:"couponDiscount"`
	SelectedCoupon *models.Coupon  `json:"selectedCoupon"`
	Formatted      FormattedTotals `json:"formatted"`
}

// FormattedTotals are display strings for the cart totals.
type FormattedTotals struct {
	BeforeDiscount string `json:"totalBeforeDiscount"`
	AfterDiscount  string `json:"totalAfterDiscount"`
	Discount       string `json:"discount"`
}

func (s *Session) view(st *state) View {
	items := pricing.Resolve(st.cart, s.catalog)
	priced := pricing.PriceLines(items)
	totals := pricing.CartTotals(items, st.coupon)
	subtotal := pricing.Subtotal(items)

	v := View{
		Lines:     make([]LineView, 0, len(priced)),
		BulkBonus: pricing.HasBulkPurchase(items),
		Subtotal:  subtotal,
		Totals:    totals,
		Discount:  totals.Discount(),
		Formatted: FormattedTotals{
			BeforeDiscount: models.FormatPrice(totals.BeforeDiscount),
			AfterDiscount:  models.FormatPrice(totals.AfterDiscount),
			Discount:       models.FormatPrice(totals.Discount()),
		},
	}
	if st.coupon != nil {
		c := *st.coupon
		v.SelectedCoupon = &c
		v.CouponDiscount = coupon.DiscountAmount(c, subtotal)
	}

	for _, line := range priced {
		rate, _ := line.Rate.Float64()
		remaining := cart.RemainingStock(line.Product, st.cart)
		lv := LineView{
			ProductID:      line.Product.ID,
			Name:           line.Product.Name,
			UnitPrice:      line.Product.Price,
			Quantity:       line.Quantity,
			DiscountRate:   rate,
			Gross:          line.Gross(),
			Total:          line.Total,
			RemainingStock: remaining,
			LowStock:       remaining > 0 && remaining <= models.LowStockThreshold,
			FormattedTotal: models.FormatPrice(line.Total),
		}
		if rate > 0 {
			lv.FormattedRate = models.FormatRate(rate)
		}
		if gap, ok := models.NextTierGap(line.Product.Discounts, line.Quantity); ok {
			lv.NextTierGap = gap
		}
		v.ItemCount += line.Quantity
		v.Lines = append(v.Lines, lv)
	}
	return v
}
