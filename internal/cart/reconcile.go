package cart

// Adjustment records how Reconcile changed one line.
type Adjustment struct {
	ProductID string `json:"productId"`
	From      int    `json:"from"`
	To        int    `json:"to"`
	Removed   bool   `json:"removed"`
}

// Reconcile re-binds every line to the live catalog. Lines whose product no
// longer exists, or whose product has no stock left, are dropped; quantities
// above current stock are clamped. Duplicate lines for one product are merged
// into the first occurrence before clamping.
func Reconcile(c Cart, catalog Catalog) (Cart, []Adjustment) {
	var adjustments []Adjustment

	merged := make(Cart, 0, len(c))
	index := make(map[string]int, len(c))
	for _, line := range c {
		if i, dup := index[line.ProductID]; dup {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}

	next := make(Cart, 0, len(merged))
	for _, line := range merged {
		product, ok := catalog.FindProduct(line.ProductID)
		switch {
		case !ok || product.Stock <= 0 || line.Quantity <= 0:
			adjustments = append(adjustments, Adjustment{ProductID: line.ProductID, From: line.Quantity, Removed: true})
		case line.Quantity > product.Stock:
			adjustments = append(adjustments, Adjustment{ProductID: line.ProductID, From: line.Quantity, To: product.Stock})
			line.Quantity = product.Stock
			next = append(next, line)
		default:
			next = append(next, line)
		}
	}

	return next, adjustments
}
