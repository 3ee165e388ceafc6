// Package cart holds the cart line rules: stock accounting and quantity
// mutation. Every function treats its input as an immutable snapshot and
// returns a new one.
package cart

import (
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

var (
	// ErrOutOfStock rejects an addition when no stock remains. The cart is unchanged.
	ErrOutOfStock = errors.New("out of stock")
	// ErrStockExceeded reports a quantity above current stock. AddLine rejects
	// it; SetQuantity clamps and still returns the clamped cart.
	ErrStockExceeded = errors.New("stock exceeded")
)

// Catalog resolves the current state of a product.
type Catalog interface {
	FindProduct(id string) (models.Product, bool)
}

// Cart is an ordered set of lines with at most one line per product.
type Cart []models.CartLine

// Find returns the line for productID, if any.
func (c Cart) Find(productID string) (models.CartLine, bool) {
	for _, line := range c {
		if line.ProductID == productID {
			return line, true
		}
	}
	return models.CartLine{}, false
}

// Quantity is the quantity held for productID, or 0.
func (c Cart) Quantity(productID string) int {
	line, _ := c.Find(productID)
	return line.Quantity
}

// Clone returns an independent copy.
func (c Cart) Clone() Cart {
	if c == nil {
		return nil
	}
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// RemainingStock is product.Stock minus what the cart already holds.
// A result <= 0 means nothing more can be added.
func RemainingStock(product models.Product, c Cart) int {
	return product.Stock - c.Quantity(product.ID)
}

// AddLine adds one unit of product, inserting a new line when needed.
func AddLine(c Cart, product models.Product) (Cart, error) {
	if RemainingStock(product, c) <= 0 {
		return c, fmt.Errorf("%w: %s", ErrOutOfStock, product.Name)
	}

	next := c.Clone()
	for i := range next {
		if next[i].ProductID != product.ID {
			continue
		}
		quantity := next[i].Quantity + 1
		// re-check against the product as it is now, not as first read
		if quantity > product.Stock {
			return c, fmt.Errorf("%w: only %d of %s in stock", ErrStockExceeded, product.Stock, product.Name)
		}
		next[i].Quantity = quantity
		return next, nil
	}

	if product.Stock < 1 {
		return c, fmt.Errorf("%w: only %d of %s in stock", ErrStockExceeded, product.Stock, product.Name)
	}
	return append(next, models.CartLine{ProductID: product.ID, Quantity: 1}), nil
}

// RemoveLine drops the line for productID. Removing an absent line is a no-op.
func RemoveLine(c Cart, productID string) Cart {
	next := make(Cart, 0, len(c))
	for _, line := range c {
		if line.ProductID != productID {
			next = append(next, line)
		}
	}
	return next
}

// SetQuantity sets the quantity of an existing line. A quantity <= 0 removes
// the line. A quantity above stock is clamped to stock and reported with
// ErrStockExceeded alongside the clamped cart.
func SetQuantity(c Cart, catalog Catalog, productID string, quantity int) (Cart, error) {
	if quantity <= 0 {
		return RemoveLine(c, productID), nil
	}

	product, ok := catalog.FindProduct(productID)
	if !ok {
		return c, fmt.Errorf("%w: product %s", models.ErrNotFound, productID)
	}
	if _, ok := c.Find(productID); !ok {
		return c, fmt.Errorf("%w: product %s is not in the cart", models.ErrNotFound, productID)
	}

	var clampErr error
	if quantity > product.Stock {
		clampErr = fmt.Errorf("%w: only %d of %s in stock", ErrStockExceeded, product.Stock, product.Name)
		quantity = product.Stock
	}
	if quantity <= 0 {
		return RemoveLine(c, productID), clampErr
	}

	next := c.Clone()
	for i := range next {
		if next[i].ProductID == productID {
			next[i].Quantity = quantity
		}
	}
	return next, clampErr
}
