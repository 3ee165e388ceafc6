package models

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Catalog limits.
const (
	MaxProductNameLength = 100
	MaxProductPrice      = 10_000_000
	MaxStock             = 100_000
	MaxTierQuantity      = 1000
	LowStockThreshold    = 5
)

// DiscountTier grants Rate off a line once its quantity reaches Quantity.
type DiscountTier struct {
	Quantity int     `json:"quantity"`
	Rate     float64 `json:"rate"`
}

// Product is a catalog entry. Price is in whole currency units.
type Product struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Price         int64          `json:"price"`
	Stock         int            `json:"stock"`
	Description   string         `json:"description,omitempty"`
	Discounts     []DiscountTier `json:"discounts"`
	IsRecommended bool           `json:"isRecommended,omitempty"`
}

// ProductInput carries the fields needed to create a product.
type ProductInput struct {
	Name          string         `json:"name"`
	Price         int64          `json:"price"`
	Stock         int            `json:"stock"`
	Description   string         `json:"description"`
	Discounts     []DiscountTier `json:"discounts"`
	IsRecommended bool           `json:"isRecommended"`
}

// ProductPatch is a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name          *string         `json:"name,omitempty"`
	Price         *int64          `json:"price,omitempty"`
	Stock         *int            `json:"stock,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Discounts     *[]DiscountTier `json:"discounts,omitempty"`
	IsRecommended *bool           `json:"isRecommended,omitempty"`
}

// NewProduct validates in and builds a normalized product with the given id.
// No product is returned when validation fails.
func NewProduct(id string, in ProductInput) (Product, error) {
	p := Product{
		ID:            id,
		Name:          in.Name,
		Price:         in.Price,
		Stock:         in.Stock,
		Description:   strings.TrimSpace(in.Description),
		Discounts:     in.Discounts,
		IsRecommended: in.IsRecommended,
	}
	return p.Normalize()
}

// Apply returns a copy of p with the patch applied and re-validated as a whole.
func (patch ProductPatch) Apply(p Product) (Product, error) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Discounts != nil {
		p.Discounts = *patch.Discounts
	}
	if patch.IsRecommended != nil {
		p.IsRecommended = *patch.IsRecommended
	}
	return p.Normalize()
}

// Validate checks every catalog constraint on p.
func (p Product) Validate() error {
	if err := ValidateProductName(p.Name); err != nil {
		return err
	}
	if err := ValidatePrice(p.Price); err != nil {
		return err
	}
	if err := ValidateStock(p.Stock); err != nil {
		return err
	}
	return ValidateTiers(p.Discounts)
}

// Normalize trims the name, validates p as a whole and sorts its tiers.
func (p Product) Normalize() (Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	p.Discounts = SortTiers(p.Discounts)
	return p, nil
}

// ValidateProductName requires 1 to 100 characters after trimming.
func ValidateProductName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 1 || n > MaxProductNameLength {
		return fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, MaxProductNameLength)
	}
	return nil
}

// ValidatePrice requires 0 < price <= 10,000,000.
func ValidatePrice(price int64) error {
	if price <= 0 || price > MaxProductPrice {
		return fmt.Errorf("%w: price must be greater than 0 and at most %d", ErrInvalidInput, MaxProductPrice)
	}
	return nil
}

// ValidateStock requires 0 <= stock <= 100,000.
func ValidateStock(stock int) error {
	if stock < 0 || stock > MaxStock {
		return fmt.Errorf("%w: stock must be between 0 and %d", ErrInvalidInput, MaxStock)
	}
	return nil
}

// ValidateTier checks a single tier's quantity and rate ranges.
func ValidateTier(tier DiscountTier) error {
	if tier.Quantity < 1 || tier.Quantity > MaxTierQuantity {
		return fmt.Errorf("%w: tier quantity must be between 1 and %d", ErrInvalidInput, MaxTierQuantity)
	}
	if !(tier.Rate > 0 && tier.Rate <= 1) {
		return fmt.Errorf("%w: tier rate must be greater than 0 and at most 1", ErrInvalidInput)
	}
	return nil
}

// ValidateTiers checks every tier and rejects repeated quantity thresholds.
func ValidateTiers(tiers []DiscountTier) error {
	seen := make(map[int]struct{}, len(tiers))
	for _, tier := range tiers {
		if err := ValidateTier(tier); err != nil {
			return err
		}
		if _, dup := seen[tier.Quantity]; dup {
			return fmt.Errorf("%w: duplicate tier quantity %d", ErrInvalidInput, tier.Quantity)
		}
		seen[tier.Quantity] = struct{}{}
	}
	return nil
}

// SortTiers returns a copy of tiers ordered by quantity threshold.
func SortTiers(tiers []DiscountTier) []DiscountTier {
	sorted := make([]DiscountTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Quantity < sorted[j].Quantity })
	return sorted
}
