package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	List(ctx context.Context, query string) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, error)
	FindProduct(id string) (models.Product, bool)
	Create(ctx context.Context, product models.Product) error
	Update(ctx context.Context, product models.Product) error
	Delete(ctx context.Context, id string) error
}

// DefaultProducts seeds an empty catalog.
func DefaultProducts() []models.Product {
	return []models.Product{
		{
			ID: "p1", Name: "상품1", Price: 10000, Stock: 20,
			Description: "최고급 품질의 프리미엄 상품입니다.",
			Discounts:   []models.DiscountTier{{Quantity: 10, Rate: 0.1}, {Quantity: 20, Rate: 0.2}},
		},
		{
			ID: "p2", Name: "상품2", Price: 20000, Stock: 20,
			Description:   "다양한 기능을 갖춘 실용적인 상품입니다.",
			Discounts:     []models.DiscountTier{{Quantity: 10, Rate: 0.15}},
			IsRecommended: true,
		},
		{
			ID: "p3", Name: "상품3", Price: 30000, Stock: 20,
			Description: "대용량과 고성능을 자랑하는 상품입니다.",
			Discounts:   []models.DiscountTier{{Quantity: 10, Rate: 0.2}, {Quantity: 30, Rate: 0.25}},
		},
	}
}

// StoredProductRepository keeps the catalog in memory, in insertion order,
// and writes it through to a store on every change.
type StoredProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	store    store.Store
	logger   *slog.Logger
}

// NewStoredProductRepository loads the catalog from s, falling back to
// DefaultProducts when nothing usable is stored.
func NewStoredProductRepository(ctx context.Context, s store.Store, logger *slog.Logger) *StoredProductRepository {
	products := sanitizeProducts(store.Load(ctx, s, logger, store.KeyProducts, DefaultProducts()), logger)
	if len(products) == 0 {
		products = DefaultProducts()
	}
	logger.Info("product catalog loaded", "count", len(products))

	return &StoredProductRepository{
		products: products,
		store:    s,
		logger:   logger,
	}
}

// List returns products whose name or description contains query,
// case-insensitively. An empty query returns everything.
func (r *StoredProductRepository) List(ctx context.Context, query string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	products := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		if q == "" ||
			strings.Contains(strings.ToLower(product.Name), q) ||
			strings.Contains(strings.ToLower(product.Description), q) {
			products = append(products, product)
		}
	}
	return products, nil
}

// GetByID returns a product by its ID
func (r *StoredProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	product, ok := r.FindProduct(id)
	if !ok {
		return models.Product{}, fmt.Errorf("%w: product %s", models.ErrNotFound, id)
	}
	return product, nil
}

// FindProduct implements cart.Catalog.
func (r *StoredProductRepository) FindProduct(id string) (models.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexLocked(id); i >= 0 {
		return r.products[i], true
	}
	return models.Product{}, false
}

func (r *StoredProductRepository) Create(ctx context.Context, product models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexLocked(product.ID) >= 0 {
		return fmt.Errorf("%w: product id %s already exists", models.ErrInvalidInput, product.ID)
	}
	if r.nameTakenLocked(product.Name, "") {
		return fmt.Errorf("%w: %s", models.ErrDuplicateName, product.Name)
	}

	next := append(r.cloneLocked(), product)
	return r.commitLocked(ctx, next)
}

func (r *StoredProductRepository) Update(ctx context.Context, product models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(product.ID)
	if i < 0 {
		return fmt.Errorf("%w: product %s", models.ErrNotFound, product.ID)
	}
	if r.nameTakenLocked(product.Name, product.ID) {
		return fmt.Errorf("%w: %s", models.ErrDuplicateName, product.Name)
	}

	next := r.cloneLocked()
	next[i] = product
	return r.commitLocked(ctx, next)
}

func (r *StoredProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: product %s", models.ErrNotFound, id)
	}

	next := r.cloneLocked()
	next = append(next[:i], next[i+1:]...)
	return r.commitLocked(ctx, next)
}

func (r *StoredProductRepository) indexLocked(id string) int {
	for i, product := range r.products {
		if product.ID == id {
			return i
		}
	}
	return -1
}

// nameTakenLocked compares trimmed names exactly, ignoring the product excludeID.
func (r *StoredProductRepository) nameTakenLocked(name, excludeID string) bool {
	name = strings.TrimSpace(name)
	for _, product := range r.products {
		if product.ID != excludeID && strings.TrimSpace(product.Name) == name {
			return true
		}
	}
	return false
}

func (r *StoredProductRepository) cloneLocked() []models.Product {
	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out
}

// commitLocked persists next and only then makes it current.
func (r *StoredProductRepository) commitLocked(ctx context.Context, next []models.Product) error {
	if err := store.SaveSlice(ctx, r.store, store.KeyProducts, next); err != nil {
		return fmt.Errorf("persist products: %w", err)
	}
	r.products = next
	return nil
}

// sanitizeProducts re-validates stored products, dropping any that break a
// catalog rule or repeat an earlier id or name.
func sanitizeProducts(stored []models.Product, logger *slog.Logger) []models.Product {
	ids := make(map[string]struct{}, len(stored))
	names := make(map[string]struct{}, len(stored))
	out := make([]models.Product, 0, len(stored))

	for _, p := range stored {
		clean, err := p.Normalize()
		if err == nil && strings.TrimSpace(clean.ID) == "" {
			err = fmt.Errorf("%w: product id is required", models.ErrInvalidInput)
		}
		if err == nil {
			if _, dup := ids[clean.ID]; dup {
				err = fmt.Errorf("%w: duplicate product id %s", models.ErrInvalidInput, clean.ID)
			} else if _, dup := names[clean.Name]; dup {
				err = fmt.Errorf("%w: %s", models.ErrDuplicateName, clean.Name)
			}
		}
		if err != nil {
			logger.Warn("dropping invalid stored product", "product_id", p.ID, "error", err)
			continue
		}

		ids[clean.ID] = struct{}{}
		names[clean.Name] = struct{}{}
		out = append(out, clean)
	}
	return out
}
