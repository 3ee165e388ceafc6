package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/repository"
)

// ProductService handles catalog management. Every outcome, success or
// rejection, is reported to the notification sink.
type ProductService struct {
	repo     repository.ProductRepository
	notifier notify.Sink
	logger   *slog.Logger
	newID    func() string
}

// NewProductService creates a new product service
func NewProductService(repo repository.ProductRepository, notifier notify.Sink, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// ListProducts returns products matching query, all of them when it is empty.
func (s *ProductService) ListProducts(ctx context.Context, query string) ([]models.Product, error) {
	return s.repo.List(ctx, query)
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// FindProduct implements cart.Catalog.
func (s *ProductService) FindProduct(id string) (models.Product, bool) {
	return s.repo.FindProduct(id)
}

func (s *ProductService) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	product, err := models.NewProduct(s.newID(), in)
	if err != nil {
		return models.Product{}, s.reject("create product", err)
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return models.Product{}, s.reject("create product", err)
	}

	s.logger.Info("product created", "product_id", product.ID, "name", product.Name)
	s.notifier.Notify("Product added.", notify.SeveritySuccess)
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	return s.mutate(ctx, id, "update product", "Product updated.", patch.Apply)
}

func (s *ProductService) UpdateStock(ctx context.Context, id string, stock int) (models.Product, error) {
	return s.mutate(ctx, id, "update stock", "Stock updated.", func(p models.Product) (models.Product, error) {
		if err := models.ValidateStock(stock); err != nil {
			return models.Product{}, err
		}
		p.Stock = stock
		return p, nil
	})
}

func (s *ProductService) AddDiscountTier(ctx context.Context, id string, tier models.DiscountTier) (models.Product, error) {
	return s.mutate(ctx, id, "add discount tier", "Discount tier added.", func(p models.Product) (models.Product, error) {
		tiers := append(append([]models.DiscountTier(nil), p.Discounts...), tier)
		return models.ProductPatch{Discounts: &tiers}.Apply(p)
	})
}

func (s *ProductService) RemoveDiscountTier(ctx context.Context, id string, quantity int) (models.Product, error) {
	return s.mutate(ctx, id, "remove discount tier", "Discount tier removed.", func(p models.Product) (models.Product, error) {
		tiers := make([]models.DiscountTier, 0, len(p.Discounts))
		for _, tier := range p.Discounts {
			if tier.Quantity != quantity {
				tiers = append(tiers, tier)
			}
		}
		if len(tiers) == len(p.Discounts) {
			return models.Product{}, fmt.Errorf("%w: no tier at quantity %d", models.ErrNotFound, quantity)
		}
		p.Discounts = tiers
		return p, nil
	})
}

func (s *ProductService) RemoveProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.reject("remove product", err)
	}

	s.logger.Info("product removed", "product_id", id)
	s.notifier.Notify("Product removed.", notify.SeveritySuccess)
	return nil
}

// mutate loads id, applies change and stores the result.
func (s *ProductService) mutate(ctx context.Context, id, op, success string, change func(models.Product) (models.Product, error)) (models.Product, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, s.reject(op, err)
	}

	next, err := change(current)
	if err != nil {
		return models.Product{}, s.reject(op, err)
	}
	next.ID = current.ID

	if err := s.repo.Update(ctx, next); err != nil {
		return models.Product{}, s.reject(op, err)
	}

	s.logger.Info("product updated", "op", op, "product_id", id)
	s.notifier.Notify(success, notify.SeveritySuccess)
	return next, nil
}

func (s *ProductService) reject(op string, err error) error {
	s.notifier.Notify(rejectionMessage(err), notify.SeverityError)
	s.logger.Debug("catalog change rejected", "op", op, "error", err)
	return err
}

// rejectionMessage turns a sentinel into a user-facing message.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrDuplicateName):
		return "A product with this name already exists."
	case errors.Is(err, models.ErrDuplicateCode):
		return "A coupon with this code already exists."
	case errors.Is(err, models.ErrNotFound):
		return "Not found."
	case errors.Is(err, models.ErrInvalidInput):
		return "Invalid input: " + err.Error()
	default:
		return "Something went wrong. Please try again."
	}
}
