// Package session owns the shopper's cart and coupon selection. Writers are
// serialized and replace the whole state in one swap; readers always see a
// complete snapshot.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/coupon"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/pricing"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
)

// CouponFinder resolves coupons by code.
type CouponFinder interface {
	FindCoupon(ctx context.Context, code string) (models.Coupon, error)
}

// OrderCompleter turns a priced cart into an order and announces it.
// NewOrder runs under the session lock and must not block; PublishOrder
// runs after the lock is released.
type OrderCompleter interface {
	NewOrder(lines []pricing.PricedLine, totals models.Totals, couponCode string) models.Order
	PublishOrder(ctx context.Context, order models.Order)
}

// Recorder receives operational counters.
type Recorder interface {
	CartRejected(reason string)
	OrderCompleted()
}

type nopRecorder struct{}

func (nopRecorder) CartRejected(string) {}
func (nopRecorder) OrderCompleted()     {}

// state is immutable once published.
type state struct {
	cart   cart.Cart
	coupon *models.Coupon
}

// Session is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	current atomic.Pointer[state]

	catalog  cart.Catalog
	coupons  CouponFinder
	orders   OrderCompleter
	store    store.Store
	notifier notify.Sink
	recorder Recorder
	logger   *slog.Logger
}

// Deps are the collaborators of a Session.
type Deps struct {
	Catalog  cart.Catalog
	Coupons  CouponFinder
	Orders   OrderCompleter
	Store    store.Store
	Notifier notify.Sink
	Recorder Recorder
	Logger   *slog.Logger
}

// persistedLine is the stored cart shape: the product as it was when saved
// and the quantity. Only the product id is trusted on load.
type persistedLine struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// New restores the cart from the store and reconciles it with the catalog.
func New(ctx context.Context, deps Deps) *Session {
	s := &Session{
		catalog:  deps.Catalog,
		coupons:  deps.Coupons,
		orders:   deps.Orders,
		store:    deps.Store,
		notifier: deps.Notifier,
		recorder: deps.Recorder,
		logger:   deps.Logger,
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	if s.notifier == nil {
		s.notifier = notify.Discard{}
	}

	saved := store.Load(ctx, s.store, s.logger, store.KeyCart, []persistedLine(nil))
	restored := make(cart.Cart, 0, len(saved))
	for _, line := range saved {
		restored = append(restored, models.CartLine{ProductID: line.Product.ID, Quantity: line.Quantity})
	}
	reconciled, adjustments := cart.Reconcile(restored, s.catalog)
	if len(adjustments) > 0 {
		s.logger.Info("restored cart reconciled with catalog", "adjustments", len(adjustments))
	}
	s.current.Store(&state{cart: reconciled})
	return s
}

// AddToCart adds one unit of productID.
func (s *Session) AddToCart(ctx context.Context, productID string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.prepareLocked(ctx)

	product, ok := s.catalog.FindProduct(productID)
	if !ok {
		return s.rejectLocked(st, "not_found", "Product not found.",
			fmt.Errorf("%w: product %s", models.ErrNotFound, productID))
	}

	next, err := cart.AddLine(st.cart, product)
	if err != nil {
		reason := "out_of_stock"
		if errors.Is(err, cart.ErrStockExceeded) {
			reason = "stock_exceeded"
		}
		return s.rejectLocked(st, reason, "Not enough stock!", err)
	}

	st = s.commitLocked(ctx, &state{cart: next, coupon: st.coupon})
	s.notifier.Notify("Added to cart.", notify.SeveritySuccess)
	return s.view(st), nil
}

// RemoveFromCart drops productID's line. Removing an absent line is a no-op.
func (s *Session) RemoveFromCart(ctx context.Context, productID string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.prepareLocked(ctx)
	if _, ok := st.cart.Find(productID); !ok {
		return s.view(st), nil
	}

	st = s.commitLocked(ctx, &state{cart: cart.RemoveLine(st.cart, productID), coupon: st.coupon})
	return s.view(st), nil
}

// UpdateQuantity sets productID's quantity; <= 0 removes the line. A quantity
// above stock is clamped: the clamped cart is committed and returned together
// with an error wrapping cart.ErrStockExceeded.
func (s *Session) UpdateQuantity(ctx context.Context, productID string, quantity int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.prepareLocked(ctx)

	next, err := cart.SetQuantity(st.cart, s.catalog, productID, quantity)
	switch {
	case err == nil:
	case errors.Is(err, cart.ErrStockExceeded):
		st = s.commitLocked(ctx, &state{cart: next, coupon: st.coupon})
		product, _ := s.catalog.FindProduct(productID)
		s.recorder.CartRejected("stock_exceeded")
		s.notifier.Notify(fmt.Sprintf("Only %d in stock.", product.Stock), notify.SeverityError)
		return s.view(st), err
	default:
		return s.rejectLocked(st, "not_found", "Product not found.", err)
	}

	st = s.commitLocked(ctx, &state{cart: next, coupon: st.coupon})
	return s.view(st), nil
}

// SelectCoupon selects the coupon with code if the current subtotal
// qualifies for it.
func (s *Session) SelectCoupon(ctx context.Context, code string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.prepareLocked(ctx)

	c, err := s.coupons.FindCoupon(ctx, code)
	if err != nil {
		return s.rejectLocked(st, "coupon_not_found", "Coupon not found.", err)
	}

	subtotal := pricing.Subtotal(pricing.Resolve(st.cart, s.catalog))
	if err := coupon.CheckSelectable(c, subtotal); err != nil {
		msg := fmt.Sprintf("Percentage coupons require an order of at least %s.", models.FormatPrice(coupon.MinOrderForPercentage))
		return s.rejectLocked(st, "coupon_not_applicable", msg, err)
	}

	st = s.commitLocked(ctx, &state{cart: st.cart, coupon: &c})
	s.notifier.Notify("Coupon applied.", notify.SeveritySuccess)
	return s.view(st), nil
}

// ClearCoupon deselects the coupon.
func (s *Session) ClearCoupon(ctx context.Context) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.prepareLocked(ctx)
	st = s.commitLocked(ctx, &state{cart: st.cart})
	s.notifier.Notify("Coupon cleared.", notify.SeveritySuccess)
	return s.view(st)
}

// View returns the priced cart. When the catalog has moved under the cart
// the reconciled state is committed first.
func (s *Session) View(ctx context.Context) View {
	st := s.current.Load()
	if _, adjustments := cart.Reconcile(st.cart, s.catalog); len(adjustments) == 0 && s.couponCurrent(ctx, st) {
		return s.view(st)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.prepareLocked(ctx))
}

// Subtotal is the cart total after line discounts and before the coupon.
func (s *Session) Subtotal(ctx context.Context) int64 {
	return s.View(ctx).Subtotal
}

// CompleteOrder checks out the current cart and resets the session to an
// empty cart with no coupon in a single swap. The order event is published
// once the session is free again, so cart writes never wait on the broker.
func (s *Session) CompleteOrder(ctx context.Context) (models.Order, View) {
	order, view := s.checkout(ctx)
	s.orders.PublishOrder(ctx, order)
	return order, view
}

func (s *Session) checkout(ctx context.Context) (models.Order, View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.prepareLocked(ctx)

	items := pricing.Resolve(st.cart, s.catalog)
	lines := pricing.PriceLines(items)
	totals := pricing.CartTotals(items, st.coupon)

	code := ""
	if st.coupon != nil {
		code = st.coupon.Code
	}
	order := s.orders.NewOrder(lines, totals, code)

	st = s.commitLocked(ctx, &state{})
	s.recorder.OrderCompleted()
	s.notifier.Notify(fmt.Sprintf("Order completed. Order number: %s", order.ID), notify.SeveritySuccess)
	return order, s.view(st)
}

// prepareLocked reconciles the current state with the live catalog and
// coupon list, committing and announcing any change.
func (s *Session) prepareLocked(ctx context.Context) *state {
	st := s.current.Load()

	reconciled, adjustments := cart.Reconcile(st.cart, s.catalog)
	selected := st.coupon
	couponDropped := false
	if selected != nil {
		if c, err := s.coupons.FindCoupon(ctx, selected.Code); err != nil {
			selected = nil
			couponDropped = true
		} else if c != *selected {
			selected = &c
		}
	}

	if len(adjustments) == 0 && !couponDropped && selected == st.coupon {
		return st
	}

	next := s.commitLocked(ctx, &state{cart: reconciled, coupon: selected})
	if len(adjustments) > 0 {
		s.logger.Info("cart reconciled with catalog", "adjustments", adjustments)
		s.notifier.Notify("Your cart was updated to match current stock.", notify.SeverityWarning)
	}
	if couponDropped {
		s.notifier.Notify("The selected coupon is no longer available.", notify.SeverityWarning)
	}
	return next
}

// couponCurrent reports whether st's coupon still matches the coupon list.
func (s *Session) couponCurrent(ctx context.Context, st *state) bool {
	if st.coupon == nil {
		return true
	}
	c, err := s.coupons.FindCoupon(ctx, st.coupon.Code)
	return err == nil && c == *st.coupon
}

func (s *Session) commitLocked(ctx context.Context, next *state) *state {
	s.current.Store(next)

	lines := make([]persistedLine, 0, len(next.cart))
	for _, line := range next.cart {
		product, ok := s.catalog.FindProduct(line.ProductID)
		if !ok {
			product = models.Product{ID: line.ProductID}
		}
		lines = append(lines, persistedLine{Product: product, Quantity: line.Quantity})
	}
	if err := store.SaveSlice(ctx, s.store, store.KeyCart, lines); err != nil {
		s.logger.Error("failed to persist cart", "error", err)
	}
	return next
}

// rejectLocked reports a rejected operation. The state is not changed.
func (s *Session) rejectLocked(st *state, reason, message string, err error) (View, error) {
	s.recorder.CartRejected(reason)
	s.notifier.Notify(message, notify.SeverityError)
	s.logger.Debug("cart operation rejected", "reason", reason, "error", err)
	return s.view(st), err
}
