package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingSink keeps every notification for assertions.
type recordingSink struct {
	messages   []string
	severities []notify.Severity
}

func (r *recordingSink) Notify(message string, severity notify.Severity) {
	r.messages = append(r.messages, message)
	r.severities = append(r.severities, severity)
}

func (r *recordingSink) last() notify.Severity {
	if len(r.severities) == 0 {
		return ""
	}
	return r.severities[len(r.severities)-1]
}

func newProductService(t *testing.T) (*ProductService, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	repo := repository.NewStoredProductRepository(context.Background(), store.NewMemory(), testLogger())
	svc := NewProductService(repo, sink, testLogger())
	svc.newID = func() string { return "new-id" }
	return svc, sink
}

func newCouponService(t *testing.T) (*CouponService, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	repo := repository.NewStoredCouponRepository(context.Background(), store.NewMemory(), testLogger())
	return NewCouponService(repo, sink, testLogger()), sink
}
