package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/events"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/session"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
)

type testServer struct {
	handler http.Handler
	center  *notify.Center
}

type staticStats map[string]interface{}

func (s staticStats) Stats() map[string]interface{} { return s }

// newTestServer builds the full HTTP stack over an in-memory store with the
// default seed catalog and coupons.
func newTestServer(t *testing.T, checks map[string]Check) *testServer {
	t.Helper()

	ctx := context.Background()
	log := logger.New("error")
	kv := store.NewMemory()
	center := notify.NewCenter(log)

	productRepo := repository.NewStoredProductRepository(ctx, kv, log)
	couponRepo := repository.NewStoredCouponRepository(ctx, kv, log)

	productService := service.NewProductService(productRepo, center, log)
	couponService := service.NewCouponService(couponRepo, center, log)
	orderService := service.NewOrderService(events.Noop{}, log)

	m := metrics.New()
	sess := session.New(ctx, session.Deps{
		Catalog:  productService,
		Coupons:  couponService,
		Orders:   orderService,
		Store:    kv,
		Notifier: center,
		Recorder: m,
		Logger:   log,
	})

	handler := NewRouter(RouterConfig{
		Logger:        log,
		Metrics:       m,
		Health:        NewHealthHandler(log, checks),
		Products:      NewProductHandler(productService, log),
		Coupons:       NewCouponHandler(couponService, sess, staticStats{"total_sources": 1, "total_coupons": 7}, log),
		Cart:          NewCartHandler(sess, log),
		Orders:        NewOrderHandler(sess, log),
		Notifications: NewNotificationHandler(center, log),
	})

	return &testServer{handler: handler, center: center}
}

// do sends a request with an optional JSON body and returns the recorder.
func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, w, &body)
	return body["error"]
}

var errDown = errors.New("connection refused")
