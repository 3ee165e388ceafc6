// Package notify collects short-lived user-facing notifications.
package notify

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity of a notification.
type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
)

// DefaultTTL is how long a notification stays active.
const DefaultTTL = 3 * time.Second

// Sink receives notifications.
type Sink interface {
	Notify(message string, severity Severity)
}

// Notification is one message shown to the user.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Center is an in-memory Sink that expires notifications after a TTL.
type Center struct {
	mu     sync.Mutex
	items  []Notification
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// Option customizes a Center.
type Option func(*Center)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Center) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

func NewCenter(logger *slog.Logger, opts ...Option) *Center {
	c := &Center{
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify records message and logs it at a level matching severity.
func (c *Center) Notify(message string, severity Severity) {
	now := c.now()
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.mu.Lock()
	c.items = append(c.pruneLocked(now), n)
	c.mu.Unlock()

	switch severity {
	case SeverityError:
		c.logger.Warn("notification", "severity", severity, "message", message)
	case SeverityWarning:
		c.logger.Info("notification", "severity", severity, "message", message)
	default:
		c.logger.Debug("notification", "severity", severity, "message", message)
	}
}

// Active returns unexpired notifications, oldest first.
func (c *Center) Active() []Notification {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = c.pruneLocked(now)
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Dismiss removes the notification with id.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Center) pruneLocked(now time.Time) []Notification {
	kept := c.items[:0]
	for _, n := range c.items {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	return kept
}

// ParseSeverity maps a name to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(s))); sev {
	case SeverityError, SeveritySuccess, SeverityWarning:
		return sev, true
	default:
		return "", false
	}
}

// Discard is a Sink that drops everything.
type Discard struct{}

func (Discard) Notify(string, Severity) {}
