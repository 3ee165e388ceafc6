package notify

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCenter(opts ...Option) (*Center, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewCenter(slog.New(slog.NewTextHandler(io.Discard, nil)), opts...), clock
}

func TestCenter_Expiry(t *testing.T) {
	c, clock := newTestCenter()

	c.Notify("first", SeveritySuccess)
	clock.Advance(2 * time.Second)
	c.Notify("second", SeverityError)

	active := c.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "first", active[0].Message)
	assert.Equal(t, "second", active[1].Message)
	assert.NotEqual(t, active[0].ID, active[1].ID)

	clock.Advance(time.Second)
	active = c.Active()
	require.Len(t, active, 1, "first should expire after exactly 3s")
	assert.Equal(t, "second", active[0].Message)

	clock.Advance(2 * time.Second)
	assert.Empty(t, c.Active())
}

func TestCenter_CustomTTL(t *testing.T) {
	c, clock := newTestCenter(WithTTL(10 * time.Second))

	c.Notify("adjusted 2 lines", SeverityWarning)
	clock.Advance(9 * time.Second)

	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "adjusted 2 lines", active[0].Message)
	assert.Equal(t, SeverityWarning, active[0].Severity)
}

func TestCenter_Dismiss(t *testing.T) {
	c, _ := newTestCenter()
	c.Notify("a", SeveritySuccess)
	c.Notify("b", SeveritySuccess)

	id := c.Active()[0].ID
	assert.True(t, c.Dismiss(id))
	assert.False(t, c.Dismiss(id))

	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "b", active[0].Message)
}

func TestCenter_LogsBySeverity(t *testing.T) {
	var buf bytes.Buffer
	c := NewCenter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	c.Notify("hidden", SeveritySuccess)
	c.Notify("shown", SeverityError)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseSeverity(t *testing.T) {
	sev, ok := ParseSeverity(" Warning ")
	assert.True(t, ok)
	assert.Equal(t, SeverityWarning, sev)

	_, ok = ParseSeverity("info")
	assert.False(t, ok)
}
