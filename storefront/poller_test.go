package storefront

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria-service/models"
)

type countingSource struct {
	calls atomic.Int32
}

func (c *countingSource) ListSettings(context.Context) (map[string]string, error) {
	c.calls.Add(1)
	return map[string]string{models.SettingBroadcastGraphics: `{"activeScene":"LIVE"}`}, nil
}

func startPoller(t *testing.T, p *Poller) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestPollerPollsWhileVisible(t *testing.T) {
	src := &countingSource{}
	applied := make(chan map[string]string, 16)
	p := NewPoller(src, 10*time.Millisecond, true, func(m map[string]string) {
		select {
		case applied <- m:
		default:
		}
	})
	startPoller(t, p)

	select {
	case m := <-applied:
		assert.Contains(t, m, models.SettingBroadcastGraphics)
	case <-time.After(time.Second):
		t.Fatal("no poll while visible")
	}
	require.Eventually(t, func() bool { return src.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestPollerPausesWhileHidden(t *testing.T) {
	src := &countingSource{}
	p := NewPoller(src, 10*time.Millisecond, true, func(map[string]string) {})
	p.SetVisible(false)
	startPoller(t, p)

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, src.calls.Load())

	// regaining visibility polls immediately rather than on the next tick
	p.SetVisible(true)
	require.Eventually(t, func() bool { return src.calls.Load() >= 1 }, time.Second, time.Millisecond)
}

func TestPollerIgnoresVisibilityWhenNotGated(t *testing.T) {
	src := &countingSource{}
	p := NewPoller(src, 10*time.Millisecond, false, func(map[string]string) {})
	p.SetVisible(false)
	startPoller(t, p)

	require.Eventually(t, func() bool { return src.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestPollerFailureKeepsSettings(t *testing.T) {
	b := newFakeBackend()
	b.settings[models.SettingBroadcastGraphics] = `{"tickerText":"Promo"}`
	s := newStore(t, b, nil)

	p := NewPoller(b, time.Hour, true, s.ApplySettings)
	ctx, cancel := context.WithCancel(context.Background())
	p.poll(ctx)
	assert.Equal(t, "Promo", s.Graphics().TickerText)

	b.listErr = errOffline
	p.poll(ctx)
	assert.Equal(t, "Promo", s.Graphics().TickerText)
	cancel()
}

func TestNewPollerDefaultInterval(t *testing.T) {
	p := NewPoller(&countingSource{}, 0, true, func(map[string]string) {})
	assert.Equal(t, DefaultPollInterval, p.interval)
}
