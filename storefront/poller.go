package storefront

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultPollInterval is how often settings are fetched while visible.
const DefaultPollInterval = 4 * time.Second

type SettingsSource interface {
	ListSettings(ctx context.Context) (map[string]string, error)
}

// Poller fetches the settings map on a fixed interval and hands every
// successful result to apply. With visibleOnly set it stays idle while
// hidden and polls at once when it becomes visible again.
type Poller struct {
	src         SettingsSource
	interval    time.Duration
	visibleOnly bool
	apply       func(map[string]string)

	mu      sync.Mutex
	visible bool
	wake    chan struct{}
}

func NewPoller(src SettingsSource, interval time.Duration, visibleOnly bool, apply func(map[string]string)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		src:         src,
		interval:    interval,
		visibleOnly: visibleOnly,
		apply:       apply,
		visible:     true,
		wake:        make(chan struct{}, 1),
	}
}

func (p *Poller) SetVisible(v bool) {
	p.mu.Lock()
	regained := v && !p.visible
	p.visible = v
	p.mu.Unlock()

	if regained && p.visibleOnly {
		select {
		case p.wake <- struct{}{}:
		default:
		}
	}
}

func (p *Poller) active() bool {
	if !p.visibleOnly {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// Run polls until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	if p.active() {
		p.poll(ctx)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.active() {
				p.poll(ctx)
			}
		case <-p.wake:
			if p.active() {
				p.poll(ctx)
				ticker.Reset(p.interval)
			}
		}
	}
}

// poll keeps the previous settings when the fetch fails.
func (p *Poller) poll(ctx context.Context) {
	settings, err := p.src.ListSettings(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("Settings poll skipped: %v", err)
		}
		return
	}
	p.apply(settings)
}
