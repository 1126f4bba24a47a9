package storefront

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"pizzeria-service/models"
)

// Writer is the remote side the outbox delivers to.
type Writer interface {
	SaveOrder(ctx context.Context, sale models.SaleRecord) error
	SaveUser(ctx context.Context, user models.User) error
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error
}

type pendingWrite struct {
	kind string
	key  string
	run  func(ctx context.Context, w Writer) error
}

// Outbox delivers writes whose effect is already applied locally. Writes
// reach the backend strictly in the order they were enqueued: a write that
// fails stays queued, and every later write waits behind it until a Flush
// delivers the queue.
type Outbox struct {
	writer    Writer
	onFailure func(kind string, err error)

	// deliver is held for every backend call made by the outbox.
	deliver sync.Mutex

	mu      sync.Mutex
	pending []pendingWrite
}

func NewOutbox(w Writer, onFailure func(kind string, err error)) *Outbox {
	return &Outbox{writer: w, onFailure: onFailure}
}

func (o *Outbox) SaveOrder(ctx context.Context, sale models.SaleRecord) error {
	return o.Enqueue(ctx, "order", sale.ID, func(ctx context.Context, w Writer) error {
		return w.SaveOrder(ctx, sale)
	})
}

func (o *Outbox) SaveUser(ctx context.Context, user models.User) error {
	return o.Enqueue(ctx, "user", user.Phone, func(ctx context.Context, w Writer) error {
		return w.SaveUser(ctx, user)
	})
}

func (o *Outbox) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return o.Enqueue(ctx, "status", id, func(ctx context.Context, w Writer) error {
		return w.UpdateOrderStatus(ctx, id, status)
	})
}

// ErrQueued marks a write that was kept for a later Flush instead of being
// delivered.
var ErrQueued = errors.New("write queued for retry")

// Enqueue delivers run once every older write has been delivered. When the
// queue cannot be drained, or run itself fails, the write is queued and
// ErrQueued is returned along with the cause.
func (o *Outbox) Enqueue(ctx context.Context, kind, key string, run func(ctx context.Context, w Writer) error) error {
	o.deliver.Lock()
	defer o.deliver.Unlock()

	pw := pendingWrite{kind: kind, key: key, run: run}
	if o.Pending() > 0 {
		if err := o.flush(ctx, false); err != nil {
			o.push(pw)
			return fmt.Errorf("%s %s: %w: %w", kind, key, ErrQueued, err)
		}
	}
	if err := pw.run(ctx, o.writer); err != nil {
		o.push(pw)
		return fmt.Errorf("%s %s: %w: %w", kind, key, ErrQueued, err)
	}
	return nil
}

// Flush delivers the queued writes in order and stops at the first one
// that fails, leaving it and everything after it queued.
func (o *Outbox) Flush(ctx context.Context) error {
	o.deliver.Lock()
	defer o.deliver.Unlock()
	return o.flush(ctx, true)
}

// flush must be called with deliver held. report passes retry failures to
// onFailure.
func (o *Outbox) flush(ctx context.Context, report bool) error {
	for {
		o.mu.Lock()
		if len(o.pending) == 0 {
			o.mu.Unlock()
			return nil
		}
		pw := o.pending[0]
		o.mu.Unlock()

		if err := ctx.Err(); err != nil {
			return err
		}
		if err := pw.run(ctx, o.writer); err != nil {
			log.Printf("Retry of %s %s failed: %v", pw.kind, pw.key, err)
			if report && o.onFailure != nil {
				o.onFailure(pw.kind, err)
			}
			return fmt.Errorf("%s %s: %w", pw.kind, pw.key, err)
		}

		o.mu.Lock()
		o.pending = o.pending[1:]
		o.mu.Unlock()
	}
}

func (o *Outbox) push(pw pendingWrite) {
	o.mu.Lock()
	o.pending = append(o.pending, pw)
	o.mu.Unlock()
}

// Pending is the number of writes waiting for delivery.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}
