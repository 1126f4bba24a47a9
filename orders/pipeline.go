// Package orders turns a finished cart into a sale record, credits loyalty
// and drives the fulfilment status of sales.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"pizzeria-service/loyalty"
	"pizzeria-service/models"
)

var ErrNoUser = errors.New("no user profile")

// Writer persists the results of a checkout. Implementations may write
// directly or queue the write for later.
type Writer interface {
	SaveOrder(ctx context.Context, sale models.SaleRecord) error
	SaveUser(ctx context.Context, user models.User) error
}

type Publisher interface {
	PublishOrderEvent(ctx context.Context, evt models.OrderEvent) error
}

type Pipeline struct {
	writer    Writer
	publisher Publisher
	now       func() time.Time
	onFailure func(kind string, err error)

	mu   sync.Mutex
	last int64
}

type Option func(*Pipeline)

func WithPublisher(p Publisher) Option {
	return func(pl *Pipeline) { pl.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(pl *Pipeline) { pl.now = now }
}

// WithFailureHook is called for every failed write, with kind "order" or "user".
func WithFailureHook(fn func(kind string, err error)) Option {
	return func(pl *Pipeline) { pl.onFailure = fn }
}

func NewPipeline(w Writer, opts ...Option) *Pipeline {
	p := &Pipeline{writer: w, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type Result struct {
	Sale models.SaleRecord
	User models.User
	// WriteErr joins the persistence failures. The sale and the profile
	// are final even when it is set.
	WriteErr error
}

// ItemsDetail renders "2x MARGUERITA, 1x COCA-COLA".
func ItemsDetail(items []models.CartItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%dx %s", item.Quantity, item.Name)
	}
	return strings.Join(parts, ", ")
}

// Finalize records a checkout of items for user and credits the loyalty
// bonus. Every call is a distinct checkout; nothing is deduplicated.
func (p *Pipeline) Finalize(ctx context.Context, items []models.CartItem, zone *models.DeliveryZone, user *models.User, total int64) (Result, error) {
	if user == nil {
		return Result{}, ErrNoUser
	}

	ts := p.stamp()
	zoneName := models.PickupZoneName
	if zone != nil {
		zoneName = zone.Name
	}
	sale := models.SaleRecord{
		ID:            fmt.Sprintf("sale-%d", ts),
		Timestamp:     ts,
		Total:         total,
		ItemsCount:    len(items),
		ItemsDetail:   ItemsDetail(items),
		Items:         models.CloneItems(items),
		CustomerName:  user.Name,
		CustomerPhone: user.Phone,
		ZoneName:      zoneName,
		Status:        models.StatusReceived,
		PaymentMethod: models.PaymentCash,
	}

	var errs []error
	if err := p.writer.SaveOrder(ctx, sale); err != nil {
		log.Printf("Failed to persist order %s: %v", sale.ID, err)
		p.failed("order", err)
		errs = append(errs, fmt.Errorf("save order %s: %w", sale.ID, err))
	}

	updated := loyalty.Accrue(*user)
	if err := p.writer.SaveUser(ctx, updated); err != nil {
		log.Printf("Failed to persist profile %s: %v", updated.Phone, err)
		p.failed("user", err)
		errs = append(errs, fmt.Errorf("save user %s: %w", updated.Phone, err))
	}

	if p.publisher != nil {
		evt := models.NewOrderEvent(models.EventCreated, sale, p.now())
		if err := p.publisher.PublishOrderEvent(ctx, evt); err != nil {
			log.Printf("Failed to publish order created event: %v", err)
		}
	}

	return Result{Sale: sale, User: updated, WriteErr: errors.Join(errs...)}, nil
}

func (p *Pipeline) failed(kind string, err error) {
	if p.onFailure != nil {
		p.onFailure(kind, err)
	}
}

func (p *Pipeline) stamp() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	ts := p.now().UnixMilli()
	if ts <= p.last {
		ts = p.last + 1
	}
	p.last = ts
	return ts
}
