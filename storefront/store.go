// Package storefront is the customer-side application state: catalog, cart,
// profile and order history behind one mutex, with optimistic writes to the
// backend and a versioned local record.
package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"pizzeria-service/cart"
	"pizzeria-service/catalog"
	"pizzeria-service/models"
	"pizzeria-service/orders"
	"pizzeria-service/pricing"
)

var (
	ErrUnknownProduct = errors.New("product not found")
	ErrUnknownZone    = errors.New("delivery zone not found")
	ErrUnknownOrder   = errors.New("order not found")
	ErrUnknownExtra   = errors.New("unknown extra")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidProfile = errors.New("name and phone are required")
)

// WelcomePoints are credited to a profile created at onboarding.
const WelcomePoints int64 = 10

const SettingHeaderBackground = "header_bg"

// Backend is everything the storefront reads from and writes to.
type Backend interface {
	catalog.Source
	catalog.Seeder
	Writer
	SettingsSource
	GetUser(ctx context.Context, phone string) (*models.User, error)
}

type Options struct {
	WhatsAppNumber string
	OrdersLimit    int
	// OnWriteFailure is told about every failed backend write.
	OnWriteFailure func(kind string, err error)
	Now            func() time.Time
}

type Store struct {
	backend  Backend
	state    StateStore
	loader   *catalog.Loader
	outbox   *Outbox
	pipeline *orders.Pipeline
	opts     Options

	mu       sync.Mutex
	snapshot catalog.Snapshot
	cart     *cart.Cart
	user     *models.User
	zone     *models.DeliveryZone
	record   Record
	settings map[string]string
	graphics models.BroadcastGraphics
}

// New restores the storefront from state. A nil state keeps everything in
// memory.
func New(backend Backend, state StateStore, opts Options) (*Store, error) {
	if state == nil {
		state = &memState{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OrdersLimit <= 0 {
		opts.OrdersLimit = 200
	}

	rec, err := state.Load()
	if err != nil {
		return nil, fmt.Errorf("load storefront state: %w", err)
	}

	outbox := NewOutbox(backend, opts.OnWriteFailure)
	s := &Store{
		backend: backend,
		state:   state,
		loader:  catalog.NewLoader(backend, backend, opts.OrdersLimit),
		outbox:  outbox,
		pipeline: orders.NewPipeline(outbox,
			orders.WithClock(opts.Now),
			orders.WithFailureHook(opts.OnWriteFailure),
		),
		opts:     opts,
		snapshot: catalog.OfflineSnapshot(),
		cart:     cart.New(rec.Cart, cart.WithClock(opts.Now)),
		user:     rec.User,
		record:   rec,
		settings: map[string]string{},
		graphics: models.BroadcastGraphics{ActiveScene: models.SceneStandby},
	}
	return s, nil
}

// Load fetches the catalog and order history, or falls back to the built-in
// catalog when the backend is unavailable.
func (s *Store) Load(ctx context.Context) catalog.Snapshot {
	snap := s.loader.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	if s.zone != nil {
		if z, ok := catalog.FindZone(snap.Zones, s.zone.ID); ok {
			s.zone = &z
		} else {
			s.zone = nil
		}
	}
	return snap
}

func (s *Store) Offline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Offline
}

// Menu returns the products that can be ordered right now.
func (s *Store) Menu() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return catalog.ActiveProducts(s.snapshot.Products)
}

func (s *Store) Zones() []models.DeliveryZone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.DeliveryZone(nil), s.snapshot.Zones...)
}

// Orders returns the known sales, newest first.
func (s *Store) Orders() []models.SaleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SaleRecord(nil), s.snapshot.Orders...)
}

func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Onboard sets the session's profile. An existing backend profile for the
// phone is reused; otherwise a fresh BRONZE profile is created.
func (s *Store) Onboard(ctx context.Context, name, phone string) (models.User, error) {
	name, phone = strings.TrimSpace(name), strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return models.User{}, ErrInvalidProfile
	}

	existing, err := s.backend.GetUser(ctx, phone)
	if err != nil {
		log.Printf("Profile lookup for %s failed, creating locally: %v", phone, err)
	}
	user := models.User{Name: name, Phone: phone, Points: WelcomePoints, Level: models.LevelBronze}
	if existing != nil {
		user = *existing
		user.Name = name
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.persist()
	if err := s.outbox.SaveUser(ctx, user); err != nil {
		log.Printf("Failed to save profile %s: %v", phone, err)
	}
	return user, nil
}

func (s *Store) product(id string) (models.Product, error) {
	p, ok := catalog.FindProduct(s.snapshot.Products, id)
	if !ok {
		return models.Product{}, fmt.Errorf("%s: %w", id, ErrUnknownProduct)
	}
	return p, nil
}

func (s *Store) AddToCart(productID, size string) (models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.product(productID)
	if err != nil {
		return models.CartItem{}, err
	}
	item, err := s.cart.Add(p, size)
	if err != nil {
		return item, err
	}
	s.persist()
	return item, nil
}

// AddHalfAndHalf adds a composite pizza. An empty id is an unselected side.
func (s *Store) AddHalfAndHalf(leftID, rightID, size string) (models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sides [2]*models.Product
	for i, id := range []string{leftID, rightID} {
		if id == "" {
			continue
		}
		p, err := s.product(id)
		if err != nil {
			return models.CartItem{}, err
		}
		sides[i] = &p
	}
	item, err := s.cart.AddHalfAndHalf(sides[0], sides[1], size)
	if err != nil {
		return item, err
	}
	s.persist()
	return item, nil
}

func (s *Store) UpdateQuantity(uniqueID string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart.UpdateQuantity(uniqueID, delta) {
		s.persist()
	}
}

func (s *Store) Remove(uniqueID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart.Remove(uniqueID) {
		s.persist()
	}
}

// ToggleExtra switches a named extra on an item; the price comes from the
// extras list.
func (s *Store) ToggleExtra(uniqueID, name string) error {
	for _, e := range catalog.Extras() {
		if !strings.EqualFold(e.Name, name) {
			continue
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.cart.ToggleExtra(uniqueID, e) {
			s.persist()
		}
		return nil
	}
	return fmt.Errorf("%s: %w", name, ErrUnknownExtra)
}

func (s *Store) Cart() []models.CartItem {
	return s.cart.Items()
}

func (s *Store) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record.Notes = notes
	s.persist()
}

func (s *Store) Notes() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Notes
}

// SelectZone picks the delivery zone; an empty id means pickup.
func (s *Store) SelectZone(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.zone = nil
		return nil
	}
	z, ok := catalog.FindZone(s.snapshot.Zones, id)
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrUnknownZone)
	}
	s.zone = &z
	return nil
}

// Quote prices the current cart for the selected zone.
func (s *Store) Quote() pricing.Breakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.Quote(s.cart.Items(), s.zone)
}

type CheckoutResult struct {
	Sale        models.SaleRecord
	User        models.User
	Quote       pricing.Breakdown
	WhatsAppURL string
	// WriteErr is set when the backend did not take every write. The
	// writes stay in the outbox for Retry.
	WriteErr error
}

// Checkout finalizes the cart. The sale and profile update apply locally
// even when the backend write fails; the cart and notes are cleared.
func (s *Store) Checkout(ctx context.Context) (CheckoutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return CheckoutResult{}, orders.ErrNoUser
	}
	items := s.cart.Items()
	if len(items) == 0 {
		return CheckoutResult{}, ErrEmptyCart
	}

	quote := pricing.Quote(items, s.zone)
	res, err := s.pipeline.Finalize(ctx, items, s.zone, s.user, quote.Total)
	if err != nil {
		return CheckoutResult{}, err
	}
	msg := orders.HandoffMessage(res.User, s.zone, items, s.record.Notes)

	user := res.User
	s.user = &user
	s.snapshot.Orders = append([]models.SaleRecord{res.Sale}, s.snapshot.Orders...)
	s.cart.Clear()
	s.record.Notes = ""
	s.persist()

	return CheckoutResult{
		Sale:        res.Sale,
		User:        res.User,
		Quote:       quote,
		WhatsAppURL: orders.HandoffURL(s.opts.WhatsAppNumber, msg),
		WriteErr:    res.WriteErr,
	}, nil
}

func (s *Store) AdvanceOrder(ctx context.Context, id string) (models.SaleRecord, error) {
	return s.orderAction(ctx, id, orders.ActionAdvance)
}

func (s *Store) CancelOrder(ctx context.Context, id string) (models.SaleRecord, error) {
	return s.orderAction(ctx, id, orders.ActionCancel)
}

func (s *Store) CompleteOrder(ctx context.Context, id string) (models.SaleRecord, error) {
	return s.orderAction(ctx, id, orders.ActionComplete)
}

func (s *Store) orderAction(ctx context.Context, id, action string) (models.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snapshot.Orders {
		sale := &s.snapshot.Orders[i]
		if sale.ID != id {
			continue
		}
		next, err := orders.Apply(sale.Status, action)
		if err != nil {
			return *sale, err
		}
		sale.Status = next
		if err := s.outbox.UpdateOrderStatus(ctx, id, next); err != nil {
			log.Printf("Failed to update order %s status: %v", id, err)
		}
		return *sale, nil
	}
	return models.SaleRecord{}, fmt.Errorf("%s: %w", id, ErrUnknownOrder)
}

// Retry delivers the writes still waiting in the outbox.
func (s *Store) Retry(ctx context.Context) error {
	return s.outbox.Flush(ctx)
}

func (s *Store) Pending() int {
	return s.outbox.Pending()
}

// ApplySettings takes a settings map from the backend. A broadcast_graphics
// value that does not decode keeps the previous graphics.
func (s *Store) ApplySettings(settings map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = make(map[string]string, len(settings))
	for k, v := range settings {
		s.settings[k] = v
	}

	changed := false
	if raw, ok := settings[models.SettingBroadcastGraphics]; ok {
		var g models.BroadcastGraphics
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			log.Printf("Ignoring malformed %s: %v", models.SettingBroadcastGraphics, err)
		} else {
			if g.ActiveScene == "" {
				g.ActiveScene = models.SceneStandby
			}
			s.graphics = g
			if g.StreamURL != "" && g.StreamURL != s.record.StreamURL {
				s.record.StreamURL = g.StreamURL
				changed = true
			}
		}
	}
	if bg, ok := settings[SettingHeaderBackground]; ok && bg != "" && bg != s.record.HeaderBackground {
		s.record.HeaderBackground = bg
		changed = true
	}
	if changed {
		s.persist()
	}
}

func (s *Store) Graphics() models.BroadcastGraphics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graphics
}

func (s *Store) StreamURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.StreamURL
}

// ToggleFavorite stars or unstars a product and reports whether it is now
// a favorite.
func (s *Store) ToggleFavorite(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range s.record.Favorites {
		if id == productID {
			s.record.Favorites = append(s.record.Favorites[:i:i], s.record.Favorites[i+1:]...)
			s.persist()
			return false
		}
	}
	s.record.Favorites = append(s.record.Favorites, productID)
	s.persist()
	return true
}

// RecordScore keeps the best mini-game score and reports a new best.
func (s *Store) RecordScore(score int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if score <= s.record.HighScore {
		return false
	}
	s.record.HighScore = score
	s.persist()
	return true
}

// persist must be called with mu held.
func (s *Store) persist() {
	s.record.User = s.user
	s.record.Cart = s.cart.Items()
	if err := s.state.Save(s.record); err != nil {
		log.Printf("Failed to save storefront state: %v", err)
	}
}
