package orders

import (
	"context"
	"log"
	"sync"
	"time"

	"drink_order/internal/identity"
	"drink_order/internal/models"
	"drink_order/internal/storage"

	"golang.org/x/sync/errgroup"
)

const (
	historyKey = "order_history"

	// Only the most recent orders are retained so persisted storage never
	// grows unbounded.
	historyLimit = 10
)

// Tracker keeps the client-side cache of submitted orders and reconciles it
// against live status on an interval and on demand. Server truth beats the
// stale cache, which beats an empty list.
type Tracker struct {
	service  *Service
	store    storage.Store
	identity *identity.Store

	wake chan struct{}

	mu         sync.Mutex
	orders     []models.Order
	loading    bool
	refreshing bool
}

func NewTracker(service *Service, store storage.Store, identityStore *identity.Store) *Tracker {
	return &Tracker{
		service:  service,
		store:    store,
		identity: identityStore,
		wake:     make(chan struct{}, 1),
		orders:   []models.Order{},
	}
}

// Load fetches the customer's orders from the backend; when that fails the
// last persisted snapshot is used, and only when neither exists does the
// history come up empty. The loading flag clears on every path.
func (t *Tracker) Load(ctx context.Context) {
	t.mu.Lock()
	t.loading = true
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.loading = false
		t.mu.Unlock()
	}()

	t.reload(ctx)
}

func (t *Tracker) reload(ctx context.Context) {
	userID := t.identity.GetOrCreateCustomerID(ctx)
	fetched, err := t.service.OrdersForCustomer(ctx, userID)
	if err == nil {
		t.mu.Lock()
		t.orders = fetched
		t.persistLocked(ctx)
		t.mu.Unlock()
		return
	}
	log.Printf("Falling back to cached order history: %v", err)

	var cached []models.Order
	if err := t.store.Get(ctx, historyKey, &cached); err != nil || cached == nil {
		cached = []models.Order{}
	}
	t.mu.Lock()
	if len(t.orders) == 0 {
		t.orders = cached
	}
	t.mu.Unlock()
}

// Add prepends a freshly submitted order, trimming history to the retention
// window.
func (t *Tracker) Add(ctx context.Context, order models.Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.orders = append([]models.Order{order}, t.orders...)
	if len(t.orders) > historyLimit {
		t.orders = t.orders[:historyLimit]
	}
	t.persistLocked(ctx)
}

// UpdateStatus applies a polled status to the cached order. Last completed
// poll wins; overlapping refreshes cannot tear an order because the whole
// update happens under one lock.
func (t *Tracker) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus, eta *time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.orders {
		if t.orders[i].ID != orderID {
			continue
		}
		t.orders[i].Status = status
		if eta != nil {
			t.orders[i].EstimatedPickupTime = *eta
		}
		t.persistLocked(ctx)
		return
	}
}

// Refresh reconciles the history against the backend: reloads the order
// list, then polls the status of every non-terminal order. Each poll is
// independent and best-effort; one failing order never blocks its siblings.
// Overlapping calls coalesce into the in-flight one.
func (t *Tracker) Refresh(ctx context.Context) {
	t.mu.Lock()
	if t.refreshing {
		t.mu.Unlock()
		return
	}
	t.refreshing = true
	t.loading = true
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.refreshing = false
		t.loading = false
		t.mu.Unlock()
	}()

	t.reload(ctx)

	t.mu.Lock()
	pending := make([]string, 0, len(t.orders))
	for _, order := range t.orders {
		if !order.Status.IsTerminal() {
			pending = append(pending, order.ID)
		}
	}
	t.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, orderID := range pending {
		orderID := orderID
		g.Go(func() error {
			snapshot := t.service.Status(ctx, orderID)
			if snapshot != nil {
				eta := snapshot.EstimatedPickupTime
				t.UpdateStatus(ctx, orderID, snapshot.Status, &eta)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Run polls on the given interval until the context is cancelled. Wake
// triggers an immediate refresh, e.g. when the app regains foreground
// visibility.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Refresh(ctx)
		case <-t.wake:
			t.Refresh(ctx)
		}
	}
}

// Wake requests an immediate refresh; it never blocks.
func (t *Tracker) Wake() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// Orders returns a copy of the cached history, newest first.
func (t *Tracker) Orders() []models.Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Order(nil), t.orders...)
}

func (t *Tracker) Recent(limit int) []models.Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	if limit > len(t.orders) {
		limit = len(t.orders)
	}
	return append([]models.Order(nil), t.orders[:limit]...)
}

// Find returns the cached order with the given id, or nil.
func (t *Tracker) Find(orderID string) *models.Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.orders {
		if t.orders[i].ID == orderID {
			order := t.orders[i]
			return &order
		}
	}
	return nil
}

func (t *Tracker) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

func (t *Tracker) ClearHistory(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.orders = []models.Order{}
	t.persistLocked(ctx)
}

func (t *Tracker) persistLocked(ctx context.Context) {
	if err := t.store.Set(ctx, historyKey, t.orders); err != nil {
		log.Printf("Failed to persist order history: %v", err)
	}
}
