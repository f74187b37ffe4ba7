// Package cart owns the cart line items: identity-based merge-or-append,
// quantity and price recomputation, drawer state, and persistence of every
// transition. All operations are synchronous and total; persistence failures
// are logged, never returned.
package cart

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"drink_order/internal/events"
	"drink_order/internal/models"
	"drink_order/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const storageKey = "cart_state"

// MergePolicy decides whose locked unit price wins when two additions merge
// into one line.
type MergePolicy int

const (
	// MergeIncomingPrice reprices the merged line from the newly added
	// item's implied unit price.
	MergeIncomingPrice MergePolicy = iota
	// MergeKeepExisting keeps the unit price the line was first added with.
	MergeKeepExisting
)

// Updated is published after every state transition.
type Updated struct {
	TotalItems int
	TotalPrice decimal.Decimal
}

type Engine struct {
	store  storage.Store
	bus    *events.Bus[Updated]
	policy MergePolicy

	mu    sync.Mutex
	state models.CartState
}

func NewEngine(store storage.Store, bus *events.Bus[Updated], policy MergePolicy) *Engine {
	return &Engine{
		store:  store,
		bus:    bus,
		policy: policy,
		state:  models.CartState{Items: []models.CartItem{}},
	}
}

// Load rehydrates a previously saved cart. Malformed persisted data is
// discarded and the engine starts empty; the drawer always starts closed.
func (e *Engine) Load(ctx context.Context) {
	var saved models.CartState
	err := e.store.Get(ctx, storageKey, &saved)

	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case err == nil:
		if saved.Items == nil {
			saved.Items = []models.CartItem{}
		}
		saved.IsOpen = false
		e.state = saved
	case err == storage.ErrNotFound:
	default:
		log.Printf("Discarding unreadable cart state: %v", err)
	}
}

// AddItem merges the addition into an existing line when the full
// customization identity matches, otherwise appends a new line. On merge the
// quantities add and the merged total is recomputed from the implied unit
// price chosen by the merge policy.
func (e *Engine) AddItem(ctx context.Context, item models.CartItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	e.mu.Lock()
	merged := false
	for i := range e.state.Items {
		existing := &e.state.Items[i]
		if !sameLine(existing, &item) {
			continue
		}
		unit := existing.UnitPrice()
		if e.policy == MergeIncomingPrice {
			unit = item.UnitPrice()
		}
		existing.Quantity += item.Quantity
		existing.TotalPrice = unit.Mul(decimal.NewFromInt(int64(existing.Quantity)))
		merged = true
		break
	}
	if !merged {
		e.state.Items = append(e.state.Items, item)
	}
	e.persistLocked(ctx)
	e.mu.Unlock()
	e.publish()
}

// SetQuantity recomputes the line total from the implied unit price, never
// from current menu prices: a remote price change must not alter an already
// carted item. A quantity at or below zero removes the line.
func (e *Engine) SetQuantity(ctx context.Context, id string, quantity int) {
	if quantity <= 0 {
		e.RemoveItem(ctx, id)
		return
	}

	e.mu.Lock()
	for i := range e.state.Items {
		item := &e.state.Items[i]
		if item.ID != id {
			continue
		}
		unit := item.UnitPrice()
		item.Quantity = quantity
		item.TotalPrice = unit.Mul(decimal.NewFromInt(int64(quantity)))
		break
	}
	e.persistLocked(ctx)
	e.mu.Unlock()
	e.publish()
}

func (e *Engine) RemoveItem(ctx context.Context, id string) {
	e.mu.Lock()
	items := e.state.Items[:0]
	for _, item := range e.state.Items {
		if item.ID != id {
			items = append(items, item)
		}
	}
	e.state.Items = items
	e.persistLocked(ctx)
	e.mu.Unlock()
	e.publish()
}

// Clear empties the cart and forgets the customer. The drawer flag is left
// as-is.
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	e.state.Items = []models.CartItem{}
	e.state.Customer = nil
	e.persistLocked(ctx)
	e.mu.Unlock()
	e.publish()
}

// SetCustomer fills checkout details. A table number set out-of-band (e.g.
// scanned from a QR deep link) survives a blank incoming value.
func (e *Engine) SetCustomer(ctx context.Context, customer models.Customer) {
	e.mu.Lock()
	if strings.TrimSpace(customer.TableNumber) == "" && e.state.Customer != nil && e.state.Customer.HasTableNumber() {
		customer.TableNumber = e.state.Customer.TableNumber
	}
	e.state.Customer = &customer
	e.persistLocked(ctx)
	e.mu.Unlock()
	e.publish()
}

func (e *Engine) ToggleOpen(ctx context.Context) bool {
	e.mu.Lock()
	e.state.IsOpen = !e.state.IsOpen
	open := e.state.IsOpen
	e.persistLocked(ctx)
	e.mu.Unlock()
	e.publish()
	return open
}

// State returns a copy safe for callers to read without holding the lock.
func (e *Engine) State() models.CartState {
	e.mu.Lock()
	defer e.mu.Unlock()
	state := e.state
	state.Items = append([]models.CartItem(nil), e.state.Items...)
	if e.state.Customer != nil {
		customer := *e.state.Customer
		state.Customer = &customer
	}
	return state
}

func (e *Engine) TotalItems() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.TotalItems()
}

func (e *Engine) TotalPrice() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.TotalPrice()
}

func (e *Engine) persistLocked(ctx context.Context) {
	if err := e.store.Set(ctx, storageKey, e.state); err != nil {
		log.Printf("Failed to persist cart state: %v", err)
	}
}

func (e *Engine) publish() {
	if e.bus == nil {
		return
	}
	e.mu.Lock()
	event := Updated{TotalItems: e.state.TotalItems(), TotalPrice: e.state.TotalPrice()}
	e.mu.Unlock()
	e.bus.Publish(event)
}

// sameLine is the merge identity: menu item, size id, milk (full value),
// sweetness, temperature and the add-on set must all match. Add-ons compare
// order-insensitively by full structural equality.
func sameLine(a, b *models.CartItem) bool {
	return a.MenuID == b.MenuID &&
		a.Size.ID == b.Size.ID &&
		optionEqual(a.Milk, b.Milk) &&
		a.Sweetness == b.Sweetness &&
		a.Temperature == b.Temperature &&
		addOnsEqual(a.AddOns, b.AddOns)
}

func optionEqual(a, b models.MenuOption) bool {
	return a.ID == b.ID && a.Name == b.Name && a.Price.Equal(b.Price) && a.Enabled == b.Enabled
}

func addOnsEqual(a, b []models.MenuAddOn) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]models.MenuAddOn(nil), a...)
	bs := append([]models.MenuAddOn(nil), b...)
	sort.Slice(as, func(i, j int) bool { return as[i].ID < as[j].ID })
	sort.Slice(bs, func(i, j int) bool { return bs[i].ID < bs[j].ID })
	for i := range as {
		if as[i].ID != bs[i].ID || as[i].Name != bs[i].Name ||
			!as[i].Price.Equal(bs[i].Price) || as[i].Enabled != bs[i].Enabled {
			return false
		}
	}
	return true
}
