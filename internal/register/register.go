// Package register owns one cart per terminal and serializes access to it.
package register

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/quickpos/quickpos/internal/cart"
	"github.com/quickpos/quickpos/internal/platform/httpx"
	"github.com/quickpos/quickpos/internal/sales"
)

// ErrProcessing is returned while a payment is being processed.
var ErrProcessing = fmt.Errorf("payment is being processed: %w", httpx.ErrConflict)

// Register wraps one order. All access goes through its mutex.
type Register struct {
	id       string
	openedAt time.Time

	mu         sync.Mutex
	order      *cart.Order
	processing bool
}

// New returns a register for terminal id around order.
func New(id string, order *cart.Order) *Register {
	return &Register{id: id, order: order, openedAt: time.Now()}
}

// ID returns the terminal identifier.
func (r *Register) ID() string { return r.id }

// OpenedAt returns when the register was created.
func (r *Register) OpenedAt() time.Time { return r.openedAt }

// Apply runs cmd. Every command is refused while a payment is processing.
func (r *Register) Apply(cmd cart.Command) (cart.View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.processing {
		return r.viewLocked(), fmt.Errorf("%s: %w", cart.Name(cmd), ErrProcessing)
	}
	err := r.order.Apply(cmd)
	return r.viewLocked(), err
}

// View returns the current snapshot.
func (r *Register) View() cart.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewLocked()
}

func (r *Register) viewLocked() cart.View {
	v := r.order.View()
	if r.processing {
		v.State = cart.StateFinalizing
	}
	return v
}

// Processing reports whether a payment is in flight.
func (r *Register) Processing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.processing
}

// BeginPayment runs check against the current view and, when it passes,
// marks the register as processing and returns the sale the payment would
// record. Only one payment can be in flight.
func (r *Register) BeginPayment(method sales.PaymentMethod, check func(cart.View) error) (sales.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.processing {
		return sales.Sale{}, ErrProcessing
	}
	if check != nil {
		if err := check(r.order.View()); err != nil {
			return sales.Sale{}, err
		}
	}
	sale, err := r.order.Finalize(method)
	if err != nil {
		return sales.Sale{}, err
	}
	r.processing = true
	return sale, nil
}

// CommitPayment ends processing and commits sale to the order.
func (r *Register) CommitPayment(sale sales.Sale) (cart.View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processing = false
	err := r.order.Commit(sale)
	return r.viewLocked(), err
}

// AbortPayment ends processing and leaves the order untouched.
func (r *Register) AbortPayment() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processing = false
}

// Factory creates the order for a newly opened register.
type Factory func() *cart.Order

// Manager maps terminal IDs to registers.
type Manager struct {
	newOrder Factory

	mu        sync.RWMutex
	registers map[string]*Register
}

// NewManager constructs a manager opening registers with newOrder.
func NewManager(newOrder Factory) *Manager {
	return &Manager{newOrder: newOrder, registers: make(map[string]*Register)}
}

// Open returns the register for id, creating it on first use.
func (m *Manager) Open(id string) *Register {
	m.mu.RLock()
	reg, ok := m.registers[id]
	m.mu.RUnlock()
	if ok {
		return reg
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if reg, ok := m.registers[id]; ok {
		return reg
	}
	reg = New(id, m.newOrder())
	m.registers[id] = reg
	return reg
}

// Lookup returns the register for id if it was opened.
func (m *Manager) Lookup(id string) (*Register, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	reg, ok := m.registers[id]
	return reg, ok
}

// IDs lists opened terminals in lexical order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.registers))
	for id := range m.registers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
