// Package cart holds the shopping cart state container and its persistence.
package cart

import (
	"sync"

	"association-storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// Observer receives a snapshot of the cart after every state change.
type Observer func(items []domain.CartItem)

// Store is the single source of truth for one profile's cart. Lines keep
// insertion order and there is at most one line per domain.ItemKey.
//
// Mutations never fail. Calls with a quantity below one, or that reference a
// line that does not exist, are ignored rather than rejected.
//
// Observers are invoked while the store lock is held, so they see changes in
// mutation order. An observer must not call back into the store.
type Store struct {
	mu        sync.Mutex
	items     []domain.CartItem
	observers map[int]Observer
	nextObs   int
}

// New builds a Store seeded with initial. Seed lines are folded through
// AddItem, so duplicates merge and invalid quantities are dropped.
func New(initial []domain.CartItem) *Store {
	s := &Store{observers: make(map[int]Observer)}
	for _, it := range initial {
		s.add(it)
	}
	return s
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// AddItem merges item into the cart. A line with the same key gets its
// quantity increased by item.Quantity; otherwise item is appended.
func (s *Store) AddItem(item domain.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.add(item) {
		s.notify()
	}
}

// RemoveItem deletes the line with the given key, if any.
func (s *Store) RemoveItem(id int64, color, size string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(domain.ItemKey{ID: id, Color: color, Size: size})
	if idx < 0 {
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.notify()
}

// UpdateQuantity sets the quantity of the line with the given key. A
// quantity below one leaves the cart untouched; it does not remove the line.
func (s *Store) UpdateQuantity(id int64, quantity int, color, size string) {
	if quantity < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(domain.ItemKey{ID: id, Color: color, Size: size})
	if idx < 0 || s.items[idx].Quantity == quantity {
		return
	}
	s.items[idx].Quantity = quantity
	s.notify()
}

// Clear empties the cart. Observers are notified even when it was already
// empty.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.notify()
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Total is the sum of price times quantity over all lines, computed on
// every call.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CartTotal(s.items)
}

// Count is the number of units in the cart.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CartCount(s.items)
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

func (s *Store) add(item domain.CartItem) bool {
	if item.Quantity < 1 {
		return false
	}
	if idx := s.indexOf(item.Key()); idx >= 0 {
		s.items[idx].Quantity += item.Quantity
		return true
	}
	s.items = append(s.items, item)
	return true
}

func (s *Store) indexOf(key domain.ItemKey) int {
	for i, it := range s.items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []domain.CartItem {
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) notify() {
	if len(s.observers) == 0 {
		return
	}
	snap := s.snapshot()
	for _, fn := range s.observers {
		fn(snap)
	}
}
