package cart

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/karthikeyavasudha/clotherr/internal/domain"
	"github.com/karthikeyavasudha/clotherr/internal/storage"
)

// Store holds the shopping cart for the current process. In-memory state is
// authoritative; every mutation is written through to device storage so a
// restarted process can restore it. Write failures are logged and swallowed —
// losing the restore cache must never break the cart itself.
type Store struct {
	mu     sync.Mutex
	lines  []domain.CartLine
	isOpen bool
	store  storage.Storage
	subs   []func()
}

func NewStore(store storage.Storage) *Store {
	return &Store{store: store}
}

// Hydrate restores the persisted line sequence. Corrupt or missing data
// falls open to an empty cart; startup never fails on a bad cache.
func (s *Store) Hydrate() {
	raw, err := s.store.Get(storage.KeyCart)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("cart hydrate error: %v", err)
		}
		return
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		log.Printf("cart hydrate error: discarding unreadable cart data: %v", err)
		return
	}

	s.mu.Lock()
	s.lines = s.lines[:0]
	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		s.lines = append(s.lines, line)
	}
	s.mu.Unlock()
	s.notify()
}

// Subscribe registers a callback invoked after every cart change. Callbacks
// run synchronously on the mutating goroutine, outside the store's lock.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Add puts a line in the cart. A line with the same product and variant
// already present merges by summing quantity; the existing line keeps its
// original unit price. Opens the cart drawer.
func (s *Store) Add(line domain.CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	if line.VariantKey == "" {
		line.VariantKey = domain.DefaultVariant
	}

	s.mu.Lock()
	id := line.LineID()
	merged := false
	for i := range s.lines {
		if s.lines[i].LineID() == id {
			s.lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, line)
	}
	s.isOpen = true
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// Remove deletes the line with the given id. Removing an absent id is a no-op.
func (s *Store) Remove(lineID string) {
	s.mu.Lock()
	for i, line := range s.lines {
		if line.LineID() == lineID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// SetQuantity replaces a line's quantity. Anything below 1 removes the line;
// the cart never holds a non-positive quantity.
func (s *Store) SetQuantity(lineID string, quantity int) {
	if quantity < 1 {
		s.Remove(lineID)
		return
	}

	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].LineID() == lineID {
			s.lines[i].Quantity = quantity
			break
		}
	}
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// Clear empties the cart. Only the checkout flow calls this, after the order
// submission has been confirmed.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// Lines returns a copy of the line sequence in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total is the cart value: sum of unit price times quantity over all lines.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, line := range s.lines {
		total += line.Subtotal()
	}
	return total
}

// Count is the total number of units across all lines, for the navbar badge.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}

// ToggleOpen flips the drawer flag. The flag is transient UI state and is
// never persisted.
func (s *Store) ToggleOpen() {
	s.mu.Lock()
	s.isOpen = !s.isOpen
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Open() {
	s.mu.Lock()
	s.isOpen = true
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Close() {
	s.mu.Lock()
	s.isOpen = false
	s.mu.Unlock()
	s.notify()
}

// persistLocked writes the current line sequence to device storage. The
// caller holds the lock. The drawer flag is excluded.
func (s *Store) persistLocked() {
	lines := s.lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	encoded, err := json.Marshal(lines)
	if err != nil {
		log.Printf("cart persist error: %v", err)
		return
	}
	if err := s.store.Put(storage.KeyCart, encoded); err != nil {
		log.Printf("cart persist error: %v", err)
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
