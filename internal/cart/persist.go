package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"association-storefront/internal/domain"
)

// StorageKey is the slot the cart is written under.
const StorageKey = "cart"

const defaultWriteTimeout = 3 * time.Second

type slotStore interface {
	Get(ctx context.Context, profileID, key string) ([]byte, error)
	Set(ctx context.Context, profileID, key string, value []byte) error
}

// Persister mirrors one profile's cart into client storage. It is a
// best-effort cache: read failures fall back to an empty cart and write
// failures are logged and dropped.
type Persister struct {
	repo         slotStore
	profileID    string
	logger       *log.Logger
	writeTimeout time.Duration
}

func NewPersister(repo slotStore, profileID string, logger *log.Logger) *Persister {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Persister{
		repo:         repo,
		profileID:    profileID,
		logger:       logger,
		writeTimeout: defaultWriteTimeout,
	}
}

// Restore reads the stored cart. Missing, unreadable or corrupt slots yield
// an empty cart.
func (p *Persister) Restore(ctx context.Context) []domain.CartItem {
	raw, err := p.repo.Get(ctx, p.profileID, StorageKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			p.logger.Printf("cart persister: restore profile=%s error=%v", p.profileID, err)
		}
		return nil
	}
	items, err := Decode(raw)
	if err != nil {
		p.logger.Printf("cart persister: discard corrupt cart profile=%s error=%v", p.profileID, err)
		return nil
	}
	return items
}

// Save writes items to storage. It has the Observer signature so it can be
// subscribed to a Store directly.
func (p *Persister) Save(items []domain.CartItem) {
	raw, err := Encode(items)
	if err != nil {
		p.logger.Printf("cart persister: encode profile=%s error=%v", p.profileID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()
	if err := p.repo.Set(ctx, p.profileID, StorageKey, raw); err != nil {
		p.logger.Printf("cart persister: save profile=%s items=%d error=%v", p.profileID, len(items), err)
	}
}

// Attach restores the stored cart into a new Store and subscribes Save to it.
func (p *Persister) Attach(ctx context.Context) *Store {
	s := New(p.Restore(ctx))
	s.Subscribe(p.Save)
	return s
}

// Encode renders items as a JSON array. A nil slice encodes as [].
func Encode(items []domain.CartItem) ([]byte, error) {
	if items == nil {
		items = []domain.CartItem{}
	}
	return json.Marshal(items)
}

// Decode parses a JSON array of cart items. JSON null decodes to an empty
// cart.
func Decode(raw []byte) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
