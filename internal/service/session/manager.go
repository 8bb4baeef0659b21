package session

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"association-storefront/internal/cart"
)

// ErrInvalidProfile is returned for profile ids that are not version 4 UUIDs.
var ErrInvalidProfile = errors.New("invalid profile id")

const restoreTimeout = 5 * time.Second

// Storage is the client storage the per-profile carts persist into.
type Storage interface {
	Get(ctx context.Context, profileID, key string) ([]byte, error)
	Set(ctx context.Context, profileID, key string, value []byte) error
}

type profile struct {
	store    *cart.Store
	lastSeen time.Time
}

// Manager hands out one cart store per browser profile. Stores are restored
// from storage on first use and kept in memory until Prune evicts them.
type Manager struct {
	repo   Storage
	logger *log.Logger
	idle   time.Duration
	now    func() time.Time

	mu       sync.Mutex
	profiles map[string]*profile
	loads    singleflight.Group
}

func New(repo Storage, idle time.Duration, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{
		repo:     repo,
		logger:   logger,
		idle:     idle,
		now:      time.Now,
		profiles: make(map[string]*profile),
	}
}

// NewProfileID returns a fresh random profile id.
func NewProfileID() string {
	return uuid.NewString()
}

// ValidProfileID reports whether id looks like something NewProfileID issued.
func ValidProfileID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.Version() == 4
}

// Cart returns the store for profileID, restoring it from storage when the
// profile is not loaded yet. Concurrent first requests share one restore.
func (m *Manager) Cart(ctx context.Context, profileID string) (*cart.Store, error) {
	if !ValidProfileID(profileID) {
		return nil, ErrInvalidProfile
	}
	if s, ok := m.lookup(profileID); ok {
		return s, nil
	}

	v, _, _ := m.loads.Do(profileID, func() (any, error) {
		if s, ok := m.lookup(profileID); ok {
			return s, nil
		}
		// A cancelled request must not leave the profile with an empty cart
		// that would overwrite the stored one on the next mutation.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), restoreTimeout)
		defer cancel()
		s := cart.NewPersister(m.repo, profileID, m.logger).Attach(loadCtx)

		m.mu.Lock()
		m.profiles[profileID] = &profile{store: s, lastSeen: m.now()}
		m.mu.Unlock()
		m.logger.Printf("session: loaded profile=%s items=%d", profileID, s.Count())
		return s, nil
	})
	return v.(*cart.Store), nil
}

func (m *Manager) lookup(profileID string) (*cart.Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[profileID]
	if !ok {
		return nil, false
	}
	p.lastSeen = m.now()
	return p.store, true
}

// Prune drops profiles idle for longer than the configured idle window and
// returns how many were dropped. Their carts stay in storage.
func (m *Manager) Prune() int {
	if m.idle <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idle)

	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for id, p := range m.profiles {
		if p.lastSeen.Before(cutoff) {
			delete(m.profiles, id)
			dropped++
		}
	}
	return dropped
}

// Loaded returns the number of profiles currently held in memory.
func (m *Manager) Loaded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.profiles)
}

// Run prunes on every tick until ctx is done.
func (m *Manager) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Prune(); n > 0 {
				m.logger.Printf("session: pruned idle profiles count=%d loaded=%d", n, m.Loaded())
			}
		}
	}
}
