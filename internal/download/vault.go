package download

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a reference doesn't exist or was already claimed.
var ErrNotFound = errors.New("download: reference not found")

// ErrExpired is returned when a reference outlived the vault's TTL.
var ErrExpired = errors.New("download: reference expired")

// DefaultTTL is how long an unclaimed payload is kept.
const DefaultTTL = 5 * time.Minute

// Vault holds payloads behind one-time references so a browser can fetch each exactly once.
type Vault struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]stored
}

type stored struct {
	payload []byte
	created time.Time
}

// NewVault returns a Vault whose references expire after ttl. A non-positive ttl means DefaultTTL.
func NewVault(ttl time.Duration) *Vault {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Vault{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]stored),
	}
}

// Present stores payload and returns its reference.
func (v *Vault) Present(ctx context.Context, payload []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return v.Put(payload), nil
}

// Put stores payload and returns its reference.
func (v *Vault) Put(payload []byte) string {
	id := uuid.NewString()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items[id] = stored{payload: payload, created: v.now()}
	return id
}

// Claim returns the payload for id and releases the reference.
func (v *Vault) Claim(id string) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	item, ok := v.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(v.items, id)
	if v.now().Sub(item.created) > v.ttl {
		return nil, ErrExpired
	}
	return item.payload, nil
}

// Cleanup releases expired references and returns how many were removed.
func (v *Vault) Cleanup() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	removed := 0
	for id, item := range v.items {
		if v.now().Sub(item.created) > v.ttl {
			delete(v.items, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of unclaimed references.
func (v *Vault) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.items)
}

// Sweep calls Cleanup every interval until ctx is done.
func (v *Vault) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.Cleanup()
		}
	}
}
