// Package wallets maps wallet addresses to the human labels shown in
// alerts. The directory is an injected object with an explicit TTL; there
// is no ambient global state.
package wallets

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultTTL is how long a loaded name set is trusted before reloading.
const DefaultTTL = 60 * time.Second

// Loader fetches the full wallet-name mapping from a backend.
type Loader interface {
	Load(ctx context.Context) (map[string]string, error)
}

// Directory caches the wallet-name mapping and transparently reloads it
// when the TTL lapses. A failed reload keeps serving the stale mapping.
type Directory struct {
	loader Loader
	ttl    time.Duration
	now    func() time.Time
	logger *log.Logger

	mu        sync.Mutex
	names     map[string]string
	expiresAt time.Time
}

// DirectoryOption configures Directory.
type DirectoryOption func(*Directory)

// WithTTL sets the reload interval.
func WithTTL(ttl time.Duration) DirectoryOption {
	return func(d *Directory) {
		d.ttl = ttl
	}
}

// WithClock sets the time source, for tests.
func WithClock(now func() time.Time) DirectoryOption {
	return func(d *Directory) {
		d.now = now
	}
}

// WithLogger sets the logger for reload failures.
func WithLogger(logger *log.Logger) DirectoryOption {
	return func(d *Directory) {
		d.logger = logger
	}
}

// NewDirectory creates a Directory over the given loader.
func NewDirectory(loader Loader, opts ...DirectoryOption) *Directory {
	d := &Directory{
		loader: loader,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: log.Default(),
		names:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the label for a wallet address, reloading the mapping first
// if it has expired.
func (d *Directory) Name(wallet string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.now().Before(d.expiresAt) {
		if err := d.reloadLocked(context.Background()); err != nil {
			d.logger.Printf("wallet directory reload failed, serving stale names: %v", err)
		}
	}
	name, ok := d.names[wallet]
	return name, ok
}

// Reload forces a refresh of the mapping.
func (d *Directory) Reload(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reloadLocked(ctx)
}

// ExpiresAt returns when the current mapping stops being trusted.
func (d *Directory) ExpiresAt() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.expiresAt
}

// Len returns the number of known wallets.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.names)
}

func (d *Directory) reloadLocked(ctx context.Context) error {
	names, err := d.loader.Load(ctx)
	if err != nil {
		// Push the next attempt out a full TTL so a dead backend is not
		// hammered on every lookup.
		d.expiresAt = d.now().Add(d.ttl)
		return err
	}
	d.names = names
	d.expiresAt = d.now().Add(d.ttl)
	return nil
}
