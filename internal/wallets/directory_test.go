package wallets

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapLoader struct {
	calls int
	names map[string]string
	err   error
}

func (l *mapLoader) Load(context.Context) (map[string]string, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.names, nil
}

func TestDirectoryLazyLoadAndTTL(t *testing.T) {
	now := time.Unix(5000, 0)
	loader := &mapLoader{names: map[string]string{"addr1": "whale-7"}}
	d := NewDirectory(loader,
		WithTTL(60*time.Second),
		WithClock(func() time.Time { return now }),
	)

	name, ok := d.Name("addr1")
	require.True(t, ok)
	assert.Equal(t, "whale-7", name)
	assert.Equal(t, 1, loader.calls)

	// Within the TTL: no reload.
	now = now.Add(30 * time.Second)
	_, _ = d.Name("addr1")
	assert.Equal(t, 1, loader.calls)

	// Past the TTL: reload picks up new names.
	loader.names = map[string]string{"addr1": "whale-7", "addr2": "sniper-2"}
	now = now.Add(31 * time.Second)
	name, ok = d.Name("addr2")
	require.True(t, ok)
	assert.Equal(t, "sniper-2", name)
	assert.Equal(t, 2, loader.calls)
}

func TestDirectoryServesStaleOnReloadFailure(t *testing.T) {
	now := time.Unix(5000, 0)
	loader := &mapLoader{names: map[string]string{"addr1": "whale-7"}}
	d := NewDirectory(loader,
		WithTTL(time.Minute),
		WithClock(func() time.Time { return now }),
		WithLogger(log.New(io.Discard, "", 0)),
	)

	_, ok := d.Name("addr1")
	require.True(t, ok)

	loader.err = errors.New("backend down")
	now = now.Add(2 * time.Minute)
	name, ok := d.Name("addr1")
	assert.True(t, ok, "stale names must keep serving")
	assert.Equal(t, "whale-7", name)

	// The failed reload pushed expiry forward: no immediate retry.
	calls := loader.calls
	_, _ = d.Name("addr1")
	assert.Equal(t, calls, loader.calls)
}

func TestDirectoryExpiresAt(t *testing.T) {
	now := time.Unix(5000, 0)
	d := NewDirectory(&mapLoader{names: map[string]string{}},
		WithTTL(time.Minute),
		WithClock(func() time.Time { return now }),
	)

	require.NoError(t, d.Reload(context.Background()))
	assert.Equal(t, now.Add(time.Minute), d.ExpiresAt())
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"addr1":"whale-7","addr2":"sniper-2"}`), 0o644))

	names, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, names, 2)
	assert.Equal(t, "whale-7", names["addr1"])
}
