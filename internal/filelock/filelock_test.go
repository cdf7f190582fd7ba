package filelock

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/game-portal/internal/errors"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.lock")

	l, err := Acquire(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, path, l.Path())
	assert.FileExists(t, path)

	require.NoError(t, l.Release())
	assert.NoFileExists(t, path)
	assert.NoError(t, l.Release())
}

func TestAcquireTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.lock")
	held, err := Acquire(context.Background(), path, Options{})
	require.NoError(t, err)
	defer held.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = Acquire(ctx, path, Options{RetryInterval: 10 * time.Millisecond})
	assert.True(t, errors.Is(err, errors.ErrStorageLock))
}

func TestAcquireStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.lock")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	l, err := Acquire(ctx, path, Options{})
	require.NoError(t, err)
	require.NoError(t, l.Release())
}

func TestAcquireMissingDir(t *testing.T) {
	_, err := Acquire(context.Background(), filepath.Join(t.TempDir(), "nope", "a.lock"), Options{})
	assert.True(t, errors.Is(err, errors.ErrStorageLock))
}

func TestMutualExclusion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.lock")
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holders int
		maxSeen int
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l, err := Acquire(context.Background(), path, Options{RetryInterval: time.Millisecond})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			holders++
			if holders > maxSeen {
				maxSeen = holders
			}
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			assert.NoError(t, l.Release())
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestCleanupStale(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "old.lock")
	fresh := filepath.Join(dir, "new.lock")
	require.NoError(t, os.WriteFile(stale, nil, 0o644))
	require.NoError(t, os.WriteFile(fresh, nil, 0o644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	assert.Equal(t, 1, CleanupStale(dir, 10*time.Minute))
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}
