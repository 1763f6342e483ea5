// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package watch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cct-datascience/drone-pipeline/pkg/types"
)

// collector records handled paths.
type collector struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (c *collector) handle(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, path)
	return c.err
}

func (c *collector) handled() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.paths...)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestRun_HandlesSettledImages(t *testing.T) {
	dir := t.TempDir()
	c := &collector{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, types.WatchConfig{InboxDir: dir, Settle: 50 * time.Millisecond}, "", c.handle, &syncBuffer{})
	}()

	// Give the watcher a moment to register.
	time.Sleep(50 * time.Millisecond)

	img := filepath.Join(dir, "plot.tif")
	require.NoError(t, os.WriteFile(img, []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	waitFor(t, 3*time.Second, func() bool { return len(c.handled()) == 1 })
	assert.Equal(t, []string{img}, c.handled())

	cancel()
	require.NoError(t, <-done)
}

func TestRun_IncludeGlobFilters(t *testing.T) {
	dir := t.TempDir()
	c := &collector{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, types.WatchConfig{InboxDir: dir, Settle: 50 * time.Millisecond}, "*_rgb.tif", c.handle, &syncBuffer{})
	}()

	time.Sleep(50 * time.Millisecond)

	rgb := filepath.Join(dir, "plot_rgb.tif")
	require.NoError(t, os.WriteFile(rgb, []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plot_nir.tif"), []byte("data"), 0o644))

	waitFor(t, 3*time.Second, func() bool { return len(c.handled()) >= 1 })
	// The NIR file never shows up, even after further settling.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []string{rgb}, c.handled())

	cancel()
	require.NoError(t, <-done)
}

func TestRun_HandlerErrorsAreLogged(t *testing.T) {
	dir := t.TempDir()
	c := &collector{err: errors.New("decode failed")}
	log := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, types.WatchConfig{InboxDir: dir, Settle: 50 * time.Millisecond}, "", c.handle, log)
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plot.jpg"), []byte("data"), 0o644))

	waitFor(t, 3*time.Second, func() bool { return len(c.handled()) == 1 })
	waitFor(t, time.Second, func() bool { return bytes.Contains([]byte(log.String()), []byte("failed:")) })

	cancel()
	require.NoError(t, <-done)
}

func TestRun_MissingDir(t *testing.T) {
	err := Run(context.Background(), types.WatchConfig{InboxDir: filepath.Join(t.TempDir(), "nope")}, "", nil, &syncBuffer{})
	assert.Error(t, err)
}

func TestRun_BadGlob(t *testing.T) {
	err := Run(context.Background(), types.WatchConfig{InboxDir: t.TempDir()}, "[", nil, &syncBuffer{})
	assert.Error(t, err)
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
