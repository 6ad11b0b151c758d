package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeAtomic replaces path in one step so the watcher never reads a
// half-written file.
func writeAtomic(t *testing.T, path, content string) {
	t.Helper()
	tmp := filepath.Join(filepath.Dir(path), ".pending")
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o644))
	require.NoError(t, os.Rename(tmp, path))
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toastq.toml")
	require.NoError(t, DefaultConfig().Save(path))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	reloaded := make(chan *Config, 4)
	w.SetReloadCallback(func(cfg *Config) { reloaded <- cfg })

	require.NoError(t, w.Start(DefaultConfig()))
	defer func() { _ = w.Stop() }()

	writeAtomic(t, path, "[display]\ninterval = \"9s\"\n")

	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case cfg := <-reloaded:
			done = cfg.Interval() == 9*time.Second
		case <-timeout:
			t.Fatal("config was not reloaded")
		}
	}

	assert.Eventually(t, func() bool {
		return w.Current().Interval() == 9*time.Second
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_InvalidConfigReportsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toastq.toml")
	require.NoError(t, DefaultConfig().Save(path))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	errs := make(chan error, 4)
	w.SetErrorCallback(func(err error) { errs <- err })

	initial := DefaultConfig()
	require.NoError(t, w.Start(initial))
	defer func() { _ = w.Stop() }()

	writeAtomic(t, path, "[tray]\nposition = \"sideways\"\n")

	select {
	case err := <-errs:
		assert.Contains(t, err.Error(), "position")
	case <-time.After(5 * time.Second):
		t.Fatal("error callback was not called")
	}

	// The last valid config is kept
	assert.Same(t, initial, w.Current())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toastq.toml")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	called := make(chan struct{}, 1)
	w.SetReloadCallback(func(cfg *Config) { called <- struct{}{} })
	require.NoError(t, w.Start(DefaultConfig()))
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1"), 0o644))

	select {
	case <-called:
		t.Fatal("reload triggered by unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(filepath.Join(dir, "toastq.toml"), nil)
	require.NoError(t, err)

	// Stop before start is a no-op
	assert.NoError(t, w.Stop())

	require.NoError(t, w.Start(DefaultConfig()))
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWatcher_Latest(t *testing.T) {
	fallback := DefaultConfig()

	var nilWatcher *Watcher
	assert.Same(t, fallback, nilWatcher.Latest(fallback))

	dir := t.TempDir()
	path := filepath.Join(dir, "toastq.toml")
	require.NoError(t, DefaultConfig().Save(path))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	assert.Same(t, fallback, w.Latest(fallback), "not started")

	initial := DefaultConfig()
	require.NoError(t, w.Start(initial))
	defer func() { _ = w.Stop() }()
	assert.Same(t, initial, w.Latest(fallback))

	writeAtomic(t, path, "[tray]\nwidth = 60\n")
	w.reload()
	assert.Equal(t, 60, w.Latest(fallback).Tray.Width)
}
