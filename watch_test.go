package imglink

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan FileHash, 4)
	done := make(chan error, 1)
	cfg := &Config{WatchDebounce: 50 * time.Millisecond}
	go func() {
		done <- cfg.Watch(ctx, dir, func(fh FileHash) { got <- fh })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	path := writePNG(t, dir, "new.png", halves(8, 8))
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not watched"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case fh := <-got:
		if fh.Path != path {
			t.Errorf("Path = %q, want %q", fh.Path, path)
		}
		if fh.Err != nil || fh.Hash != "f0f0f0f0f0f0f0f0" {
			t.Errorf("FileHash = %+v", fh)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no callback for new image")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_TinyDebounce(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	cfg := &Config{WatchDebounce: time.Nanosecond}
	if err := cfg.Watch(ctx, t.TempDir(), func(FileHash) {}); err != nil {
		t.Errorf("Watch returned %v, want nil", err)
	}
}

func TestWatch_MissingDir(t *testing.T) {
	t.Parallel()

	err := (&Config{}).Watch(context.Background(), filepath.Join(t.TempDir(), "absent"), func(FileHash) {})
	if !errors.Is(err, ErrIO) {
		t.Errorf("error = %v, want ErrIO", err)
	}
}
