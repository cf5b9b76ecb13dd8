package tuning

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feel.yaml")
	if err := os.WriteFile(path, []byte("tilt_gain: 0.4\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	// A burst of writes can leave the run loop holding a pending event
	// when Close lands; closing must never race a send.
	for i := 0; i < 8; i++ {
		if err := os.WriteFile(path, []byte("tilt_gain: 0.5\n"), 0o644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	// Both channels drain and close once the run loop exits.
	timeout := time.After(2 * time.Second)
	for open := true; open; {
		select {
		case _, ok := <-w.Events:
			open = ok
		case <-timeout:
			t.Fatalf("Events still open after Close")
		}
	}
	for open := true; open; {
		select {
		case _, ok := <-w.Errors:
			open = ok
		case <-timeout:
			t.Fatalf("Errors still open after Close")
		}
	}
}
