package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFileBackend(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}
	db, err := OpenSQLite(filepath.Join(dir, "db", "cuesheet.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"file":   file,
		"sqlite": db,
	}
}

func TestBackendContract(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := b.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}

			if err := b.Put(ctx, "projects", []byte(`[1]`)); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			if err := b.Put(ctx, "projects", []byte(`[1,2]`)); err != nil {
				t.Fatalf("second Put failed: %v", err)
			}
			got, err := b.Get(ctx, "projects")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(got) != `[1,2]` {
				t.Errorf("expected last write to win, got %s", got)
			}
		})
	}
}

func TestMemoryBackendCopiesValues(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	v := []byte("abc")
	_ = b.Put(ctx, "k", v)
	v[0] = 'x'

	got, _ := b.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value changed with the caller's slice: %s", got)
	}
}

func TestFileBackendRejectsPathKeys(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}
	for _, key := range []string{"", "../escape", "a/b", ".."} {
		if err := b.Put(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("expected key %q to be rejected", key)
		}
	}
}

func TestSQLitePragmas(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "cuesheet.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer db.Close()

	var mode string
	if err := db.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode query failed: %v", err)
	}
	if mode != "wal" {
		t.Errorf("expected journal_mode wal, got %q", mode)
	}
	var timeout int
	if err := db.db.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("busy_timeout query failed: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("expected busy_timeout 5000, got %d", timeout)
	}
}

func TestFileBackendWatch(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 8)
	if err := b.Watch(ctx, "projects", func(data []byte) { changes <- string(data) }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// Another writer replaces the file outside the backend.
	if err := os.WriteFile(filepath.Join(dir, "projects.json"), []byte(`["external"]`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-changes:
			if got == `["external"]` {
				return
			}
			t.Logf("intermediate change: %q", got)
		case <-deadline:
			t.Fatal("timed out waiting for change notification")
		}
	}
}
