package audit

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/dukerupert/pulse/internal/database"
	"github.com/dukerupert/pulse/internal/store"
)

func setupRecorder(t *testing.T) (*Recorder, *store.LogStore) {
	t.Helper()
	// File-backed so the recorder goroutine and the test share state.
	db, err := database.Open(filepath.Join(t.TempDir(), "audit_test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logs := store.NewLogStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRecorder(logs, logger), logs
}

func TestRecorderWritesEntries(t *testing.T) {
	rec, logs := setupRecorder(t)

	rec.Record(1, "login", "User logged in successfully")
	rec.Record(1, "redeem-reward", "Redeemed reward: Gift Card, Points Required: 1000")

	// Close drains the queue
	rec.Close()

	entries, err := logs.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestRecorderCloseIdempotent(t *testing.T) {
	rec, _ := setupRecorder(t)

	rec.Close()
	rec.Close()

	// Dropped silently, no panic on the closed queue
	rec.Record(1, "login", "")
}
