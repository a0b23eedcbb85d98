package audit

import (
	"log/slog"
	"sync"

	"github.com/dukerupert/pulse/internal/store"
)

type event struct {
	userID  int64
	action  string
	details string
}

// Recorder writes audit log entries off the request path. Entries are
// best-effort: a full buffer or a failed write drops the entry with a
// warning and never fails the request that produced it.
type Recorder struct {
	logs   *store.LogStore
	logger *slog.Logger
	events chan event
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewRecorder(logs *store.LogStore, logger *slog.Logger) *Recorder {
	r := &Recorder{
		logs:   logs,
		logger: logger,
		events: make(chan event, 64),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for e := range r.events {
		if err := r.logs.Append(e.userID, e.action, e.details); err != nil {
			r.logger.Warn("audit write failed", "action", e.action, "user_id", e.userID, "error", err)
		}
	}
}

// Record queues an audit entry. Never blocks the caller.
func (r *Recorder) Record(userID int64, action, details string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.events <- event{userID: userID, action: action, details: details}:
	default:
		r.logger.Warn("audit buffer full, dropping entry", "action", action, "user_id", userID)
	}
}

// Close drains queued entries and stops the writer. Record calls after
// Close are dropped.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.events)
	r.mu.Unlock()
	r.wg.Wait()
}
