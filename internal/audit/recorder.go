package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"smartbin/pkg/clock"
)

// Store is the append-only audit sink.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	// ListByUser returns entries whose affected user matches, oldest first.
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
	// List returns every entry, oldest first.
	List(ctx context.Context) ([]Entry, error)
}

// Recorder captures structured audit entries. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Recorder struct {
	store Store
	clock clock.Clock
}

func NewRecorder(store Store, clk clock.Clock) *Recorder {
	return &Recorder{store: store, clock: clk}
}

// Emit assigns identity and timestamp, then appends. Callers on best-effort
// paths log and swallow the returned error.
func (r *Recorder) Emit(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.clock.Now()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.store.Append(ctx, entry)
}

// ListByUser exposes the trail for the points-history surface.
func (r *Recorder) ListByUser(ctx context.Context, userID string) ([]Entry, error) {
	return r.store.ListByUser(ctx, userID)
}

// List exposes the full trail for the admin audit surface.
func (r *Recorder) List(ctx context.Context) ([]Entry, error) {
	return r.store.List(ctx)
}
