package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
)

var (
	ErrBusClosed     = errors.New("event bus is closed")
	ErrMissingFileID = errors.New("orphan blob event has no file id")
)

// Bus is a bounded in-process queue of orphan blob events. At most one event
// per blob waits in the queue; a second one for the same file is merged into
// it until a worker picks the first up.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	ch     chan entity.OrphanBlobEvent

	pendingMu sync.Mutex
	pending   map[string]entity.OrphanReason
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		ch:      make(chan entity.OrphanBlobEvent, buffer),
		pending: make(map[string]entity.OrphanReason),
	}
}

// Publish blocks while the buffer is full until ctx is done.
func (b *Bus) Publish(ctx context.Context, event entity.OrphanBlobEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}
	if event.FileID == "" {
		return ErrMissingFileID
	}
	if queued, ok := b.enqueue(event); !ok {
		slog.InfoContext(ctx, "orphan blob already queued",
			"file_id", event.FileID, "event_id", event.EventID, "reason", event.Reason, "queued_reason", queued)
		return nil
	}

	select {
	case b.ch <- event:
		slog.DebugContext(ctx, "orphan blob event published", "file_id", event.FileID, "reason", event.Reason)
		return nil
	case <-ctx.Done():
		b.dequeued(event.FileID)
		return ctx.Err()
	}
}

func (b *Bus) Subscribe() <-chan entity.OrphanBlobEvent {
	return b.ch
}

// Pending reports how many queued events carry each reason.
func (b *Bus) Pending() map[entity.OrphanReason]int {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()

	out := make(map[entity.OrphanReason]int)
	for _, reason := range b.pending {
		out[reason]++
	}
	return out
}

// enqueue reserves the queue slot for event.FileID, or returns the reason of
// the event already holding it.
func (b *Bus) enqueue(event entity.OrphanBlobEvent) (entity.OrphanReason, bool) {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()

	if queued, ok := b.pending[event.FileID]; ok {
		return queued, false
	}
	b.pending[event.FileID] = event.Reason
	return event.Reason, true
}

// dequeued lets a later event for fileID into the queue again.
func (b *Bus) dequeued(fileID string) {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()
	delete(b.pending, fileID)
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.ch)
}
