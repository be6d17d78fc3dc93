package event

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
)

// Handler removes the blob an event points at.
type Handler interface {
	HandleOrphan(ctx context.Context, event entity.OrphanBlobEvent) error
}

type JanitorConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

// Janitor drains the bus with a fixed worker pool, retrying failed
// deletions with exponential backoff. Events are handled at most once per
// EventID.
type Janitor struct {
	bus         *Bus
	handler     Handler
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	seen        sync.Map
	wg          sync.WaitGroup
	stop        chan struct{}
	stopOnce    sync.Once
}

func NewJanitor(bus *Bus, handler Handler, cfg JanitorConfig) *Janitor {
	workers := cfg.Workers
	if workers < 1 {
		workers = 2
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	return &Janitor{
		bus:         bus,
		handler:     handler,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		stop:        make(chan struct{}),
	}
}

func (j *Janitor) Start() {
	for i := 0; i < j.workers; i++ {
		j.wg.Add(1)
		go j.worker()
	}
}

// Stop closes the bus and waits for queued events to drain. Pending
// backoff sleeps are cut short once ctx is done.
func (j *Janitor) Stop(ctx context.Context) error {
	if j.bus != nil {
		j.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		j.stopOnce.Do(func() { close(j.stop) })
		if j.bus != nil {
			slog.Warn("janitor stopped before draining", "pending", j.bus.Pending())
		}
		return ctx.Err()
	}
}

func (j *Janitor) worker() {
	defer j.wg.Done()

	for event := range j.bus.Subscribe() {
		j.bus.dequeued(event.FileID)
		j.process(event)
	}
}

func (j *Janitor) process(event entity.OrphanBlobEvent) {
	if j.handler == nil {
		return
	}

	if event.EventID != "" {
		if _, loaded := j.seen.LoadOrStore(event.EventID, struct{}{}); loaded {
			slog.Info("skip duplicate orphan blob event", "event_id", event.EventID, "file_id", event.FileID)
			return
		}
	}

	backoff := j.baseBackoff
	for attempt := 0; attempt <= j.maxRetries; attempt++ {
		err := j.handler.HandleOrphan(context.Background(), event)
		if err == nil {
			slog.Info("orphan blob removed", "event_id", event.EventID, "file_id", event.FileID, "reason", event.Reason)
			return
		}

		if attempt == j.maxRetries {
			slog.Error("failed to remove orphan blob after retries",
				"event_id", event.EventID, "file_id", event.FileID, "reason", event.Reason, "error", err)
			return
		}

		slog.Warn("orphan blob removal failed, retrying",
			"event_id", event.EventID, "file_id", event.FileID, "attempt", attempt+1, "error", err)

		if !j.sleep(backoff) {
			return
		}
		backoff *= 2
	}
}

func (j *Janitor) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-j.stop:
		return false
	}
}
