package event

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
)

type handlerFunc func(ctx context.Context, event entity.OrphanBlobEvent) error

func (h handlerFunc) HandleOrphan(ctx context.Context, event entity.OrphanBlobEvent) error {
	return h(ctx, event)
}

func TestJanitorRetriesAndSkipsDuplicates(t *testing.T) {
	bus := NewBus(10)

	var attempts int32
	done := make(chan struct{})
	handler := handlerFunc(func(ctx context.Context, event entity.OrphanBlobEvent) error {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			return errors.New("temporary failure")
		}
		close(done)
		return nil
	})

	janitor := NewJanitor(bus, handler, JanitorConfig{
		Workers:     1,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	})
	janitor.Start()

	event := entity.OrphanBlobEvent{EventID: "evt-1", FileID: "file-1", Reason: entity.OrphanReasonMetadataFailed}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish event: %v", err)
	}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish duplicate: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for handler")
	}

	if err := janitor.Stop(context.Background()); err != nil {
		t.Fatalf("stop janitor: %v", err)
	}

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestJanitorGivesUpAfterMaxRetries(t *testing.T) {
	bus := NewBus(1)

	var attempts int32
	handler := handlerFunc(func(ctx context.Context, event entity.OrphanBlobEvent) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("permanent failure")
	})

	janitor := NewJanitor(bus, handler, JanitorConfig{Workers: 1, MaxRetries: 1, BaseBackoff: time.Millisecond})
	janitor.Start()

	if err := bus.Publish(context.Background(), entity.OrphanBlobEvent{EventID: "evt-2", FileID: "file-2"}); err != nil {
		t.Fatalf("publish event: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := janitor.Stop(ctx); err != nil {
		t.Fatalf("stop janitor: %v", err)
	}

	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestBusPublishAfterClose(t *testing.T) {
	bus := NewBus(0)
	bus.Close()
	bus.Close()

	if err := bus.Publish(context.Background(), entity.OrphanBlobEvent{}); !errors.Is(err, ErrBusClosed) {
		t.Fatalf("Publish() err = %v, want ErrBusClosed", err)
	}
}

func TestBusPublishHonoursContext(t *testing.T) {
	bus := NewBus(1)
	if err := bus.Publish(context.Background(), entity.OrphanBlobEvent{EventID: "a", FileID: "file-a"}); err != nil {
		t.Fatalf("first publish: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := bus.Publish(ctx, entity.OrphanBlobEvent{EventID: "b", FileID: "file-b"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Publish() err = %v, want context.Canceled", err)
	}
}

func TestBusMergesQueuedEventsPerFile(t *testing.T) {
	bus := NewBus(4)
	ctx := context.Background()

	if err := bus.Publish(ctx, entity.OrphanBlobEvent{EventID: "x"}); !errors.Is(err, ErrMissingFileID) {
		t.Fatalf("Publish(no file id) err = %v, want ErrMissingFileID", err)
	}

	events := []entity.OrphanBlobEvent{
		{EventID: "1", FileID: "file-1", Reason: entity.OrphanReasonSweep},
		{EventID: "2", FileID: "file-1", Reason: entity.OrphanReasonDeleteFailed},
		{EventID: "3", FileID: "file-2", Reason: entity.OrphanReasonDeleteFailed},
	}
	for _, ev := range events {
		if err := bus.Publish(ctx, ev); err != nil {
			t.Fatalf("Publish(%s) err = %v", ev.EventID, err)
		}
	}

	pending := bus.Pending()
	if pending[entity.OrphanReasonSweep] != 1 || pending[entity.OrphanReasonDeleteFailed] != 1 {
		t.Fatalf("Pending() = %v", pending)
	}

	first := <-bus.Subscribe()
	if first.EventID != "1" {
		t.Fatalf("first event = %s, want 1", first.EventID)
	}
	bus.dequeued(first.FileID)

	// file-1 left the queue, so a new event for it is accepted again.
	if err := bus.Publish(ctx, events[1]); err != nil {
		t.Fatalf("Publish(requeue) err = %v", err)
	}
	bus.Close()

	var got []string
	for ev := range bus.Subscribe() {
		got = append(got, ev.EventID)
	}
	if len(got) != 2 || got[0] != "3" || got[1] != "2" {
		t.Fatalf("remaining events = %v, want [3 2]", got)
	}
}
