package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"policymap/internal/amqp"
	"policymap/internal/core"
	"policymap/internal/services"
)

type fakeReloader struct {
	snap        *services.Snapshot
	err         error
	calls       int
	hadDeadline bool
}

func (f *fakeReloader) Reload(ctx context.Context) (*services.Snapshot, error) {
	f.calls++
	_, f.hadDeadline = ctx.Deadline()
	return f.snap, f.err
}

func TestReloadWorker_HandleReloadMessage(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := &fakeReloader{snap: &services.Snapshot{ID: "s1", Summaries: core.Summaries{}}}
		w := NewReloadWorker(r, time.Second)

		if err := w.HandleReloadMessage(context.Background(), amqp.NewReloadRequestMessage("test", "unit")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.calls != 1 || !r.hadDeadline {
			t.Errorf("calls=%d deadline=%v", r.calls, r.hadDeadline)
		}
	})

	t.Run("reload failure is returned for requeue", func(t *testing.T) {
		sourceErr := errors.New("sheet unavailable")
		w := NewReloadWorker(&fakeReloader{err: sourceErr}, 0)

		err := w.HandleReloadMessage(context.Background(), amqp.NewReloadRequestMessage("test", "unit"))
		if !errors.Is(err, sourceErr) {
			t.Fatalf("expected wrapped source error, got %v", err)
		}
	})

	t.Run("no timeout leaves context untouched", func(t *testing.T) {
		r := &fakeReloader{snap: &services.Snapshot{ID: "s2"}}
		w := NewReloadWorker(r, 0)
		if err := w.HandleReloadMessage(context.Background(), &amqp.ReloadRequestMessage{}); err != nil {
			t.Fatal(err)
		}
		if r.hadDeadline {
			t.Error("expected no deadline")
		}
	})
}

type fakePublisher struct {
	msgs []*amqp.CatalogReloadedMessage
	err  error
}

func (f *fakePublisher) PublishCatalogReloaded(ctx context.Context, msg *amqp.CatalogReloadedMessage) error {
	f.msgs = append(f.msgs, msg)
	return f.err
}

func TestReloadNotifier(t *testing.T) {
	loaded := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	pub := &fakePublisher{}
	n := NewReloadNotifier(pub)

	snap := &services.Snapshot{
		ID:        "abc",
		Source:    "csv:bills.csv",
		LoadedAt:  loaded,
		Summaries: core.Summaries{"TX": {}, "OH": {}},
		Dropped:   []core.Diagnostic{{Index: 3, State: "Atlantis"}},
		BillsKept: 7,
	}
	if err := n.CatalogReloaded(context.Background(), snap); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(pub.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(pub.msgs))
	}
	msg := pub.msgs[0]
	if msg.SnapshotID != "abc" || msg.States != 2 || msg.Bills != 7 || msg.Dropped != 1 || !msg.Timestamp.Equal(loaded) {
		t.Errorf("unexpected message: %+v", msg)
	}

	pub.err = errors.New("circuit open")
	if err := n.CatalogReloaded(context.Background(), snap); err == nil {
		t.Error("publisher error should be returned")
	}
}
