package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"policymap/internal/amqp"
	"policymap/internal/services"
)

// Reloader is the part of services.Catalog the worker drives.
type Reloader interface {
	Reload(ctx context.Context) (*services.Snapshot, error)
}

// ReloadWorker turns queued reload requests into catalog reloads.
type ReloadWorker struct {
	catalog Reloader
	timeout time.Duration
}

func NewReloadWorker(catalog Reloader, timeout time.Duration) *ReloadWorker {
	return &ReloadWorker{catalog: catalog, timeout: timeout}
}

// HandleReloadMessage reloads the catalog for one request. A returned error makes the
// consumer requeue a first delivery and drop a redelivered one.
func (w *ReloadWorker) HandleReloadMessage(ctx context.Context, msg *amqp.ReloadRequestMessage) error {
	slog.InfoContext(ctx, "Processing reload request",
		"reason", msg.Reason,
		"requested_by", msg.RequestedBy,
		"queued_for", time.Since(msg.Timestamp).Round(time.Millisecond))

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	snap, err := w.catalog.Reload(ctx)
	if err != nil {
		return fmt.Errorf("reload catalog: %w", err)
	}

	slog.InfoContext(ctx, "Reload request completed",
		"snapshot_id", snap.ID,
		"states", len(snap.Summaries),
		"dropped", len(snap.Dropped))
	return nil
}

// Publisher is the part of amqp.Client used to announce snapshots.
type Publisher interface {
	PublishCatalogReloaded(ctx context.Context, msg *amqp.CatalogReloadedMessage) error
}

// ReloadNotifier publishes a CatalogReloadedMessage for every new snapshot.
type ReloadNotifier struct {
	publisher Publisher
}

var _ services.Notifier = (*ReloadNotifier)(nil)

func NewReloadNotifier(p Publisher) *ReloadNotifier {
	return &ReloadNotifier{publisher: p}
}

func (n *ReloadNotifier) CatalogReloaded(ctx context.Context, snap *services.Snapshot) error {
	return n.publisher.PublishCatalogReloaded(ctx, &amqp.CatalogReloadedMessage{
		SnapshotID: snap.ID,
		Source:     snap.Source,
		States:     len(snap.Summaries),
		Bills:      snap.BillsKept,
		Dropped:    len(snap.Dropped),
		Timestamp:  snap.LoadedAt,
	})
}
