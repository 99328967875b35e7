// Package hook provides synchronous write notifications.
//
// The ingestion pipeline and the catalog service call an Observer after every
// successful write. Nothing registers globally: callers pass observers in
// explicitly, and a nil Observer is valid and ignored.
package hook

import (
	"context"
	"log/slog"
)

// Kind identifies the write that produced an Event.
type Kind string

const (
	KindCreated  Kind = "created"
	KindUpdated  Kind = "updated"
	KindDeleted  Kind = "deleted"
	KindIngested Kind = "ingested"
)

// Event describes one completed write.
type Event struct {
	Kind Kind

	// ObjectID is set for single-row writes.
	ObjectID int64

	// BatchID, Inserted and Skipped are set for ingestion.
	BatchID  string
	Inserted int
	Skipped  int

	// Source names the caller, e.g. "upload" or "restore".
	Source string
}

// Observer receives write events. Notify runs on the writer's goroutine and
// must not block for long.
type Observer interface {
	Notify(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

// Notify calls f.
func (f ObserverFunc) Notify(ctx context.Context, ev Event) { f(ctx, ev) }

// Notify delivers ev to o if o is non-nil.
func Notify(ctx context.Context, o Observer, ev Event) {
	if o != nil {
		o.Notify(ctx, ev)
	}
}

// LogObserver logs every event with slog.
type LogObserver struct {
	Logger *slog.Logger
}

// Notify implements Observer.
func (l LogObserver) Notify(ctx context.Context, ev Event) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if ev.Kind == KindIngested {
		logger.InfoContext(ctx, "records ingested",
			"batch_id", ev.BatchID,
			"source", ev.Source,
			"inserted", ev.Inserted,
			"skipped", ev.Skipped,
		)
		return
	}
	logger.InfoContext(ctx, "record "+string(ev.Kind), "object_id", ev.ObjectID, "source", ev.Source)
}
