// Package worker decouples audit persistence from request latency: services
// publish into a buffered inbox and a single worker owns the store writes.
package worker

import (
	"context"
	"log/slog"

	id "symposia/pkg/domain"
	audit "symposia/pkg/platform/audit"
)

// Inbox is an audit.Store whose Append enqueues onto a channel. Reads pass
// through to the backing store. When the buffer is full, Append degrades to
// a synchronous write so events are never dropped.
type Inbox struct {
	backing audit.Store
	events  chan audit.Event
}

func NewInbox(backing audit.Store, buffer int) *Inbox {
	return &Inbox{backing: backing, events: make(chan audit.Event, buffer)}
}

// Events is the channel the worker consumes.
func (i *Inbox) Events() <-chan audit.Event { return i.events }

func (i *Inbox) Append(ctx context.Context, event audit.Event) error {
	select {
	case i.events <- event:
		return nil
	default:
		return i.backing.Append(ctx, event)
	}
}

func (i *Inbox) ListByRegistration(ctx context.Context, eventID id.EventID, registrationID id.RegistrationID) ([]audit.Event, error) {
	return i.backing.ListByRegistration(ctx, eventID, registrationID)
}

func (i *Inbox) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	return i.backing.ListRecent(ctx, limit)
}

// Worker drains an inbox into the audit store. Append failures are logged
// and skipped; the trail is best-effort and must never stall scans.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run consumes until the context is cancelled, then drains what is already
// buffered before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.persist(ctx, event)
		}
	}
}

func (w *Worker) drain() {
	for {
		select {
		case event := <-w.inbox:
			w.persist(context.Background(), event)
		default:
			return
		}
	}
}

func (w *Worker) persist(ctx context.Context, event audit.Event) {
	if err := w.store.Append(ctx, event); err != nil && w.logger != nil {
		w.logger.ErrorContext(ctx, "audit append failed",
			"action", event.Action,
			"event_id", event.EventID,
			"error", err,
		)
	}
}
