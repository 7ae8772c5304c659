package worker_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "symposia/pkg/domain"
	audit "symposia/pkg/platform/audit"
	auditmem "symposia/pkg/platform/audit/store/memory"
	"symposia/pkg/platform/audit/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorkerPersistsBufferedEvents(t *testing.T) {
	store := auditmem.New()
	inbox := worker.NewInbox(store, 8)

	eventID := id.EventID(uuid.New())
	registrationID := id.RegistrationID(uuid.New())
	for i := 0; i < 3; i++ {
		require.NoError(t, inbox.Append(context.Background(), audit.Event{
			EventID:        eventID,
			RegistrationID: registrationID,
			Action:         string(audit.EventScanRecorded),
		}))
	}

	// Nothing hits the store until the worker runs.
	trail, err := store.ListByRegistration(context.Background(), eventID, registrationID)
	require.NoError(t, err)
	assert.Empty(t, trail)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- worker.NewWorker(store, inbox.Events(), discardLogger()).Run(ctx)
	}()

	require.Eventually(t, func() bool {
		trail, err := store.ListByRegistration(context.Background(), eventID, registrationID)
		return err == nil && len(trail) == 3
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWorkerDrainsOnShutdown(t *testing.T) {
	store := auditmem.New()
	inbox := worker.NewInbox(store, 8)

	eventID := id.EventID(uuid.New())
	registrationID := id.RegistrationID(uuid.New())
	for i := 0; i < 4; i++ {
		require.NoError(t, inbox.Append(context.Background(), audit.Event{
			EventID:        eventID,
			RegistrationID: registrationID,
			Action:         string(audit.EventScanVoided),
		}))
	}

	// The context is already cancelled; Run must still flush the buffer.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := worker.NewWorker(store, inbox.Events(), discardLogger()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	trail, err := store.ListByRegistration(context.Background(), eventID, registrationID)
	require.NoError(t, err)
	assert.Len(t, trail, 4)
}

func TestInboxFallsBackWhenFull(t *testing.T) {
	store := auditmem.New()
	inbox := worker.NewInbox(store, 1)

	eventID := id.EventID(uuid.New())
	registrationID := id.RegistrationID(uuid.New())
	event := audit.Event{
		EventID:        eventID,
		RegistrationID: registrationID,
		Action:         string(audit.EventScanRecorded),
	}

	// First fills the buffer, second must write through synchronously.
	require.NoError(t, inbox.Append(context.Background(), event))
	require.NoError(t, inbox.Append(context.Background(), event))

	trail, err := store.ListByRegistration(context.Background(), eventID, registrationID)
	require.NoError(t, err)
	assert.Len(t, trail, 1, "overflow event is written directly to the store")

	// Reads pass through to the backing store.
	viaInbox, err := inbox.ListByRegistration(context.Background(), eventID, registrationID)
	require.NoError(t, err)
	assert.Equal(t, trail, viaInbox)
}
