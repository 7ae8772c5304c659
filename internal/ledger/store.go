package ledger

import (
	"context"
	"time"

	id "symposia/pkg/domain"
)

// Store is the ledger persistence surface.
//
// Insert must be a single atomic insert-if-absent enforced at the storage
// layer (unique constraint or equivalent), never a read-then-write sequence:
// multiple kiosks may submit the identical key within the same instant.
// An active duplicate is reported as sentinel.ErrAlreadyUsed.
type Store interface {
	Insert(ctx context.Context, event *ScanEvent) error
	// FindActive returns the current used record for a key, or
	// sentinel.ErrNotFound.
	FindActive(ctx context.Context, key ScanKey) (*ScanEvent, error)
	// VoidMatching transitions every used record matching the key to
	// voided in one atomic update and returns how many were affected.
	VoidMatching(ctx context.Context, key VoidKey, reason, actor string, at time.Time) (int64, error)
	ListByRegistration(ctx context.Context, eventID id.EventID, registrationID id.RegistrationID) ([]ScanEvent, error)
}
