// Package ledger records resource consumption exactly once per logical key
// under concurrent kiosk scans. The write path is a single atomic
// insert-if-absent; duplicates are a first-class outcome, not a failure.
package ledger

import (
	"time"

	id "symposia/pkg/domain"
)

// ScanStatus is the lifecycle of a ledger record. Transitions are monotonic:
// used records may become voided; voided records never revert. A re-scan
// after a void creates a fresh record.
type ScanStatus string

const (
	StatusUsed   ScanStatus = "used"
	StatusVoided ScanStatus = "voided"
)

// ScanKey is the logical identity a scan deduplicates on. Day is the
// ISO calendar day (YYYY-MM-DD) and participates only for day-scoped
// resource types; it is empty otherwise.
type ScanKey struct {
	EventID        id.EventID
	RegistrationID id.RegistrationID
	ResourceType   id.ResourceType
	OptionID       id.OptionID
	Day            string
}

// VoidKey matches records for bulk voiding. It deliberately omits the day:
// voiding clears every used record sharing the option, including duplicate
// or legacy rows.
type VoidKey struct {
	EventID        id.EventID
	RegistrationID id.RegistrationID
	ResourceType   id.ResourceType
	OptionID       id.OptionID
}

// ScanEvent is one ledger record. Display fields are denormalized at record
// time so listings never join against roster or configuration tables.
type ScanEvent struct {
	ID             id.ScanID
	EventID        id.EventID
	RegistrationID id.RegistrationID
	ResourceType   id.ResourceType
	OptionID       id.OptionID
	// Day is the consumption calendar day for day-scoped types, empty
	// otherwise. Part of the uniqueness key (see ScanKey).
	Day    string
	Status ScanStatus

	// Denormalized display fields.
	OptionLabel    string
	RegistrantName string
	CategoryName   string

	ActorID   string
	CreatedAt time.Time

	VoidedAt   *time.Time
	VoidReason string
	VoidedBy   string
}

// Key returns the record's deduplication key.
func (e *ScanEvent) Key() ScanKey {
	return ScanKey{
		EventID:        e.EventID,
		RegistrationID: e.RegistrationID,
		ResourceType:   e.ResourceType,
		OptionID:       e.OptionID,
		Day:            e.Day,
	}
}
