package audit

import (
	"time"

	"github.com/google/uuid"

	id "symposia/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose. Categories
// drive retention policy and downstream routing.
type EventCategory string

const (
	// CategoryCompliance covers events operators may need to answer for:
	// consumption records, voids, forced reprints.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers denied scans and other access violations.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity useful for debugging;
	// short retention, may be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	// ID is stamped once by the Publisher. It is the idempotency key for
	// persistence, so a replayed worker batch cannot double-write.
	ID             uuid.UUID
	Category       EventCategory
	Timestamp      time.Time
	EventID        id.EventID
	RegistrationID id.RegistrationID
	Subject        string // human-readable subject (registrant name)
	Action         string
	ResourceType   string
	OptionID       string
	Decision       string // "recorded", "duplicate", "denied", "voided", "rendered"
	Reason         string // gate or void reason when applicable
	ActorID        string // kiosk or operator that performed the action
	RequestID      string // correlation ID from HTTP request context
}

type AuditEvent string

const (
	// Scan ledger events
	EventScanRecorded  AuditEvent = "scan_recorded"
	EventScanDuplicate AuditEvent = "scan_duplicate"
	EventScanDenied    AuditEvent = "scan_denied"
	EventScanVoided    AuditEvent = "scan_voided"

	// Certificate events
	EventCertificateRendered  AuditEvent = "certificate_rendered"
	EventCertificateReprinted AuditEvent = "certificate_reprinted"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	// Compliance events - consumption and its reversals must be answerable
	EventScanRecorded:         CategoryCompliance,
	EventScanVoided:           CategoryCompliance,
	EventCertificateReprinted: CategoryCompliance,

	// Security events - denials feed operator review
	EventScanDenied: CategorySecurity,

	// Operations events - routine activity, can be sampled
	EventScanDuplicate:       CategoryOperations,
	EventCertificateRendered: CategoryOperations,
}

// Category returns the EventCategory for this audit event. Unknown events
// default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
