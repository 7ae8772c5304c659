package roster

import (
	"context"

	id "symposia/pkg/domain"
)

// Store is the read surface the core needs from the registration system.
// Implementations return sentinel.ErrNotFound when an entity is absent.
type Store interface {
	// FindRegistration resolves a kiosk-provided reference: either the
	// registration UUID or the badge QR code.
	FindRegistration(ctx context.Context, eventID id.EventID, ref string) (*Registration, error)
	FindCategory(ctx context.Context, categoryID id.CategoryID) (*Category, error)
	FindEvent(ctx context.Context, eventID id.EventID) (*Event, error)
	FindAbstract(ctx context.Context, abstractID id.AbstractID) (*Abstract, error)
	// FirstAbstractFor returns the oldest abstract submitted by the
	// registrant at this event, or sentinel.ErrNotFound.
	FirstAbstractFor(ctx context.Context, eventID id.EventID, registrationID id.RegistrationID) (*Abstract, error)
	// HasApprovedAbstract reports whether at least one approved abstract
	// exists for (event, registration).
	HasApprovedAbstract(ctx context.Context, eventID id.EventID, registrationID id.RegistrationID) (bool, error)
	FindWorkshop(ctx context.Context, workshopID id.WorkshopID) (*Workshop, error)
}
