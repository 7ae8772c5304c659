package domain

import (
	"github.com/google/uuid"

	dErrors "symposia/pkg/domain-errors"
)

// Typed IDs prevent cross-entity assignment at compile time. Construct via
// the Parse helpers at trust boundaries; direct casting bypasses validation.
type (
	EventID        uuid.UUID
	RegistrationID uuid.UUID
	CategoryID     uuid.UUID
	OptionID       uuid.UUID
	TemplateID     uuid.UUID
	AbstractID     uuid.UUID
	WorkshopID     uuid.UUID
	ScanID         uuid.UUID
)

func (id EventID) String() string        { return uuid.UUID(id).String() }
func (id RegistrationID) String() string { return uuid.UUID(id).String() }
func (id CategoryID) String() string     { return uuid.UUID(id).String() }
func (id OptionID) String() string       { return uuid.UUID(id).String() }
func (id TemplateID) String() string     { return uuid.UUID(id).String() }
func (id AbstractID) String() string     { return uuid.UUID(id).String() }
func (id WorkshopID) String() string     { return uuid.UUID(id).String() }
func (id ScanID) String() string         { return uuid.UUID(id).String() }

func (id EventID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id RegistrationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id OptionID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id TemplateID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id AbstractID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id WorkshopID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// parseUUID enforces the shared invariant: IDs must be valid, non-nil UUIDs.
func parseUUID(raw, field string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be the nil UUID")
	}
	return parsed, nil
}

func ParseEventID(raw string) (EventID, error) {
	parsed, err := parseUUID(raw, "event_id")
	return EventID(parsed), err
}

func ParseRegistrationID(raw string) (RegistrationID, error) {
	parsed, err := parseUUID(raw, "registration_id")
	return RegistrationID(parsed), err
}

func ParseOptionID(raw string) (OptionID, error) {
	parsed, err := parseUUID(raw, "option_id")
	return OptionID(parsed), err
}

func ParseTemplateID(raw string) (TemplateID, error) {
	parsed, err := parseUUID(raw, "template_id")
	return TemplateID(parsed), err
}

func ParseAbstractID(raw string) (AbstractID, error) {
	parsed, err := parseUUID(raw, "abstract_id")
	return AbstractID(parsed), err
}

func ParseWorkshopID(raw string) (WorkshopID, error) {
	parsed, err := parseUUID(raw, "workshop_id")
	return WorkshopID(parsed), err
}
