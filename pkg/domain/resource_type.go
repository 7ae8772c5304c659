package domain

import dErrors "symposia/pkg/domain-errors"

// ResourceType identifies a class of consumable resource a registrant can be
// entitled to. The scan ledger and entitlement rules are keyed by it.
//
// Usage: construct via ParseResourceType at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type ResourceType string

const (
	// ResourceFood covers meal sittings. Food scans are additionally scoped
	// by the meal's calendar day.
	ResourceFood ResourceType = "food"
	// ResourceKit covers conference kit items (bags, badges, merchandise).
	ResourceKit ResourceType = "kit"
	// ResourceCertificatePrinting covers certificate issuance. Its scans may
	// be forced for deliberate reprints.
	ResourceCertificatePrinting ResourceType = "certificatePrinting"
)

// validResourceTypes is the single source of truth for supported types.
var validResourceTypes = map[ResourceType]bool{
	ResourceFood:                true,
	ResourceKit:                 true,
	ResourceCertificatePrinting: true,
}

// ParseResourceType constructs a ResourceType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseResourceType(s string) (ResourceType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "resource type cannot be empty")
	}
	rt := ResourceType(s)
	if !rt.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported resource type: "+s)
	}
	return rt, nil
}

// IsValid reports whether the value is a supported resource type.
func (rt ResourceType) IsValid() bool {
	return validResourceTypes[rt]
}

// DayScoped reports whether scans of this type are deduplicated per calendar
// day rather than once per event.
func (rt ResourceType) DayScoped() bool {
	return rt == ResourceFood
}

func (rt ResourceType) String() string { return string(rt) }
