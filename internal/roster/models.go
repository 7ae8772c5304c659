// Package roster exposes read-only collaborator data owned by the wider
// conference system: registrations, categories, abstracts, workshops and
// events. The core never mutates these; it only reads the narrow surface the
// entitlement and certificate flows need.
package roster

import (
	"strings"
	"time"

	id "symposia/pkg/domain"
)

// PersonalInfo is the registrant-facing subset of a registration form.
type PersonalInfo struct {
	FirstName    string
	LastName     string
	Email        string
	Organization string
	Country      string
}

// FullName joins first and last name, trimming when either side is empty.
func (p PersonalInfo) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// RegistrationStatus mirrors the owning system's lifecycle states.
type RegistrationStatus string

const (
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// Registration is a registrant's record at one event.
type Registration struct {
	ID           id.RegistrationID
	EventID      id.EventID
	CategoryID   id.CategoryID
	PersonalInfo PersonalInfo
	// BadgeCode is the value embedded in the printed QR badge; kiosks may
	// scan it instead of quoting the registration UUID.
	BadgeCode string
	Status    RegistrationStatus
}

// Entitlement is one configured exception for a category: an explicit
// allow or deny of a single resource option.
type Entitlement struct {
	OptionID id.OptionID
	Entitled bool
}

// EntitlementList indexes a category's configured exceptions by option so
// per-scan lookups are O(1) regardless of list size.
type EntitlementList struct {
	byOption map[id.OptionID]bool
}

// NewEntitlementList builds the index from the administrator-ordered list.
// Later duplicates win, matching how the configuration UI persists edits.
func NewEntitlementList(entries []Entitlement) EntitlementList {
	if len(entries) == 0 {
		return EntitlementList{}
	}
	byOption := make(map[id.OptionID]bool, len(entries))
	for _, e := range entries {
		byOption[e.OptionID] = e.Entitled
	}
	return EntitlementList{byOption: byOption}
}

// Empty reports whether the category has no configured exceptions.
func (l EntitlementList) Empty() bool { return len(l.byOption) == 0 }

// Lookup returns the configured flag for an option and whether an entry
// exists at all.
func (l EntitlementList) Lookup(optionID id.OptionID) (entitled, found bool) {
	entitled, found = l.byOption[optionID]
	return entitled, found
}

// Category groups registrants and carries their resource rules. Owned and
// mutated by event administrators; read-only here.
type Category struct {
	ID      id.CategoryID
	EventID id.EventID
	Name    string
	// Permissions gates whole resource types. A missing key means allowed;
	// only an explicit false denies.
	Permissions map[id.ResourceType]bool
	// Entitlements carries per-option exceptions by resource type.
	Entitlements map[id.ResourceType]EntitlementList
}

// PermissionAllows applies the permission gate semantics: absent means
// allowed, only explicit false denies.
func (c *Category) PermissionAllows(rt id.ResourceType) bool {
	allowed, found := c.Permissions[rt]
	return !found || allowed
}

// EntitlementsFor returns the (possibly empty) exception list for a type.
func (c *Category) EntitlementsFor(rt id.ResourceType) EntitlementList {
	return c.Entitlements[rt]
}

// AbstractStatus mirrors the submission workflow states.
type AbstractStatus string

const (
	AbstractSubmitted AbstractStatus = "submitted"
	AbstractApproved  AbstractStatus = "approved"
	AbstractRejected  AbstractStatus = "rejected"
)

// Abstract is a registrant's submission at one event.
type Abstract struct {
	ID             id.AbstractID
	EventID        id.EventID
	RegistrationID id.RegistrationID
	Title          string
	Authors        []string
	Status         AbstractStatus
	Code           string
}

// Workshop is a sub-event a registrant may attend.
type Workshop struct {
	ID       id.WorkshopID
	EventID  id.EventID
	Title    string
	Venue    string
	StartsAt time.Time
	EndsAt   time.Time
}

// Event is the owning conference.
type Event struct {
	ID        id.EventID
	Name      string
	Venue     string
	City      string
	StartDate time.Time
	EndDate   time.Time
}
