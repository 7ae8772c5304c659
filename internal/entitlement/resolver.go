// Package entitlement decides whether a registrant's category may consume a
// specific resource option. Rules are centralized here and kept free of
// storage concerns so every gate is independently testable.
package entitlement

import (
	"context"
	"fmt"

	"symposia/internal/roster"
	id "symposia/pkg/domain"
)

// Gate names the rule that produced a denial, so callers can show an
// actionable message.
type Gate string

const (
	GateRegistration Gate = "registration"
	GatePermission   Gate = "permission"
	GateEntitlement  Gate = "entitlement"
	GateAbstract     Gate = "abstract"
)

// Decision is the outcome of a resolution. Zero value is a deny.
type Decision struct {
	Allowed bool
	Gate    Gate
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(gate Gate, reason string) Decision {
	return Decision{Gate: gate, Reason: reason}
}

// AbstractChecker is the one external predicate the resolver needs: whether
// an approved abstract exists for (event, registration).
type AbstractChecker interface {
	HasApprovedAbstract(ctx context.Context, eventID id.EventID, registrationID id.RegistrationID) (bool, error)
}

// Resolver evaluates the category rule chain for one scan attempt.
type Resolver struct {
	abstracts AbstractChecker
}

func NewResolver(abstracts AbstractChecker) *Resolver {
	return &Resolver{abstracts: abstracts}
}

// Resolve applies the rule chain (fail-fast):
//  1. Registration gate: a cancelled registration consumes nothing.
//  2. Permission gate: only an explicit false denies; absence allows.
//  3. Entitlement-list gate (skipped for certificate printing): an empty
//     list allows everything; a non-empty list denies only options
//     explicitly marked not entitled. Operators configure exceptions, not
//     allowlists - default-allow must be preserved precisely.
//  4. Certificate precondition: at least one approved abstract.
func (r *Resolver) Resolve(ctx context.Context, registration *roster.Registration, category *roster.Category, resourceType id.ResourceType, optionID id.OptionID) (Decision, error) {
	if registration.Status == roster.RegistrationCancelled {
		return deny(GateRegistration, "registration cancelled"), nil
	}

	if d := EvaluateCategory(category, resourceType, optionID); !d.Allowed {
		return d, nil
	}

	if resourceType == id.ResourceCertificatePrinting {
		approved, err := r.abstracts.HasApprovedAbstract(ctx, registration.EventID, registration.ID)
		if err != nil {
			return Decision{}, fmt.Errorf("check approved abstract: %w", err)
		}
		if !approved {
			return deny(GateAbstract, "no-approved-abstract"), nil
		}
	}

	return allow(), nil
}

// EvaluateCategory applies the category-only gates. Pure domain logic - no
// I/O, no side effects.
func EvaluateCategory(category *roster.Category, resourceType id.ResourceType, optionID id.OptionID) Decision {
	// Rule 1: permission gate - explicit false denies the whole type.
	if !category.PermissionAllows(resourceType) {
		return deny(GatePermission, "category not permitted for "+string(resourceType))
	}

	// Rule 2: entitlement-list gate. Certificate printing is governed by
	// the abstract precondition instead of per-option exceptions.
	if resourceType == id.ResourceCertificatePrinting {
		return allow()
	}

	list := category.EntitlementsFor(resourceType)
	if list.Empty() {
		return allow()
	}
	if entitled, found := list.Lookup(optionID); found && !entitled {
		return deny(GateEntitlement, "option explicitly not entitled")
	}
	// Absent from a non-empty list still allows: the list holds
	// exceptions, not an allowlist.
	return allow()
}
