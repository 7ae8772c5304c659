package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"symposia/internal/entitlement"
	"symposia/internal/ledger/metrics"
	"symposia/internal/resourceconfig"
	"symposia/internal/roster"
	id "symposia/pkg/domain"
	dErrors "symposia/pkg/domain-errors"
	"symposia/pkg/platform/audit"
	"symposia/pkg/platform/sentinel"
	"symposia/pkg/requestcontext"
)

// AuditEmitter is the sink for ledger audit events. Emission is best-effort
// for the scan path; failures are logged, never surfaced to kiosks.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates a scan: entitlement resolution, the atomic
// insert-if-absent, and display-name denormalization.
type Service struct {
	roster    roster.Store
	resolver  *entitlement.Resolver
	directory resourceconfig.Directory
	store     Store
	audit     AuditEmitter
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewService(rosterStore roster.Store, resolver *entitlement.Resolver, directory resourceconfig.Directory, store Store, auditor AuditEmitter, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		roster:    rosterStore,
		resolver:  resolver,
		directory: directory,
		store:     store,
		audit:     auditor,
		logger:    logger,
		metrics:   m,
	}
}

// ScanCommand is one kiosk scan attempt.
type ScanCommand struct {
	EventID id.EventID
	// RegistrationRef is the scanned value: registration UUID or badge code.
	RegistrationRef string
	ResourceType    id.ResourceType
	OptionID        id.OptionID
	// LegacyMealKey is the retired "<dayIndex>_<mealName>" encoding still
	// sent by old kiosk firmware. Used only when OptionID is unset; food only.
	LegacyMealKey string
	// Force bypasses the duplicate short-circuit for certificate
	// reprints only. It never bypasses entitlement.
	Force bool
}

// ScanOutcome classifies a successful scan call.
type ScanOutcome string

const (
	OutcomeRecorded  ScanOutcome = "recorded"
	OutcomeDuplicate ScanOutcome = "duplicate"
	// OutcomeReprint is a forced certificate re-issue against an existing
	// active record; no new ledger row is created.
	OutcomeReprint ScanOutcome = "reprint"
)

// RegistrationSummary is the kiosk-facing slice of a registration.
type RegistrationSummary struct {
	ID       id.RegistrationID
	Name     string
	Category string
}

// ScanResult reports the outcome of a scan. Record is set for recorded and
// reprint outcomes.
type ScanResult struct {
	Outcome      ScanOutcome
	Record       *ScanEvent
	Registration RegistrationSummary
}

// RecordScan processes one scan attempt end to end.
//
// Errors carry domain codes: invalid identifiers are CodeInvalidInput /
// CodeNotFound, entitlement denials are CodeForbidden with the failing gate
// in Detail. A duplicate is NOT an error: it returns OutcomeDuplicate.
func (s *Service) RecordScan(ctx context.Context, cmd ScanCommand) (*ScanResult, error) {
	start := time.Now()

	if !cmd.ResourceType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unsupported resource type")
	}
	if cmd.OptionID.IsNil() && cmd.LegacyMealKey == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "option_id is required")
	}
	if cmd.LegacyMealKey != "" && cmd.ResourceType != id.ResourceFood {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "legacy meal keys identify food sittings only")
	}

	registration, err := s.roster.FindRegistration(ctx, cmd.EventID, cmd.RegistrationRef)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, fmt.Errorf("load registration: %w", err)
	}

	category, err := s.roster.FindCategory(ctx, registration.CategoryID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "category not found")
		}
		return nil, fmt.Errorf("load category: %w", err)
	}

	options, err := s.directory.Options(ctx, cmd.EventID, cmd.ResourceType)
	if err != nil {
		return nil, fmt.Errorf("load resource options: %w", err)
	}

	optionID := cmd.OptionID
	if optionID.IsNil() {
		optionID, err = s.resolveLegacyMealKey(ctx, cmd.EventID, cmd.LegacyMealKey, options)
		if err != nil {
			return nil, err
		}
	}

	option, found := resourceconfig.FindOption(options, optionID)
	if !found {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown option for this event")
	}

	decision, err := s.resolver.Resolve(ctx, registration, category, cmd.ResourceType, optionID)
	if err != nil {
		return nil, fmt.Errorf("resolve entitlement: %w", err)
	}
	if !decision.Allowed {
		s.metrics.IncrementOutcome(string(cmd.ResourceType), "denied")
		s.emitAudit(ctx, audit.Event{
			EventID:        cmd.EventID,
			RegistrationID: registration.ID,
			Subject:        registration.PersonalInfo.FullName(),
			Action:         string(audit.EventScanDenied),
			ResourceType:   string(cmd.ResourceType),
			OptionID:       optionID.String(),
			Decision:       "denied",
			Reason:         string(decision.Gate) + ": " + decision.Reason,
			ActorID:        requestcontext.ActorID(ctx),
			RequestID:      requestcontext.RequestID(ctx),
		})
		return nil, dErrors.New(dErrors.CodeForbidden, decision.Reason).WithDetail(string(decision.Gate))
	}

	now := requestcontext.Now(ctx)
	day, label := consumptionDayAndLabel(cmd.ResourceType, option, now)

	record := &ScanEvent{
		ID:             id.ScanID(uuid.New()),
		EventID:        cmd.EventID,
		RegistrationID: registration.ID,
		ResourceType:   cmd.ResourceType,
		OptionID:       optionID,
		Day:            day,
		Status:         StatusUsed,
		OptionLabel:    label,
		RegistrantName: registration.PersonalInfo.FullName(),
		CategoryName:   category.Name,
		ActorID:        requestcontext.ActorID(ctx),
		CreatedAt:      now,
	}

	summary := RegistrationSummary{
		ID:       registration.ID,
		Name:     record.RegistrantName,
		Category: category.Name,
	}

	err = s.store.Insert(ctx, record)
	switch {
	case err == nil:
		s.metrics.IncrementOutcome(string(cmd.ResourceType), "recorded")
		s.metrics.ObserveScanLatency(time.Since(start))
		s.emitAudit(ctx, scanAudit(ctx, audit.EventScanRecorded, record, "recorded"))
		s.logger.InfoContext(ctx, "scan recorded",
			"request_id", requestcontext.RequestID(ctx),
			"event_id", cmd.EventID,
			"registration_id", registration.ID,
			"resource_type", cmd.ResourceType,
			"option_id", optionID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return &ScanResult{Outcome: OutcomeRecorded, Record: record, Registration: summary}, nil

	case errors.Is(err, sentinel.ErrAlreadyUsed):
		if cmd.Force && cmd.ResourceType == id.ResourceCertificatePrinting {
			return s.reprint(ctx, record, summary)
		}
		s.metrics.IncrementOutcome(string(cmd.ResourceType), "duplicate")
		s.emitAudit(ctx, scanAudit(ctx, audit.EventScanDuplicate, record, "duplicate"))
		return &ScanResult{Outcome: OutcomeDuplicate, Registration: summary}, nil

	default:
		return nil, fmt.Errorf("record scan: %w", err)
	}
}

// reprint resolves a forced certificate scan against the existing active
// record. The ledger keeps one active row; the reprint is audited instead.
func (s *Service) reprint(ctx context.Context, attempted *ScanEvent, summary RegistrationSummary) (*ScanResult, error) {
	existing, err := s.store.FindActive(ctx, attempted.Key())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// The active record was voided between insert and lookup.
			// Treat as a plain duplicate; the kiosk will retry.
			return &ScanResult{Outcome: OutcomeDuplicate, Registration: summary}, nil
		}
		return nil, fmt.Errorf("find active scan for reprint: %w", err)
	}
	s.metrics.IncrementOutcome(string(attempted.ResourceType), "reprint")
	s.emitAudit(ctx, scanAudit(ctx, audit.EventCertificateReprinted, existing, "reprint"))
	return &ScanResult{Outcome: OutcomeReprint, Record: existing, Registration: summary}, nil
}

// VoidCommand cancels previously recorded consumption for a logical key.
type VoidCommand struct {
	EventID         id.EventID
	RegistrationRef string
	ResourceType    id.ResourceType
	OptionID        id.OptionID
	Reason          string
}

// VoidScans transitions all used records matching the key to voided and
// returns how many were cleared. Zero is not an error.
func (s *Service) VoidScans(ctx context.Context, cmd VoidCommand) (int64, error) {
	if !cmd.ResourceType.IsValid() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "unsupported resource type")
	}
	if cmd.Reason == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "void reason is required")
	}

	registration, err := s.roster.FindRegistration(ctx, cmd.EventID, cmd.RegistrationRef)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return 0, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return 0, fmt.Errorf("load registration: %w", err)
	}

	key := VoidKey{
		EventID:        cmd.EventID,
		RegistrationID: registration.ID,
		ResourceType:   cmd.ResourceType,
		OptionID:       cmd.OptionID,
	}
	actor := requestcontext.ActorID(ctx)
	voided, err := s.store.VoidMatching(ctx, key, cmd.Reason, actor, requestcontext.Now(ctx))
	if err != nil {
		return 0, fmt.Errorf("void scans: %w", err)
	}

	s.metrics.AddVoided(voided)
	if voided > 0 {
		s.emitAudit(ctx, audit.Event{
			EventID:        cmd.EventID,
			RegistrationID: registration.ID,
			Subject:        registration.PersonalInfo.FullName(),
			Action:         string(audit.EventScanVoided),
			ResourceType:   string(cmd.ResourceType),
			OptionID:       cmd.OptionID.String(),
			Decision:       "voided",
			Reason:         cmd.Reason,
			ActorID:        actor,
			RequestID:      requestcontext.RequestID(ctx),
		})
	}
	s.logger.InfoContext(ctx, "scans voided",
		"request_id", requestcontext.RequestID(ctx),
		"event_id", cmd.EventID,
		"registration_id", registration.ID,
		"resource_type", cmd.ResourceType,
		"option_id", cmd.OptionID,
		"voided", voided,
	)
	return voided, nil
}

// ListScans returns the denormalized ledger rows for one registrant.
func (s *Service) ListScans(ctx context.Context, eventID id.EventID, registrationRef string) ([]ScanEvent, error) {
	registration, err := s.roster.FindRegistration(ctx, eventID, registrationRef)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, fmt.Errorf("load registration: %w", err)
	}
	return s.store.ListByRegistration(ctx, eventID, registration.ID)
}

// resolveLegacyMealKey maps a "<dayIndex>_<mealName>" key from old kiosk
// firmware onto the configured option. The day index counts from the event's
// start date, so the event record is needed to anchor it.
func (s *Service) resolveLegacyMealKey(ctx context.Context, eventID id.EventID, key string, options []resourceconfig.Option) (id.OptionID, error) {
	event, err := s.roster.FindEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.OptionID{}, dErrors.New(dErrors.CodeNotFound, "event not found")
		}
		return id.OptionID{}, fmt.Errorf("load event: %w", err)
	}
	ref, err := resourceconfig.ParseLegacyMealKey(key, event.StartDate, options)
	if err != nil {
		return id.OptionID{}, dErrors.New(dErrors.CodeInvalidInput, "unresolvable legacy meal key")
	}
	return ref.OptionID, nil
}

// consumptionDayAndLabel derives the day-scope and display label for a
// record. Dated meal sittings use their configured day; recurring food
// options fall back to the scan day so each calendar day is one sitting.
func consumptionDayAndLabel(rt id.ResourceType, option resourceconfig.Option, now time.Time) (day, label string) {
	if !rt.DayScoped() {
		return "", option.DisplayName
	}
	effective := now
	if option.Date != nil {
		effective = *option.Date
	}
	return effective.Format("2006-01-02"), fmt.Sprintf("%s (%s)", option.DisplayName, effective.Format("02/01/2006"))
}

// scanAudit builds the trail entry for a scan outcome. Actor and request ID
// come from the calling context so reprints are attributed to the kiosk that
// asked, not the one that recorded the original scan.
func scanAudit(ctx context.Context, action audit.AuditEvent, record *ScanEvent, decision string) audit.Event {
	return audit.Event{
		EventID:        record.EventID,
		RegistrationID: record.RegistrationID,
		Subject:        record.RegistrantName,
		Action:         string(action),
		ResourceType:   string(record.ResourceType),
		OptionID:       record.OptionID.String(),
		Decision:       decision,
		ActorID:        requestcontext.ActorID(ctx),
		RequestID:      requestcontext.RequestID(ctx),
	}
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"action", event.Action,
			"event_id", event.EventID,
			"error", err,
		)
	}
}
