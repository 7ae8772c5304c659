package certificate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"symposia/internal/certificate/metrics"
	"symposia/internal/roster"
	id "symposia/pkg/domain"
	dErrors "symposia/pkg/domain-errors"
	"symposia/pkg/platform/audit"
	"symposia/pkg/platform/sentinel"
	"symposia/pkg/requestcontext"
)

// AuditEmitter is the sink for render audit events; emission is
// best-effort.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Engine assembles the render context for one registrant and produces the
// certificate PDF.
type Engine struct {
	templates Store
	roster    roster.Store
	renderer  *Renderer
	audit     AuditEmitter
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewEngine(templates Store, rosterStore roster.Store, renderer *Renderer, auditor AuditEmitter, logger *slog.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		templates: templates,
		roster:    rosterStore,
		renderer:  renderer,
		audit:     auditor,
		logger:    logger,
		metrics:   m,
	}
}

// RenderRequest identifies what to render for whom. AbstractID and
// WorkshopID are optional relations; when AbstractID is absent the
// registrant's first abstract at the event is bound if one exists.
type RenderRequest struct {
	EventID         id.EventID
	TemplateID      id.TemplateID
	RegistrationRef string
	AbstractID      *id.AbstractID
	WorkshopID      *id.WorkshopID
	// DrawBackground defaults to true; false renders text only for
	// pre-printed stock.
	DrawBackground bool
}

// Render produces the PDF for one certificate.
func (e *Engine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	start := time.Now()

	registration, err := e.roster.FindRegistration(ctx, req.EventID, req.RegistrationRef)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, fmt.Errorf("load registration: %w", err)
	}

	renderCtx := RenderContext{Registration: registration}
	var template *Template

	// The remaining loads are independent of each other; fetch them in
	// parallel and fail fast on the first hard error.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := e.templates.FindTemplate(gctx, req.EventID, req.TemplateID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "template not found")
			}
			return fmt.Errorf("load template: %w", err)
		}
		template = t
		return nil
	})

	g.Go(func() error {
		event, err := e.roster.FindEvent(gctx, req.EventID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "event not found")
			}
			return fmt.Errorf("load event: %w", err)
		}
		renderCtx.Event = event
		return nil
	})

	g.Go(func() error {
		abstract, err := e.loadAbstract(gctx, req, registration.ID)
		if err != nil {
			return err
		}
		renderCtx.Abstract = abstract
		return nil
	})

	if req.WorkshopID != nil {
		workshopID := *req.WorkshopID
		g.Go(func() error {
			workshop, err := e.roster.FindWorkshop(gctx, workshopID)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					// Fields bound to the workshop resolve empty.
					e.logger.WarnContext(gctx, "workshop not found, rendering without it",
						"workshop_id", workshopID,
						"template_id", req.TemplateID,
					)
					return nil
				}
				return fmt.Errorf("load workshop: %w", err)
			}
			renderCtx.Workshop = workshop
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.metrics.IncrementRender("failed")
		return nil, err
	}

	texts := make([]string, len(template.Fields))
	for i, field := range template.Fields {
		texts[i] = renderCtx.Resolve(field.Source)
	}

	pdf, err := e.renderer.Render(template, texts, RenderOptions{DrawBackground: req.DrawBackground})
	if err != nil {
		var renderErr *RenderError
		if errors.As(err, &renderErr) {
			e.metrics.IncrementRender("template_error")
			e.logger.ErrorContext(ctx, "certificate background unavailable",
				"template_id", renderErr.TemplateID,
				"asset_path", renderErr.AssetPath,
				"error", err,
			)
			return nil, dErrors.Wrap(dErrors.CodeConflict, "template background unavailable", err)
		}
		e.metrics.IncrementRender("failed")
		return nil, fmt.Errorf("render certificate: %w", err)
	}

	e.metrics.IncrementRender("rendered")
	e.metrics.ObserveRender(time.Since(start), len(pdf))
	e.emitAudit(ctx, audit.Event{
		EventID:        req.EventID,
		RegistrationID: registration.ID,
		Subject:        registration.PersonalInfo.FullName(),
		Action:         string(audit.EventCertificateRendered),
		ResourceType:   string(id.ResourceCertificatePrinting),
		OptionID:       req.TemplateID.String(),
		Decision:       "rendered",
		ActorID:        requestcontext.ActorID(ctx),
		RequestID:      requestcontext.RequestID(ctx),
	})
	e.logger.InfoContext(ctx, "certificate rendered",
		"request_id", requestcontext.RequestID(ctx),
		"template_id", req.TemplateID,
		"registration_id", registration.ID,
		"pdf_bytes", len(pdf),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return pdf, nil
}

// loadAbstract resolves the abstract to bind: the explicitly requested one,
// or the registrant's first abstract when none was named. Absence is never
// an error; abstract-bound fields just resolve empty.
func (e *Engine) loadAbstract(ctx context.Context, req RenderRequest, registrationID id.RegistrationID) (*roster.Abstract, error) {
	if req.AbstractID != nil {
		abstract, err := e.roster.FindAbstract(ctx, *req.AbstractID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "abstract not found")
			}
			return nil, fmt.Errorf("load abstract: %w", err)
		}
		if abstract.EventID != req.EventID || abstract.RegistrationID != registrationID {
			return nil, dErrors.New(dErrors.CodeForbidden, "abstract does not belong to this registrant")
		}
		return abstract, nil
	}

	abstract, err := e.roster.FirstAbstractFor(ctx, req.EventID, registrationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load first abstract: %w", err)
	}
	return abstract, nil
}

func (e *Engine) emitAudit(ctx context.Context, event audit.Event) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Emit(ctx, event); err != nil {
		e.logger.ErrorContext(ctx, "audit emit failed",
			"action", event.Action,
			"event_id", event.EventID,
			"error", err,
		)
	}
}
