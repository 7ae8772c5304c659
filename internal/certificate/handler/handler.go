// Package handler exposes certificate rendering over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"symposia/internal/certificate"
	id "symposia/pkg/domain"
	dErrors "symposia/pkg/domain-errors"
	"symposia/pkg/platform/httputil"
	"symposia/pkg/requestcontext"
)

// Engine defines the rendering operation the transport needs.
type Engine interface {
	Render(ctx context.Context, req certificate.RenderRequest) ([]byte, error)
}

// Handler handles certificate endpoints.
type Handler struct {
	logger *slog.Logger
	engine Engine
}

func New(engine Engine, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, engine: engine}
}

// Register mounts the certificate routes under /events/{eventID}.
func (h *Handler) Register(r chi.Router) {
	r.Get("/events/{eventID}/certificates/{templateID}/render", h.handleRender)
}

func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid event id"))
		return
	}
	templateID, err := id.ParseTemplateID(chi.URLParam(r, "templateID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid template id"))
		return
	}

	query := r.URL.Query()
	registration := query.Get("registration")
	if registration == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "registration query parameter is required"))
		return
	}

	req := certificate.RenderRequest{
		EventID:         eventID,
		TemplateID:      templateID,
		RegistrationRef: registration,
		DrawBackground:  true,
	}

	if raw := query.Get("abstract"); raw != "" {
		abstractID, err := id.ParseAbstractID(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid abstract id"))
			return
		}
		req.AbstractID = &abstractID
	}
	if raw := query.Get("workshop"); raw != "" {
		workshopID, err := id.ParseWorkshopID(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid workshop id"))
			return
		}
		req.WorkshopID = &workshopID
	}
	if raw := query.Get("background"); raw != "" {
		background, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid background flag"))
			return
		}
		req.DrawBackground = background
	}

	pdf, err := h.engine.Render(ctx, req)
	if err != nil {
		code := dErrors.CodeOf(err)
		if code == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "certificate render failed",
				"request_id", requestID,
				"template_id", templateID,
				"error", err,
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "render failed"))
			return
		}
		h.logger.WarnContext(ctx, "certificate render rejected",
			"request_id", requestID,
			"template_id", templateID,
			"code", code,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
