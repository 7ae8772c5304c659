// Package handler exposes the scan ledger over HTTP for kiosks and the
// operator console.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"symposia/internal/ledger"
	id "symposia/pkg/domain"
	dErrors "symposia/pkg/domain-errors"
	"symposia/pkg/platform/httputil"
	"symposia/pkg/requestcontext"
)

// Service defines the ledger operations the transport needs.
type Service interface {
	RecordScan(ctx context.Context, cmd ledger.ScanCommand) (*ledger.ScanResult, error)
	VoidScans(ctx context.Context, cmd ledger.VoidCommand) (int64, error)
	ListScans(ctx context.Context, eventID id.EventID, registrationRef string) ([]ledger.ScanEvent, error)
}

// Handler handles scan endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the scan routes under /events/{eventID}.
func (h *Handler) Register(r chi.Router) {
	r.Post("/events/{eventID}/scans", h.handleScan)
	r.Post("/events/{eventID}/scans/void", h.handleVoid)
	r.Get("/events/{eventID}/scans", h.handleList)
}

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid event id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[scanRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resourceType, err := id.ParseResourceType(req.ResourceType)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid resource_type"))
		return
	}
	var legacyKey string
	optionID, err := id.ParseOptionID(req.OptionID)
	if err != nil {
		// Old kiosk firmware sends "<dayIndex>_<mealName>" instead of the
		// option UUID. Accept it here for food; the service resolves it.
		if resourceType != id.ResourceFood || req.OptionID == "" {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid option_id"))
			return
		}
		legacyKey = req.OptionID
	}

	result, err := h.service.RecordScan(ctx, ledger.ScanCommand{
		EventID:         eventID,
		RegistrationRef: req.Registration,
		ResourceType:    resourceType,
		OptionID:        optionID,
		LegacyMealKey:   legacyKey,
		Force:           req.Force,
	})
	if err != nil {
		h.writeServiceError(ctx, w, requestID, "record scan", err)
		return
	}

	status := http.StatusOK
	if result.Outcome == ledger.OutcomeRecorded {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, newScanResponse(result))
}

func (h *Handler) handleVoid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid event id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[voidRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resourceType, err := id.ParseResourceType(req.ResourceType)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid resource_type"))
		return
	}
	optionID, err := id.ParseOptionID(req.OptionID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid option_id"))
		return
	}

	voided, err := h.service.VoidScans(ctx, ledger.VoidCommand{
		EventID:         eventID,
		RegistrationRef: req.Registration,
		ResourceType:    resourceType,
		OptionID:        optionID,
		Reason:          req.Reason,
	})
	if err != nil {
		h.writeServiceError(ctx, w, requestID, "void scans", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, voidResponse{Voided: voided})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid event id"))
		return
	}
	registration := r.URL.Query().Get("registration")
	if registration == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "registration query parameter is required"))
		return
	}

	records, err := h.service.ListScans(ctx, eventID, registration)
	if err != nil {
		h.writeServiceError(ctx, w, requestID, "list scans", err)
		return
	}

	resp := listResponse{Scans: make([]scanRecord, 0, len(records))}
	for i := range records {
		resp.Scans = append(resp.Scans, *newScanRecord(&records[i]))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// writeServiceError maps service errors onto the wire. Domain-coded errors
// pass through; anything uncoded is masked as internal.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, requestID, operation string, err error) {
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "ledger operation failed",
			"request_id", requestID,
			"operation", operation,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "operation failed"))
		return
	}
	h.logger.WarnContext(ctx, "ledger operation rejected",
		"request_id", requestID,
		"operation", operation,
		"code", code,
		"error", err,
	)
	httputil.WriteError(w, err)
}
