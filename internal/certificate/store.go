package certificate

import (
	"context"

	id "symposia/pkg/domain"
)

// Store loads stored certificate layouts. Implementations return
// sentinel.ErrNotFound for unknown templates.
type Store interface {
	FindTemplate(ctx context.Context, eventID id.EventID, templateID id.TemplateID) (*Template, error)
	ListTemplates(ctx context.Context, eventID id.EventID) ([]Template, error)
}
