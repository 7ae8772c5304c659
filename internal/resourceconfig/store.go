package resourceconfig

import (
	"context"

	id "symposia/pkg/domain"
)

// Directory is the lookup contract against the configuration owner.
// Implementations must be safe for concurrent readers.
type Directory interface {
	// Options returns the configured options for one event and resource
	// type. The slice is owned by the caller.
	Options(ctx context.Context, eventID id.EventID, resourceType id.ResourceType) ([]Option, error)
}

// FindOption scans a configured slice for one option ID.
func FindOption(options []Option, optionID id.OptionID) (Option, bool) {
	for _, opt := range options {
		if opt.ID == optionID {
			return opt, true
		}
	}
	return Option{}, false
}
