package handler

// scanRequest is one kiosk scan submission.
type scanRequest struct {
	// Registration is the scanned reference: registration UUID or badge code.
	Registration string `json:"registration"`
	ResourceType string `json:"resource_type"`
	// OptionID is the option UUID. Food scans from old kiosk firmware may
	// carry the legacy "<dayIndex>_<mealName>" key instead.
	OptionID string `json:"option_id"`
	// Force requests a certificate reprint despite an existing record.
	Force bool `json:"force,omitempty"`
}

// voidRequest cancels recorded consumption for one option.
type voidRequest struct {
	Registration string `json:"registration"`
	ResourceType string `json:"resource_type"`
	OptionID     string `json:"option_id"`
	Reason       string `json:"reason"`
}
