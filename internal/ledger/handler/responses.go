package handler

import (
	"time"

	"symposia/internal/ledger"
)

type registrationSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type scanRecord struct {
	ID             string     `json:"id"`
	ResourceType   string     `json:"resource_type"`
	OptionID       string     `json:"option_id"`
	OptionLabel    string     `json:"option_label"`
	Day            string     `json:"day,omitempty"`
	Status         string     `json:"status"`
	RegistrantName string     `json:"registrant_name"`
	CategoryName   string     `json:"category_name"`
	ActorID        string     `json:"actor_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	VoidedAt       *time.Time `json:"voided_at,omitempty"`
	VoidReason     string     `json:"void_reason,omitempty"`
	VoidedBy       string     `json:"voided_by,omitempty"`
}

type scanResponse struct {
	// Recorded is true only when this call created a new ledger record.
	Recorded     bool                `json:"recorded"`
	Outcome      string              `json:"outcome"`
	Reason       string              `json:"reason,omitempty"`
	Record       *scanRecord         `json:"record,omitempty"`
	Registration registrationSummary `json:"registration"`
}

type voidResponse struct {
	Voided int64 `json:"voided"`
}

type listResponse struct {
	Scans []scanRecord `json:"scans"`
}

func newScanRecord(event *ledger.ScanEvent) *scanRecord {
	return &scanRecord{
		ID:             event.ID.String(),
		ResourceType:   string(event.ResourceType),
		OptionID:       event.OptionID.String(),
		OptionLabel:    event.OptionLabel,
		Day:            event.Day,
		Status:         string(event.Status),
		RegistrantName: event.RegistrantName,
		CategoryName:   event.CategoryName,
		ActorID:        event.ActorID,
		CreatedAt:      event.CreatedAt,
		VoidedAt:       event.VoidedAt,
		VoidReason:     event.VoidReason,
		VoidedBy:       event.VoidedBy,
	}
}

func newScanResponse(result *ledger.ScanResult) scanResponse {
	resp := scanResponse{
		Recorded: result.Outcome == ledger.OutcomeRecorded,
		Outcome:  string(result.Outcome),
		Registration: registrationSummary{
			ID:       result.Registration.ID.String(),
			Name:     result.Registration.Name,
			Category: result.Registration.Category,
		},
	}
	if result.Outcome == ledger.OutcomeDuplicate {
		resp.Reason = "duplicate"
	}
	if result.Record != nil {
		resp.Record = newScanRecord(result.Record)
	}
	return resp
}
