// Package postgres persists audit events for operator review.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "symposia/pkg/domain"
	audit "symposia/pkg/platform/audit"
)

// Store implements audit.Store on PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts an audit event. The publisher stamps the row id, so a
// replayed worker batch hits ON CONFLICT DO NOTHING instead of double-writing.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			id, category, timestamp, event_id, registration_id, subject,
			action, resource_type, option_id, decision, reason,
			actor_id, request_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING
	`

	rowID := event.ID
	if rowID == uuid.Nil {
		// Direct appends that bypassed the publisher still get a row.
		rowID = uuid.New()
	}

	var registrationID *uuid.UUID
	if !event.RegistrationID.IsNil() {
		rid := uuid.UUID(event.RegistrationID)
		registrationID = &rid
	}

	_, err := s.db.ExecContext(ctx, query,
		rowID,
		string(event.Category),
		event.Timestamp,
		uuid.UUID(event.EventID),
		registrationID,
		event.Subject,
		event.Action,
		event.ResourceType,
		event.OptionID,
		event.Decision,
		event.Reason,
		event.ActorID,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByRegistration returns events for one registrant at one event.
func (s *Store) ListByRegistration(ctx context.Context, eventID id.EventID, registrationID id.RegistrationID) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, event_id, registration_id, subject,
			   action, resource_type, option_id, decision, reason,
			   actor_id, request_id
		FROM audit_events
		WHERE event_id = $1 AND registration_id = $2
		ORDER BY timestamp DESC
	`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(eventID), uuid.UUID(registrationID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return s.scanEvents(rows)
}

// ListRecent returns the N most recent events.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, event_id, registration_id, subject,
			   action, resource_type, option_id, decision, reason,
			   actor_id, request_id
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return s.scanEvents(rows)
}

func (s *Store) scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event

	for rows.Next() {
		var (
			category       string
			event          audit.Event
			eventID        uuid.UUID
			registrationID *uuid.UUID
		)

		err := rows.Scan(
			&category,
			&event.Timestamp,
			&eventID,
			&registrationID,
			&event.Subject,
			&event.Action,
			&event.ResourceType,
			&event.OptionID,
			&event.Decision,
			&event.Reason,
			&event.ActorID,
			&event.RequestID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}

		event.Category = audit.EventCategory(category)
		event.EventID = id.EventID(eventID)
		if registrationID != nil {
			event.RegistrationID = id.RegistrationID(*registrationID)
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}

	return events, nil
}
