package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "symposia/pkg/domain"
	"symposia/pkg/platform/sentinel"
)

// PostgresStore reads roster data from the registration system's tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindRegistration(ctx context.Context, eventID id.EventID, ref string) (*Registration, error) {
	// A reference is either the registration UUID or the badge QR code.
	query := `
		SELECT id, event_id, category_id, first_name, last_name, email,
			   organization, country, badge_code, status
		FROM registrations
		WHERE event_id = $1 AND (id::text = $2 OR badge_code = $2)
	`
	var (
		r      Registration
		regID  uuid.UUID
		evID   uuid.UUID
		catID  uuid.UUID
		status string
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(eventID), ref).Scan(
		&regID, &evID, &catID,
		&r.PersonalInfo.FirstName, &r.PersonalInfo.LastName, &r.PersonalInfo.Email,
		&r.PersonalInfo.Organization, &r.PersonalInfo.Country,
		&r.BadgeCode, &status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	r.ID = id.RegistrationID(regID)
	r.EventID = id.EventID(evID)
	r.CategoryID = id.CategoryID(catID)
	r.Status = RegistrationStatus(status)
	return &r, nil
}

// entitlementRow is the JSONB wire shape of one configured exception.
type entitlementRow struct {
	OptionID string `json:"optionId"`
	Entitled bool   `json:"entitled"`
}

func (s *PostgresStore) FindCategory(ctx context.Context, categoryID id.CategoryID) (*Category, error) {
	query := `
		SELECT id, event_id, name, permissions, entitlements
		FROM categories
		WHERE id = $1
	`
	var (
		c               Category
		catID           uuid.UUID
		evID            uuid.UUID
		permissionsJSON []byte
		entitlementJSON []byte
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(categoryID)).Scan(
		&catID, &evID, &c.Name, &permissionsJSON, &entitlementJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	c.ID = id.CategoryID(catID)
	c.EventID = id.EventID(evID)

	var permissions map[string]bool
	if len(permissionsJSON) > 0 {
		if err := json.Unmarshal(permissionsJSON, &permissions); err != nil {
			return nil, fmt.Errorf("decode category permissions: %w", err)
		}
	}
	c.Permissions = make(map[id.ResourceType]bool, len(permissions))
	for rt, allowed := range permissions {
		c.Permissions[id.ResourceType(rt)] = allowed
	}

	var entitlements map[string][]entitlementRow
	if len(entitlementJSON) > 0 {
		if err := json.Unmarshal(entitlementJSON, &entitlements); err != nil {
			return nil, fmt.Errorf("decode category entitlements: %w", err)
		}
	}
	c.Entitlements = make(map[id.ResourceType]EntitlementList, len(entitlements))
	for rt, rows := range entitlements {
		entries := make([]Entitlement, 0, len(rows))
		for _, row := range rows {
			optionID, err := id.ParseOptionID(row.OptionID)
			if err != nil {
				// A malformed entry cannot match any scanned option;
				// skip it rather than fail every scan for the category.
				continue
			}
			entries = append(entries, Entitlement{OptionID: optionID, Entitled: row.Entitled})
		}
		c.Entitlements[id.ResourceType(rt)] = NewEntitlementList(entries)
	}
	return &c, nil
}

func (s *PostgresStore) FindEvent(ctx context.Context, eventID id.EventID) (*Event, error) {
	query := `
		SELECT id, name, venue, city, start_date, end_date
		FROM events
		WHERE id = $1
	`
	var (
		e    Event
		evID uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(eventID)).Scan(
		&evID, &e.Name, &e.Venue, &e.City, &e.StartDate, &e.EndDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	e.ID = id.EventID(evID)
	return &e, nil
}

func (s *PostgresStore) FindAbstract(ctx context.Context, abstractID id.AbstractID) (*Abstract, error) {
	query := `
		SELECT id, event_id, registration_id, title, authors, status, code
		FROM abstracts
		WHERE id = $1
	`
	return s.scanAbstract(s.db.QueryRowContext(ctx, query, uuid.UUID(abstractID)))
}

func (s *PostgresStore) FirstAbstractFor(ctx context.Context, eventID id.EventID, registrationID id.RegistrationID) (*Abstract, error) {
	// Oldest submission first; the pick must stay deterministic across
	// replicas (see the certificate binding notes).
	query := `
		SELECT id, event_id, registration_id, title, authors, status, code
		FROM abstracts
		WHERE event_id = $1 AND registration_id = $2
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`
	return s.scanAbstract(s.db.QueryRowContext(ctx, query, uuid.UUID(eventID), uuid.UUID(registrationID)))
}

func (s *PostgresStore) scanAbstract(row *sql.Row) (*Abstract, error) {
	var (
		a     Abstract
		absID uuid.UUID
		evID  uuid.UUID
		regID uuid.UUID
	)
	err := row.Scan(&absID, &evID, &regID, &a.Title, pq.Array(&a.Authors), (*string)(&a.Status), &a.Code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan abstract: %w", err)
	}
	a.ID = id.AbstractID(absID)
	a.EventID = id.EventID(evID)
	a.RegistrationID = id.RegistrationID(regID)
	return &a, nil
}

func (s *PostgresStore) HasApprovedAbstract(ctx context.Context, eventID id.EventID, registrationID id.RegistrationID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM abstracts
			WHERE event_id = $1 AND registration_id = $2 AND status = 'approved'
		)
	`
	var exists bool
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(eventID), uuid.UUID(registrationID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check approved abstract: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) FindWorkshop(ctx context.Context, workshopID id.WorkshopID) (*Workshop, error) {
	query := `
		SELECT id, event_id, title, venue, starts_at, ends_at
		FROM workshops
		WHERE id = $1
	`
	var (
		w    Workshop
		wsID uuid.UUID
		evID uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(workshopID)).Scan(
		&wsID, &evID, &w.Title, &w.Venue, &w.StartsAt, &w.EndsAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find workshop: %w", err)
	}
	w.ID = id.WorkshopID(wsID)
	w.EventID = id.EventID(evID)
	return &w, nil
}
