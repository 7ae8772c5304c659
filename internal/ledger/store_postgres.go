package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "symposia/pkg/domain"
	"symposia/pkg/platform/sentinel"
)

// uniqueViolation is the Postgres error code raised by the partial unique
// index scans_active_key_idx (see db/schema.sql). That index - not
// application logic - is what makes duplicate detection race-free.
const uniqueViolation = "23505"

// PostgresStore persists ledger records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, event *ScanEvent) error {
	query := `
		INSERT INTO scans (
			id, event_id, registration_id, resource_type, option_id, day,
			status, option_label, registrant_name, category_name,
			actor_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(event.ID),
		uuid.UUID(event.EventID),
		uuid.UUID(event.RegistrationID),
		string(event.ResourceType),
		uuid.UUID(event.OptionID),
		event.Day,
		string(event.Status),
		event.OptionLabel,
		event.RegistrantName,
		event.CategoryName,
		event.ActorID,
		event.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindActive(ctx context.Context, key ScanKey) (*ScanEvent, error) {
	query := `
		SELECT id, event_id, registration_id, resource_type, option_id, day,
			   status, option_label, registrant_name, category_name,
			   actor_id, created_at, voided_at, void_reason, voided_by
		FROM scans
		WHERE event_id = $1 AND registration_id = $2 AND resource_type = $3
		  AND option_id = $4 AND day = $5 AND status = 'used'
	`
	row := s.db.QueryRowContext(ctx, query,
		uuid.UUID(key.EventID),
		uuid.UUID(key.RegistrationID),
		string(key.ResourceType),
		uuid.UUID(key.OptionID),
		key.Day,
	)
	record, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find active scan: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) VoidMatching(ctx context.Context, key VoidKey, reason, actor string, at time.Time) (int64, error) {
	// Bulk conditional update: the status predicate makes the transition
	// monotonic without cross-request locking.
	query := `
		UPDATE scans
		SET status = 'voided', voided_at = $1, void_reason = $2, voided_by = $3
		WHERE event_id = $4 AND registration_id = $5 AND resource_type = $6
		  AND option_id = $7 AND status = 'used'
	`
	result, err := s.db.ExecContext(ctx, query,
		at, reason, actor,
		uuid.UUID(key.EventID),
		uuid.UUID(key.RegistrationID),
		string(key.ResourceType),
		uuid.UUID(key.OptionID),
	)
	if err != nil {
		return 0, fmt.Errorf("void scans: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("void scans rows affected: %w", err)
	}
	return affected, nil
}

func (s *PostgresStore) ListByRegistration(ctx context.Context, eventID id.EventID, registrationID id.RegistrationID) ([]ScanEvent, error) {
	query := `
		SELECT id, event_id, registration_id, resource_type, option_id, day,
			   status, option_label, registrant_name, category_name,
			   actor_id, created_at, voided_at, void_reason, voided_by
		FROM scans
		WHERE event_id = $1 AND registration_id = $2
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(eventID), uuid.UUID(registrationID))
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var records []ScanEvent
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return records, nil
}

// scanRecord maps one row into a ScanEvent; the scan func abstraction lets
// QueryRow and Query share it.
func scanRecord(scan func(dest ...any) error) (*ScanEvent, error) {
	var (
		record     ScanEvent
		scanID     uuid.UUID
		eventID    uuid.UUID
		regID      uuid.UUID
		optID      uuid.UUID
		rt         string
		status     string
		voidedAt   sql.NullTime
		voidReason sql.NullString
		voidedBy   sql.NullString
	)
	err := scan(
		&scanID, &eventID, &regID, &rt, &optID, &record.Day,
		&status, &record.OptionLabel, &record.RegistrantName, &record.CategoryName,
		&record.ActorID, &record.CreatedAt, &voidedAt, &voidReason, &voidedBy,
	)
	if err != nil {
		return nil, err
	}
	record.ID = id.ScanID(scanID)
	record.EventID = id.EventID(eventID)
	record.RegistrationID = id.RegistrationID(regID)
	record.ResourceType = id.ResourceType(rt)
	record.OptionID = id.OptionID(optID)
	record.Status = ScanStatus(status)
	if voidedAt.Valid {
		t := voidedAt.Time
		record.VoidedAt = &t
	}
	record.VoidReason = voidReason.String
	record.VoidedBy = voidedBy.String
	return &record, nil
}
