package resourceconfig

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "symposia/pkg/domain"
)

// PostgresDirectory reads options from the configuration owner's table.
type PostgresDirectory struct {
	db *sql.DB
}

func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) Options(ctx context.Context, eventID id.EventID, resourceType id.ResourceType) ([]Option, error) {
	query := `
		SELECT id, event_id, resource_type, display_name, option_date
		FROM resource_options
		WHERE event_id = $1 AND resource_type = $2
		ORDER BY option_date NULLS FIRST, display_name
	`
	rows, err := d.db.QueryContext(ctx, query, uuid.UUID(eventID), string(resourceType))
	if err != nil {
		return nil, fmt.Errorf("list resource options: %w", err)
	}
	defer rows.Close()

	var options []Option
	for rows.Next() {
		var (
			opt   Option
			optID uuid.UUID
			evID  uuid.UUID
			rt    string
			date  sql.NullTime
		)
		if err := rows.Scan(&optID, &evID, &rt, &opt.DisplayName, &date); err != nil {
			return nil, fmt.Errorf("scan resource option: %w", err)
		}
		opt.ID = id.OptionID(optID)
		opt.EventID = id.EventID(evID)
		opt.ResourceType = id.ResourceType(rt)
		if date.Valid {
			day := date.Time
			opt.Date = &day
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resource options: %w", err)
	}
	return options, nil
}
