package certificate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "symposia/pkg/domain"
	"symposia/pkg/platform/sentinel"
)

// PostgresStore loads templates from the certificate_templates table. Field
// layouts live in a JSONB column; expressions are parsed into sources at
// load time so the renderer never sees raw strings.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// fieldRow is the JSONB wire shape of one template field.
type fieldRow struct {
	Source   string  `json:"source"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Font     string  `json:"font"`
	Size     float64 `json:"size"`
	Color    string  `json:"color"`
	Align    string  `json:"align"`
	Rotation float64 `json:"rotation"`
	MaxWidth float64 `json:"max_width"`
}

func (s *PostgresStore) FindTemplate(ctx context.Context, eventID id.EventID, templateID id.TemplateID) (*Template, error) {
	query := `
		SELECT id, event_id, name, unit, background, fields
		FROM certificate_templates
		WHERE id = $1 AND event_id = $2
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(templateID), uuid.UUID(eventID))
	template, err := scanTemplate(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find template: %w", err)
	}
	return template, nil
}

func (s *PostgresStore) ListTemplates(ctx context.Context, eventID id.EventID) ([]Template, error) {
	query := `
		SELECT id, event_id, name, unit, background, fields
		FROM certificate_templates
		WHERE event_id = $1
		ORDER BY name ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(eventID))
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		template, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan template row: %w", err)
		}
		templates = append(templates, *template)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return templates, nil
}

func scanTemplate(scan func(dest ...any) error) (*Template, error) {
	var (
		template   Template
		templateID uuid.UUID
		eventID    uuid.UUID
		unit       string
		fieldsJSON []byte
	)
	if err := scan(&templateID, &eventID, &template.Name, &unit, &template.Background, &fieldsJSON); err != nil {
		return nil, err
	}
	template.ID = id.TemplateID(templateID)
	template.EventID = id.EventID(eventID)
	template.Unit = Unit(unit)

	var rows []fieldRow
	if err := json.Unmarshal(fieldsJSON, &rows); err != nil {
		return nil, fmt.Errorf("decode template fields: %w", err)
	}
	template.Fields = make([]Field, 0, len(rows))
	for _, row := range rows {
		template.Fields = append(template.Fields, Field{
			Source:   ParseSource(row.Source),
			X:        row.X,
			Y:        row.Y,
			Font:     row.Font,
			Size:     row.Size,
			Color:    row.Color,
			Align:    Align(row.Align),
			Rotation: row.Rotation,
			MaxWidth: row.MaxWidth,
		})
	}
	return &template, nil
}
