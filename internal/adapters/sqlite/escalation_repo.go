package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// EscalationRepository implements secondary.EscalationRepository against
// management.db.
type EscalationRepository struct {
	db *sql.DB
}

// NewEscalationRepository creates a new EscalationRepository.
func NewEscalationRepository(db *sql.DB) *EscalationRepository {
	return &EscalationRepository{db: db}
}

// Create inserts a new escalation row with the level and state the caller
// set on rec.
func (r *EscalationRepository) Create(ctx context.Context, rec *secondary.EscalationRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO escalations (code, level, state, message, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.Code, rec.Level, rec.State, rec.Message, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create escalation: %w", err)
	}
	return nil
}

// GetByCode returns nil, nil if no row with that code exists.
func (r *EscalationRepository) GetByCode(ctx context.Context, code string) (*secondary.EscalationRecord, error) {
	rec, err := scanOneEscalation(r.db.QueryRowContext(ctx,
		`SELECT code, level, state, message, created_at, notified_at, reminded_at, acknowledged_at, resolved_at, resolution_note, assigned_director
		 FROM escalations WHERE code = ?`, code,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get escalation %s: %w", code, err)
	}
	return rec, nil
}

// List returns rows ordered oldest-first, optionally filtered by state.
func (r *EscalationRepository) List(ctx context.Context, filters secondary.EscalationFilters) ([]*secondary.EscalationRecord, error) {
	query := `SELECT code, level, state, message, created_at, notified_at, reminded_at, acknowledged_at, resolved_at, resolution_note, assigned_director
		FROM escalations WHERE 1=1`
	var args []any
	if filters.State != "" {
		query += " AND state = ?"
		args = append(args, filters.State)
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list escalations: %w", err)
	}
	defer rows.Close()

	var out []*secondary.EscalationRecord
	for rows.Next() {
		rec, err := scanOneEscalation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan escalation: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Update overwrites the mutable fields of an escalation row in place.
func (r *EscalationRepository) Update(ctx context.Context, rec *secondary.EscalationRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE escalations SET level = ?, state = ?, message = ?, notified_at = ?, reminded_at = ?, acknowledged_at = ?, resolved_at = ?, resolution_note = ?
		 WHERE code = ?`,
		rec.Level, rec.State, rec.Message, nullable(rec.NotifiedAt), nullable(rec.RemindedAt), nullable(rec.AcknowledgedAt), nullable(rec.ResolvedAt), nullable(rec.ResolutionNote),
		rec.Code,
	)
	if err != nil {
		return fmt.Errorf("failed to update escalation %s: %w", rec.Code, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm escalation update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("escalation %s not found", rec.Code)
	}
	return nil
}

// AssignDirector sets or clears the claiming director for an escalation.
func (r *EscalationRepository) AssignDirector(ctx context.Context, code, director string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE escalations SET assigned_director = ? WHERE code = ?`,
		nullable(director), code,
	)
	if err != nil {
		return fmt.Errorf("failed to assign director on escalation %s: %w", code, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm director assignment: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("escalation %s not found", code)
	}
	return nil
}

// CountUnhandled counts escalations not yet ACKNOWLEDGED, RESOLVED, or
// EXPIRED — the figure the recovery gate checks against zero.
func (r *EscalationRepository) CountUnhandled(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM escalations WHERE state NOT IN ('ACKNOWLEDGED', 'RESOLVED', 'EXPIRED')`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unhandled escalations: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOneEscalation(s rowScanner) (*secondary.EscalationRecord, error) {
	rec := &secondary.EscalationRecord{}
	var notifiedAt, remindedAt, acknowledgedAt, resolvedAt, resolutionNote, assignedDirector sql.NullString
	err := s.Scan(&rec.Code, &rec.Level, &rec.State, &rec.Message, &rec.CreatedAt,
		&notifiedAt, &remindedAt, &acknowledgedAt, &resolvedAt, &resolutionNote, &assignedDirector)
	if err != nil {
		return nil, err
	}
	rec.NotifiedAt = notifiedAt.String
	rec.RemindedAt = remindedAt.String
	rec.AcknowledgedAt = acknowledgedAt.String
	rec.ResolvedAt = resolvedAt.String
	rec.ResolutionNote = resolutionNote.String
	rec.AssignedDirector = assignedDirector.String
	return rec, nil
}

var _ secondary.EscalationRepository = (*EscalationRepository)(nil)
