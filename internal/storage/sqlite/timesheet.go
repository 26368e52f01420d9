package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/models"
)

const timesheetColumns = `id, phase_id, title, note, start_time, end_time, priority, date, created_at`

func scanTimesheetEntry(row rowScanner) (models.TimesheetEntry, error) {
	var e models.TimesheetEntry
	var priority, date, createdAt string
	err := row.Scan(&e.ID, &e.PhaseID, &e.Title, &e.Note, &e.StartTime, &e.EndTime, &priority, &date, &createdAt)
	if err != nil {
		return models.TimesheetEntry{}, err
	}
	if e.Date, err = parseDate(date); err != nil {
		return models.TimesheetEntry{}, fmt.Errorf("timesheet entry %s has invalid date: %w", e.ID, err)
	}
	e.Priority = models.Priority(priority)
	e.CreatedAt = parseTimestamp(createdAt)
	return e, nil
}

func (s *Store) AddTimesheetEntry(ctx context.Context, e models.TimesheetEntry) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO timesheet_entries (`+timesheetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.PhaseID, e.Title, e.Note, e.StartTime, e.EndTime, string(e.Priority), formatDate(e.Date), formatTimestamp(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to add timesheet entry: %w", err)
	}
	return nil
}

func (s *Store) GetTimesheetEntry(ctx context.Context, id string) (models.TimesheetEntry, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+timesheetColumns+` FROM timesheet_entries WHERE id = ?`, id)
	e, err := scanTimesheetEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TimesheetEntry{}, apperrors.NotFound("timesheet entry", id)
		}
		return models.TimesheetEntry{}, fmt.Errorf("failed to get timesheet entry: %w", err)
	}
	return e, nil
}

func (s *Store) GetTimesheetEntries(ctx context.Context, phaseID string, start, end time.Time) ([]models.TimesheetEntry, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+timesheetColumns+` FROM timesheet_entries
		WHERE phase_id = ? AND date BETWEEN ? AND ?
		ORDER BY date, start_time`, phaseID, formatDate(start), formatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheet entries: %w", err)
	}
	defer rows.Close()

	var entries []models.TimesheetEntry
	for rows.Next() {
		e, err := scanTimesheetEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) DeleteTimesheetEntry(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM timesheet_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete timesheet entry: %w", err)
	}
	return requireAffected(res, "timesheet entry", id)
}
