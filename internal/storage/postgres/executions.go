package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/models"
)

const selectExecution = `SELECT id, routine_block_id, phase_id, date::text, status, updated_at FROM routine_executions`

func scanExecution(row rowScanner) (models.RoutineExecution, error) {
	var e models.RoutineExecution
	var date, status string
	if err := row.Scan(&e.ID, &e.RoutineBlockID, &e.PhaseID, &date, &status, &e.UpdatedAt); err != nil {
		return models.RoutineExecution{}, err
	}
	d, err := parseDate(date)
	if err != nil {
		return models.RoutineExecution{}, fmt.Errorf("execution %s has invalid date: %w", e.ID, err)
	}
	e.Date = d
	e.Status = models.ExecutionStatus(status)
	return e, nil
}

func (s *Store) UpsertExecution(ctx context.Context, e models.RoutineExecution) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO routine_executions (id, routine_block_id, phase_id, date, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (routine_block_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`,
		e.ID, e.RoutineBlockID, e.PhaseID, formatDate(e.Date), string(e.Status), e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert execution: %w", err)
	}
	return nil
}

func (s *Store) GetExecution(ctx context.Context, blockID string, date time.Time) (models.RoutineExecution, error) {
	e, err := scanExecution(s.q.QueryRowContext(ctx, selectExecution+` WHERE routine_block_id = $1 AND date = $2`,
		blockID, formatDate(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RoutineExecution{}, apperrors.NotFound("execution for block", blockID)
		}
		return models.RoutineExecution{}, fmt.Errorf("failed to get execution: %w", err)
	}
	return e, nil
}

func (s *Store) GetExecutions(ctx context.Context, phaseID string, start, end time.Time) ([]models.RoutineExecution, error) {
	rows, err := s.q.QueryContext(ctx, selectExecution+` WHERE phase_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date`,
		phaseID, formatDate(start), formatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}
	defer rows.Close()

	var execs []models.RoutineExecution
	for rows.Next() {
		e, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		execs = append(execs, e)
	}
	return execs, rows.Err()
}

func (s *Store) DeleteExecution(ctx context.Context, blockID string, date time.Time) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM routine_executions WHERE routine_block_id = $1 AND date = $2`,
		blockID, formatDate(date))
	if err != nil {
		return fmt.Errorf("failed to delete execution: %w", err)
	}
	return requireAffected(res, "execution for block", blockID)
}

func (s *Store) DeleteExecutionsForBlocks(ctx context.Context, blockIDs []string) error {
	if len(blockIDs) == 0 {
		return nil
	}
	if _, err := s.q.ExecContext(ctx, `DELETE FROM routine_executions WHERE routine_block_id = ANY($1)`, idArray(blockIDs)); err != nil {
		return fmt.Errorf("failed to delete executions: %w", err)
	}
	return nil
}
