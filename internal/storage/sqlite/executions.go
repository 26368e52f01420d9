package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/storage"
)

const executionColumns = `id, routine_block_id, phase_id, date, status, updated_at`

func scanExecution(row rowScanner) (models.RoutineExecution, error) {
	var e models.RoutineExecution
	var date, status, updatedAt string
	if err := row.Scan(&e.ID, &e.RoutineBlockID, &e.PhaseID, &date, &status, &updatedAt); err != nil {
		return models.RoutineExecution{}, err
	}
	d, err := parseDate(date)
	if err != nil {
		return models.RoutineExecution{}, fmt.Errorf("execution %s has invalid date: %w", e.ID, err)
	}
	e.Date = d
	e.Status = models.ExecutionStatus(status)
	e.UpdatedAt = parseTimestamp(updatedAt)
	return e, nil
}

// UpsertExecution records the outcome for (block, date), replacing any
// earlier status. The original id is kept on conflict.
func (s *Store) UpsertExecution(ctx context.Context, e models.RoutineExecution) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO routine_executions (`+executionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(routine_block_id, date) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at`,
		e.ID, e.RoutineBlockID, e.PhaseID, formatDate(e.Date), string(e.Status), formatTimestamp(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert execution: %w", err)
	}
	return nil
}

func (s *Store) GetExecution(ctx context.Context, blockID string, date time.Time) (models.RoutineExecution, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+executionColumns+` FROM routine_executions
		WHERE routine_block_id = ? AND date = ?`, blockID, formatDate(date))
	e, err := scanExecution(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RoutineExecution{}, apperrors.NotFound("execution for block", blockID)
		}
		return models.RoutineExecution{}, fmt.Errorf("failed to get execution: %w", err)
	}
	return e, nil
}

func (s *Store) GetExecutions(ctx context.Context, phaseID string, start, end time.Time) ([]models.RoutineExecution, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+executionColumns+` FROM routine_executions
		WHERE phase_id = ? AND date BETWEEN ? AND ?
		ORDER BY date`, phaseID, formatDate(start), formatDate(end))
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
	res, err := s.q.ExecContext(ctx, `
		DELETE FROM routine_executions WHERE routine_block_id = ? AND date = ?`, blockID, formatDate(date))
	if err != nil {
		return fmt.Errorf("failed to delete execution: %w", err)
	}
	return requireAffected(res, "execution for block", blockID)
}

func (s *Store) DeleteExecutionsForBlocks(ctx context.Context, blockIDs []string) error {
	for _, chunk := range storage.Chunk(blockIDs, maxBatch) {
		query, args := batchQuery(`DELETE FROM routine_executions WHERE routine_block_id IN (%s)`, chunk)
		if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to delete executions: %w", err)
		}
	}
	return nil
}
