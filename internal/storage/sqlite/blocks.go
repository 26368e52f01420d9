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

const blockColumns = `id, phase_id, category_id, title, note, start_time, end_time, color, is_template, date, created_at`

func scanBlock(row rowScanner) (models.RoutineBlock, error) {
	var b models.RoutineBlock
	var isTemplate int
	var date sql.NullString
	var createdAt string

	err := row.Scan(&b.ID, &b.PhaseID, &b.CategoryID, &b.Title, &b.Note, &b.StartTime, &b.EndTime,
		&b.Color, &isTemplate, &date, &createdAt)
	if err != nil {
		return models.RoutineBlock{}, err
	}

	b.IsTemplate = isTemplate != 0
	if b.Date, err = parseNullableDate(date); err != nil {
		return models.RoutineBlock{}, fmt.Errorf("block %s has invalid date: %w", b.ID, err)
	}
	b.CreatedAt = parseTimestamp(createdAt)
	return b, nil
}

func (s *Store) queryBlocks(ctx context.Context, query string, args ...interface{}) ([]models.RoutineBlock, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocks: %w", err)
	}
	defer rows.Close()

	var blocks []models.RoutineBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// AddBlocks inserts every block in order
func (s *Store) AddBlocks(ctx context.Context, blocks []models.RoutineBlock) error {
	if len(blocks) == 0 {
		return nil
	}

	insert := `INSERT INTO routine_blocks (` + blockColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, b := range blocks {
		_, err := s.q.ExecContext(ctx, insert,
			b.ID, b.PhaseID, b.CategoryID, b.Title, b.Note, b.StartTime, b.EndTime, b.Color,
			boolToInt(b.IsTemplate), nullableDate(b.Date), formatTimestamp(b.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to add block %q: %w", b.Title, err)
		}
	}
	return nil
}

func (s *Store) GetBlock(ctx context.Context, id string) (models.RoutineBlock, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+blockColumns+` FROM routine_blocks WHERE id = ?`, id)
	b, err := scanBlock(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RoutineBlock{}, apperrors.NotFound("routine block", id)
		}
		return models.RoutineBlock{}, fmt.Errorf("failed to get block: %w", err)
	}
	return b, nil
}

func (s *Store) GetTemplateBlocks(ctx context.Context, phaseID string) ([]models.RoutineBlock, error) {
	return s.queryBlocks(ctx, `
		SELECT `+blockColumns+` FROM routine_blocks
		WHERE phase_id = ? AND is_template = 1
		ORDER BY start_time, title`, phaseID)
}

// DeleteTemplateBlocks removes the phase's template blocks. Templates never
// carry executions, so no cascade is needed.
func (s *Store) DeleteTemplateBlocks(ctx context.Context, phaseID string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM routine_blocks WHERE phase_id = ? AND is_template = 1`, phaseID); err != nil {
		return fmt.Errorf("failed to delete template blocks: %w", err)
	}
	return nil
}

func (s *Store) GetDatedBlocks(ctx context.Context, phaseID string, start, end time.Time) ([]models.RoutineBlock, error) {
	return s.queryBlocks(ctx, `
		SELECT `+blockColumns+` FROM routine_blocks
		WHERE phase_id = ? AND is_template = 0 AND date BETWEEN ? AND ?
		ORDER BY date, start_time`, phaseID, formatDate(start), formatDate(end))
}

func (s *Store) GetAllDatedBlocks(ctx context.Context, phaseID string) ([]models.RoutineBlock, error) {
	return s.queryBlocks(ctx, `
		SELECT `+blockColumns+` FROM routine_blocks
		WHERE phase_id = ? AND is_template = 0
		ORDER BY date, start_time`, phaseID)
}

// DeleteBlocks removes blocks by id. Executions referencing them must be
// deleted first.
func (s *Store) DeleteBlocks(ctx context.Context, ids []string) error {
	for _, chunk := range storage.Chunk(ids, maxBatch) {
		query, args := batchQuery(`DELETE FROM routine_blocks WHERE id IN (%s)`, chunk)
		if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to delete blocks: %w", err)
		}
	}
	return nil
}
