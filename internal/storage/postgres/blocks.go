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

const selectBlock = `SELECT id, phase_id, category_id, title, note, start_time, end_time, color,
	is_template, date::text, created_at FROM routine_blocks`

func scanBlock(row rowScanner) (models.RoutineBlock, error) {
	var b models.RoutineBlock
	var date sql.NullString

	err := row.Scan(&b.ID, &b.PhaseID, &b.CategoryID, &b.Title, &b.Note, &b.StartTime, &b.EndTime,
		&b.Color, &b.IsTemplate, &date, &b.CreatedAt)
	if err != nil {
		return models.RoutineBlock{}, err
	}
	if date.Valid {
		d, err := parseDate(date.String)
		if err != nil {
			return models.RoutineBlock{}, fmt.Errorf("block %s has invalid date: %w", b.ID, err)
		}
		b.Date = &d
	}
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

func (s *Store) AddBlocks(ctx context.Context, blocks []models.RoutineBlock) error {
	for _, b := range blocks {
		_, err := s.q.ExecContext(ctx, `
			INSERT INTO routine_blocks (id, phase_id, category_id, title, note, start_time, end_time, color,
				is_template, date, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			b.ID, b.PhaseID, b.CategoryID, b.Title, b.Note, b.StartTime, b.EndTime, b.Color,
			b.IsTemplate, nullableDate(b.Date), b.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to add block %q: %w", b.Title, err)
		}
	}
	return nil
}

func (s *Store) GetBlock(ctx context.Context, id string) (models.RoutineBlock, error) {
	b, err := scanBlock(s.q.QueryRowContext(ctx, selectBlock+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RoutineBlock{}, apperrors.NotFound("routine block", id)
		}
		return models.RoutineBlock{}, fmt.Errorf("failed to get block: %w", err)
	}
	return b, nil
}

func (s *Store) GetTemplateBlocks(ctx context.Context, phaseID string) ([]models.RoutineBlock, error) {
	return s.queryBlocks(ctx, selectBlock+` WHERE phase_id = $1 AND is_template ORDER BY start_time, title`, phaseID)
}

func (s *Store) DeleteTemplateBlocks(ctx context.Context, phaseID string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM routine_blocks WHERE phase_id = $1 AND is_template`, phaseID); err != nil {
		return fmt.Errorf("failed to delete template blocks: %w", err)
	}
	return nil
}

func (s *Store) GetDatedBlocks(ctx context.Context, phaseID string, start, end time.Time) ([]models.RoutineBlock, error) {
	return s.queryBlocks(ctx, selectBlock+`
		WHERE phase_id = $1 AND NOT is_template AND date BETWEEN $2 AND $3
		ORDER BY date, start_time`, phaseID, formatDate(start), formatDate(end))
}

func (s *Store) GetAllDatedBlocks(ctx context.Context, phaseID string) ([]models.RoutineBlock, error) {
	return s.queryBlocks(ctx, selectBlock+` WHERE phase_id = $1 AND NOT is_template ORDER BY date, start_time`, phaseID)
}

func (s *Store) DeleteBlocks(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.q.ExecContext(ctx, `DELETE FROM routine_blocks WHERE id = ANY($1)`, idArray(ids)); err != nil {
		return fmt.Errorf("failed to delete blocks: %w", err)
	}
	return nil
}
