package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/models"
)

func (s *Store) AddUser(ctx context.Context, user models.User) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO users (id, name, created_at) VALUES (?, ?, ?)`,
		user.ID, user.Name, formatTimestamp(user.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	var u models.User
	var createdAt string
	err := s.q.QueryRowContext(ctx, `SELECT id, name, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperrors.NotFound("user", id)
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	u.CreatedAt = parseTimestamp(createdAt)
	return u, nil
}

const phaseColumns = `id, user_id, name, start_date, end_date, duration_days, why, outcome,
	is_active, current_streak, longest_streak, completed_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhase(row rowScanner) (models.Phase, error) {
	var p models.Phase
	var start, end, createdAt string
	var completedAt sql.NullString
	var active int

	err := row.Scan(&p.ID, &p.UserID, &p.Name, &start, &end, &p.DurationDays, &p.Why, &p.Outcome,
		&active, &p.CurrentStreak, &p.LongestStreak, &completedAt, &createdAt)
	if err != nil {
		return models.Phase{}, err
	}

	if p.StartDate, err = parseDate(start); err != nil {
		return models.Phase{}, fmt.Errorf("phase %s has invalid start date: %w", p.ID, err)
	}
	if p.EndDate, err = parseDate(end); err != nil {
		return models.Phase{}, fmt.Errorf("phase %s has invalid end date: %w", p.ID, err)
	}
	p.IsActive = active != 0
	p.CompletedAt = parseNullableTimestamp(completedAt)
	p.CreatedAt = parseTimestamp(createdAt)
	return p, nil
}

func (s *Store) AddPhase(ctx context.Context, p models.Phase) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO phases (`+phaseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Name, formatDate(p.StartDate), formatDate(p.EndDate), p.DurationDays, p.Why, p.Outcome,
		boolToInt(p.IsActive), p.CurrentStreak, p.LongestStreak, nullableTimestamp(p.CompletedAt), formatTimestamp(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to add phase: %w", err)
	}
	return nil
}

func (s *Store) GetPhase(ctx context.Context, id string) (models.Phase, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+phaseColumns+` FROM phases WHERE id = ?`, id)
	p, err := scanPhase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Phase{}, apperrors.NotFound("phase", id)
		}
		return models.Phase{}, fmt.Errorf("failed to get phase: %w", err)
	}
	return p, nil
}

func (s *Store) GetActivePhase(ctx context.Context, userID string) (models.Phase, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+phaseColumns+` FROM phases WHERE user_id = ? AND is_active = 1`, userID)
	p, err := scanPhase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Phase{}, apperrors.NotFound("active phase for user", userID)
		}
		return models.Phase{}, fmt.Errorf("failed to get active phase: %w", err)
	}
	return p, nil
}

func (s *Store) ListPhases(ctx context.Context, userID string) ([]models.Phase, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+phaseColumns+` FROM phases WHERE user_id = ?
		ORDER BY start_date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list phases: %w", err)
	}
	defer rows.Close()

	var phases []models.Phase
	for rows.Next() {
		p, err := scanPhase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan phase: %w", err)
		}
		phases = append(phases, p)
	}
	return phases, rows.Err()
}

// UpdatePhase writes everything but the streak columns, which only
// UpdatePhaseStreaks changes.
func (s *Store) UpdatePhase(ctx context.Context, p models.Phase) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE phases SET name = ?, start_date = ?, end_date = ?, duration_days = ?, why = ?, outcome = ?,
		       is_active = ?, completed_at = ?
		WHERE id = ?`,
		p.Name, formatDate(p.StartDate), formatDate(p.EndDate), p.DurationDays, p.Why, p.Outcome,
		boolToInt(p.IsActive), nullableTimestamp(p.CompletedAt), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update phase: %w", err)
	}
	return requireAffected(res, "phase", p.ID)
}

func (s *Store) UpdatePhaseStreaks(ctx context.Context, phaseID string, current, longest int) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE phases SET current_streak = ?, longest_streak = ? WHERE id = ?`,
		current, longest, phaseID)
	if err != nil {
		return fmt.Errorf("failed to update phase streaks: %w", err)
	}
	return requireAffected(res, "phase", phaseID)
}

func (s *Store) DeactivatePhases(ctx context.Context, userID string) error {
	if _, err := s.q.ExecContext(ctx, `UPDATE phases SET is_active = 0 WHERE user_id = ? AND is_active = 1`, userID); err != nil {
		return fmt.Errorf("failed to deactivate phases: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return apperrors.NotFound(entity, id)
	}
	return nil
}
