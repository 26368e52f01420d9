package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/models"
)

func (s *Store) AddUser(ctx context.Context, user models.User) error {
	_, err := s.q.ExecContext(ctx, `INSERT INTO users (id, name, created_at) VALUES ($1, $2, $3)`,
		user.ID, user.Name, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := s.q.QueryRowContext(ctx, `SELECT id, name, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperrors.NotFound("user", id)
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

const selectPhase = `SELECT id, user_id, name, start_date::text, end_date::text, duration_days, why, outcome,
	is_active, current_streak, longest_streak, completed_at, created_at FROM phases`

func scanPhase(row rowScanner) (models.Phase, error) {
	var p models.Phase
	var start, end string
	var completedAt sql.NullTime

	err := row.Scan(&p.ID, &p.UserID, &p.Name, &start, &end, &p.DurationDays, &p.Why, &p.Outcome,
		&p.IsActive, &p.CurrentStreak, &p.LongestStreak, &completedAt, &p.CreatedAt)
	if err != nil {
		return models.Phase{}, err
	}
	if p.StartDate, err = parseDate(start); err != nil {
		return models.Phase{}, fmt.Errorf("phase %s has invalid start date: %w", p.ID, err)
	}
	if p.EndDate, err = parseDate(end); err != nil {
		return models.Phase{}, fmt.Errorf("phase %s has invalid end date: %w", p.ID, err)
	}
	p.CompletedAt = timePtr(completedAt)
	return p, nil
}

func (s *Store) AddPhase(ctx context.Context, p models.Phase) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO phases (id, user_id, name, start_date, end_date, duration_days, why, outcome,
			is_active, current_streak, longest_streak, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.UserID, p.Name, formatDate(p.StartDate), formatDate(p.EndDate), p.DurationDays, p.Why, p.Outcome,
		p.IsActive, p.CurrentStreak, p.LongestStreak, nullableTime(p.CompletedAt), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add phase: %w", err)
	}
	return nil
}

func (s *Store) GetPhase(ctx context.Context, id string) (models.Phase, error) {
	p, err := scanPhase(s.q.QueryRowContext(ctx, selectPhase+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Phase{}, apperrors.NotFound("phase", id)
		}
		return models.Phase{}, fmt.Errorf("failed to get phase: %w", err)
	}
	return p, nil
}

func (s *Store) GetActivePhase(ctx context.Context, userID string) (models.Phase, error) {
	p, err := scanPhase(s.q.QueryRowContext(ctx, selectPhase+` WHERE user_id = $1 AND is_active`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Phase{}, apperrors.NotFound("active phase for user", userID)
		}
		return models.Phase{}, fmt.Errorf("failed to get active phase: %w", err)
	}
	return p, nil
}

func (s *Store) ListPhases(ctx context.Context, userID string) ([]models.Phase, error) {
	rows, err := s.q.QueryContext(ctx, selectPhase+` WHERE user_id = $1 ORDER BY start_date DESC, created_at DESC`, userID)
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

// UpdatePhase leaves current_streak and longest_streak untouched
func (s *Store) UpdatePhase(ctx context.Context, p models.Phase) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE phases SET name = $1, start_date = $2, end_date = $3, duration_days = $4, why = $5, outcome = $6,
		       is_active = $7, completed_at = $8
		WHERE id = $9`,
		p.Name, formatDate(p.StartDate), formatDate(p.EndDate), p.DurationDays, p.Why, p.Outcome,
		p.IsActive, nullableTime(p.CompletedAt), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update phase: %w", err)
	}
	return requireAffected(res, "phase", p.ID)
}

func (s *Store) UpdatePhaseStreaks(ctx context.Context, phaseID string, current, longest int) error {
	res, err := s.q.ExecContext(ctx, `UPDATE phases SET current_streak = $1, longest_streak = $2 WHERE id = $3`,
		current, longest, phaseID)
	if err != nil {
		return fmt.Errorf("failed to update phase streaks: %w", err)
	}
	return requireAffected(res, "phase", phaseID)
}

func (s *Store) DeactivatePhases(ctx context.Context, userID string) error {
	if _, err := s.q.ExecContext(ctx, `UPDATE phases SET is_active = FALSE WHERE user_id = $1 AND is_active`, userID); err != nil {
		return fmt.Errorf("failed to deactivate phases: %w", err)
	}
	return nil
}
