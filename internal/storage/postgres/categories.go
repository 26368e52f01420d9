package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/models"
)

func (s *Store) AddCategory(ctx context.Context, c models.Category) error {
	_, err := s.q.ExecContext(ctx, `INSERT INTO categories (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.UserID, c.Name, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add category: %w", err)
	}
	return nil
}

func (s *Store) getCategory(ctx context.Context, ref, query string, args ...interface{}) (models.Category, error) {
	var c models.Category
	err := s.q.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Category{}, apperrors.NotFound("category", ref)
		}
		return models.Category{}, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (models.Category, error) {
	return s.getCategory(ctx, id, `SELECT id, user_id, name, created_at FROM categories WHERE id = $1`, id)
}

func (s *Store) GetCategoryByName(ctx context.Context, userID, name string) (models.Category, error) {
	return s.getCategory(ctx, name,
		`SELECT id, user_id, name, created_at FROM categories WHERE user_id = $1 AND name = $2`, userID, name)
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, user_id, name, created_at FROM categories WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
