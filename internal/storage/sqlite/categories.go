package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/models"
)

func (s *Store) AddCategory(ctx context.Context, c models.Category) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, formatTimestamp(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to add category: %w", err)
	}
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (models.Category, error) {
	row := s.q.QueryRowContext(ctx, `SELECT id, user_id, name, created_at FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Category{}, apperrors.NotFound("category", id)
		}
		return models.Category{}, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func (s *Store) GetCategoryByName(ctx context.Context, userID, name string) (models.Category, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at FROM categories WHERE user_id = ? AND name = ?`, userID, name)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Category{}, apperrors.NotFound("category", name)
		}
		return models.Category{}, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, user_id, name, created_at FROM categories WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanCategory(row rowScanner) (models.Category, error) {
	var c models.Category
	var createdAt string
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &createdAt); err != nil {
		return models.Category{}, err
	}
	c.CreatedAt = parseTimestamp(createdAt)
	return c, nil
}
