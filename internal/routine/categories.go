package routine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/phaseflow/internal/constants"
	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/logger"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/storage"
)

// categoryResolver finds or creates a user's categories inside one
// transaction and remembers what it has seen.
type categoryResolver struct {
	tx     storage.Repository
	userID string
	now    time.Time
	byID   map[string]string
	byName map[string]string
}

func newCategoryResolver(tx storage.Repository, userID string, now time.Time) *categoryResolver {
	return &categoryResolver{
		tx:     tx,
		userID: userID,
		now:    now,
		byID:   make(map[string]string),
		byName: make(map[string]string),
	}
}

// ByID returns id when it names one of the user's categories, and the
// default category otherwise.
func (r *categoryResolver) ByID(ctx context.Context, id, blockTitle string) (string, error) {
	if resolved, ok := r.byID[id]; ok {
		return resolved, nil
	}

	if id != "" {
		cat, err := r.tx.GetCategory(ctx, id)
		switch {
		case err == nil && cat.UserID == r.userID:
			r.byID[id] = cat.ID
			return cat.ID, nil
		case err != nil && !apperrors.Is(err, apperrors.ErrNotFound):
			return "", err
		}
	}

	logger.Warn("Block has no usable category, using default",
		"block", blockTitle,
		"category", id,
		"default", constants.DefaultCategoryName)

	resolved, err := r.ByName(ctx, constants.DefaultCategoryName)
	if err != nil {
		return "", err
	}
	r.byID[id] = resolved
	return resolved, nil
}

// ByName finds the user's category called name, creating it if needed. A
// blank name resolves to the default category.
func (r *categoryResolver) ByName(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = constants.DefaultCategoryName
	}
	if id, ok := r.byName[name]; ok {
		return id, nil
	}

	cat, err := r.tx.GetCategoryByName(ctx, r.userID, name)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return "", err
		}
		cat = models.Category{
			ID:        uuid.New().String(),
			UserID:    r.userID,
			Name:      name,
			CreatedAt: r.now,
		}
		if err := r.tx.AddCategory(ctx, cat); err != nil {
			return "", err
		}
		logger.Debug("Created category", "name", name, "user", r.userID)
	}

	r.byName[name] = cat.ID
	return cat.ID, nil
}

func colorOrDefault(color string) string {
	if strings.TrimSpace(color) == "" {
		return constants.DefaultBlockColor
	}
	return color
}
