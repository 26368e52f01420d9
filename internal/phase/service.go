// Package phase manages the lifecycle of phases: creation, activation and
// archival. A user has at most one active phase.
package phase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/phaseflow/internal/clock"
	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/logger"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/storage"
	"github.com/julianstephens/phaseflow/internal/utils"
)

type Service struct {
	store storage.Provider
	clock clock.Clock
}

func NewService(store storage.Provider, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Service{store: store, clock: clk}
}

type CreateRequest struct {
	UserID   string
	Name     string
	Start    time.Time
	End      time.Time
	Why      string
	Outcome  string
	Activate bool
}

// Create stores a new phase, creating the user record on first use
func (s *Service) Create(ctx context.Context, req CreateRequest) (models.Phase, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Phase{}, apperrors.Validation(apperrors.InvalidInput, "phase name is required")
	}
	if strings.TrimSpace(req.UserID) == "" {
		return models.Phase{}, apperrors.Validation(apperrors.InvalidInput, "user id is required")
	}

	start, end := utils.Day(req.Start), utils.Day(req.End)
	if end.Before(start) {
		return models.Phase{}, apperrors.Validation(apperrors.InvalidDate,
			"phase ends (%s) before it starts (%s)", utils.DateKey(end), utils.DateKey(start))
	}

	now := s.clock.Now().UTC()
	phase := models.Phase{
		ID:           uuid.New().String(),
		UserID:       req.UserID,
		Name:         name,
		StartDate:    start,
		EndDate:      end,
		DurationDays: utils.DaysBetween(start, end),
		Why:          strings.TrimSpace(req.Why),
		Outcome:      strings.TrimSpace(req.Outcome),
		IsActive:     req.Activate,
		CreatedAt:    now,
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		if err := ensureUser(ctx, tx, req.UserID, now); err != nil {
			return err
		}
		if phase.IsActive {
			if err := tx.DeactivatePhases(ctx, req.UserID); err != nil {
				return err
			}
		}
		return tx.AddPhase(ctx, phase)
	})
	if err != nil {
		return models.Phase{}, err
	}

	logger.Debug("Created phase", "phase", phase.ID, "days", phase.DurationDays, "active", phase.IsActive)
	return phase, nil
}

func ensureUser(ctx context.Context, tx storage.Repository, userID string, now time.Time) error {
	_, err := tx.GetUser(ctx, userID)
	if err == nil {
		return nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return tx.AddUser(ctx, models.User{ID: userID, Name: userID, CreatedAt: now})
}

// Get returns the phase if it belongs to userID
func (s *Service) Get(ctx context.Context, userID, phaseID string) (models.Phase, error) {
	p, err := s.store.GetPhase(ctx, phaseID)
	if err != nil {
		return models.Phase{}, err
	}
	if p.UserID != userID {
		return models.Phase{}, apperrors.NotFound("phase", phaseID)
	}
	return p, nil
}

func (s *Service) Active(ctx context.Context, userID string) (models.Phase, error) {
	return s.store.GetActivePhase(ctx, userID)
}

// Resolve returns the named phase, or the active one when phaseID is empty
func (s *Service) Resolve(ctx context.Context, userID, phaseID string) (models.Phase, error) {
	if phaseID == "" {
		return s.Active(ctx, userID)
	}
	return s.Get(ctx, userID, phaseID)
}

func (s *Service) List(ctx context.Context, userID string) ([]models.Phase, error) {
	return s.store.ListPhases(ctx, userID)
}

// Activate makes phaseID the user's only active phase. Activating an
// archived phase clears its completion time.
func (s *Service) Activate(ctx context.Context, userID, phaseID string) (models.Phase, error) {
	var activated models.Phase
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		p, err := tx.GetPhase(ctx, phaseID)
		if err != nil {
			return err
		}
		if p.UserID != userID {
			return apperrors.NotFound("phase", phaseID)
		}
		if err := tx.DeactivatePhases(ctx, userID); err != nil {
			return err
		}
		p.IsActive = true
		p.CompletedAt = nil
		if err := tx.UpdatePhase(ctx, p); err != nil {
			return err
		}
		activated = p
		return nil
	})
	if err != nil {
		return models.Phase{}, err
	}

	logger.Debug("Activated phase", "phase", phaseID, "user", userID)
	return activated, nil
}

// Archive deactivates the phase and stamps its completion time
func (s *Service) Archive(ctx context.Context, userID, phaseID string) (models.Phase, error) {
	now := s.clock.Now().UTC()
	var archived models.Phase
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		p, err := tx.GetPhase(ctx, phaseID)
		if err != nil {
			return err
		}
		if p.UserID != userID {
			return apperrors.NotFound("phase", phaseID)
		}
		p.IsActive = false
		p.CompletedAt = &now
		if err := tx.UpdatePhase(ctx, p); err != nil {
			return err
		}
		archived = p
		return nil
	})
	if err != nil {
		return models.Phase{}, err
	}

	logger.Debug("Archived phase", "phase", phaseID)
	return archived, nil
}
