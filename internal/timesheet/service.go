// Package timesheet logs unplanned time against a phase. Entries are kept
// apart from routine blocks and never affect streaks.
package timesheet

import (
	"context"
	"sort"
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
	store storage.Repository
	clock clock.Clock
}

func NewService(store storage.Repository, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Service{store: store, clock: clk}
}

func (s *Service) ownedPhase(ctx context.Context, userID, phaseID string) (models.Phase, error) {
	p, err := s.store.GetPhase(ctx, phaseID)
	if err != nil {
		return models.Phase{}, err
	}
	if p.UserID != userID {
		return models.Phase{}, apperrors.NotFound("phase", phaseID)
	}
	return p, nil
}

// Log validates and stores entry. Priority defaults to MEDIUM.
func (s *Service) Log(ctx context.Context, userID string, entry models.TimesheetEntry) (models.TimesheetEntry, error) {
	entry.Title = strings.TrimSpace(entry.Title)
	if entry.Title == "" {
		return models.TimesheetEntry{}, apperrors.Validation(apperrors.InvalidInput, "timesheet entry title is required")
	}
	if entry.Priority == "" {
		entry.Priority = models.PriorityMedium
	}
	entry.Priority = models.Priority(strings.ToUpper(string(entry.Priority)))
	if !entry.Priority.Valid() {
		return models.TimesheetEntry{}, apperrors.Validation(apperrors.InvalidInput,
			"unknown priority %q (expected HIGH, MEDIUM or LOW)", entry.Priority)
	}

	start, errStart := utils.ParseTimeToMinutes(entry.StartTime)
	end, errEnd := utils.ParseTimeToMinutes(entry.EndTime)
	if errStart != nil || errEnd != nil {
		return models.TimesheetEntry{}, apperrors.Validation(apperrors.InvalidBlock,
			"entry %q has invalid time range %q-%q (expected HH:MM)", entry.Title, entry.StartTime, entry.EndTime)
	}
	if end <= start {
		return models.TimesheetEntry{}, apperrors.Validation(apperrors.InvalidBlock,
			"entry %q ends (%s) at or before it starts (%s)", entry.Title, entry.EndTime, entry.StartTime)
	}

	phase, err := s.ownedPhase(ctx, userID, entry.PhaseID)
	if err != nil {
		return models.TimesheetEntry{}, err
	}
	entry.Date = utils.Day(entry.Date)
	if !phase.Contains(entry.Date) {
		return models.TimesheetEntry{}, apperrors.Validation(apperrors.InvalidDate,
			"date %s falls outside phase %q (%s to %s)", utils.DateKey(entry.Date), phase.Name,
			utils.DateKey(phase.StartDate), utils.DateKey(phase.EndDate))
	}

	entry.ID = uuid.New().String()
	entry.CreatedAt = s.clock.Now().UTC()
	if err := s.store.AddTimesheetEntry(ctx, entry); err != nil {
		return models.TimesheetEntry{}, err
	}

	logger.Debug("Logged timesheet entry", "phase", phase.ID, "date", utils.DateKey(entry.Date), "priority", entry.Priority)
	return entry, nil
}

// List returns entries of the phase between from and to inclusive, ordered
// by date and start time. Zero bounds default to the phase's own range.
func (s *Service) List(ctx context.Context, userID, phaseID string, from, to time.Time) ([]models.TimesheetEntry, error) {
	phase, err := s.ownedPhase(ctx, userID, phaseID)
	if err != nil {
		return nil, err
	}
	if from.IsZero() {
		from = phase.StartDate
	}
	if to.IsZero() {
		to = phase.EndDate
	}

	entries, err := s.store.GetTimesheetEntries(ctx, phase.ID, utils.Day(from), utils.Day(to))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].StartTime < entries[j].StartTime
	})
	return entries, nil
}

func (s *Service) Delete(ctx context.Context, userID, entryID string) error {
	entry, err := s.store.GetTimesheetEntry(ctx, entryID)
	if err != nil {
		return err
	}
	if _, err := s.ownedPhase(ctx, userID, entry.PhaseID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("timesheet entry", entryID)
		}
		return err
	}
	return s.store.DeleteTimesheetEntry(ctx, entryID)
}

// Summary totals logged minutes, overall and per priority
type Summary struct {
	Entries      int                     `json:"entries"`
	TotalMinutes int                     `json:"total_minutes"`
	ByPriority   map[models.Priority]int `json:"by_priority"`
}

// Summarize totals entries. Entries with unparseable times count toward
// Entries but add no minutes.
func Summarize(entries []models.TimesheetEntry) Summary {
	s := Summary{ByPriority: map[models.Priority]int{
		models.PriorityHigh:   0,
		models.PriorityMedium: 0,
		models.PriorityLow:    0,
	}}
	for _, e := range entries {
		s.Entries++
		start, err := utils.ParseTimeToMinutes(e.StartTime)
		if err != nil {
			continue
		}
		end, err := utils.ParseTimeToMinutes(e.EndTime)
		if err != nil || end <= start {
			continue
		}
		s.TotalMinutes += end - start
		s.ByPriority[e.Priority] += end - start
	}
	return s
}
