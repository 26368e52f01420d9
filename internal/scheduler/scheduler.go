// Package scheduler decides which calendar days a block set is written to
// and where a day's schedule leaves free time.
package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/utils"
)

// Policy selects which days of a phase receive template blocks
type Policy string

const (
	PolicyAll      Policy = "all"
	PolicyWeekdays Policy = "weekdays"
	// PolicyCustom keeps every day except the explicit exclusions
	PolicyCustom Policy = "custom"
)

func (p Policy) Valid() bool {
	switch p {
	case PolicyAll, PolicyWeekdays, PolicyCustom:
		return true
	}
	return false
}

// Scope selects which days a bulk edit rewrites
type Scope string

const (
	ScopeDay      Scope = "day"
	ScopeFuture   Scope = "future"
	ScopeSelected Scope = "selected"
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeDay, ScopeFuture, ScopeSelected:
		return true
	}
	return false
}

type Scheduler struct{}

func New() *Scheduler {
	return &Scheduler{}
}

// CloneDays returns the phase days selected by policy, minus exclusions.
// Exclusions are subtracted for every policy, not only custom.
func (s *Scheduler) CloneDays(phase models.Phase, policy Policy, exclusions []time.Time) ([]time.Time, error) {
	if !policy.Valid() {
		return nil, apperrors.Validation(apperrors.InvalidPolicy,
			"unknown clone policy %q (expected all, weekdays or custom)", policy)
	}

	all := utils.EnumerateDays(phase.StartDate, phase.EndDate)

	var candidates []time.Time
	switch policy {
	case PolicyWeekdays:
		for _, day := range all {
			if !utils.IsWeekendDay(day) {
				candidates = append(candidates, day)
			}
		}
	default:
		candidates = all
	}

	return utils.ExcludeDays(candidates, exclusions), nil
}

// EditDays resolves an edit scope to its target days. Every target must lie
// inside the phase.
func (s *Scheduler) EditDays(phase models.Phase, scope Scope, anchor time.Time, selected []time.Time) ([]time.Time, error) {
	if !scope.Valid() {
		return nil, apperrors.Validation(apperrors.InvalidScope,
			"unknown edit scope %q (expected day, future or selected)", scope)
	}

	// targets are rebuilt in the phase's zone so keys and enumeration agree
	loc := phase.StartDate.Location()
	anchor = utils.DayIn(anchor, loc)

	var targets []time.Time
	switch scope {
	case ScopeDay:
		targets = []time.Time{anchor}
	case ScopeFuture:
		targets = utils.EnumerateDays(anchor, phase.EndDate)
		if len(targets) == 0 {
			targets = []time.Time{anchor}
		}
	case ScopeSelected:
		if len(selected) == 0 {
			return nil, apperrors.Validation(apperrors.EmptySelection, "scope 'selected' requires at least one date")
		}
		inPhase := make([]time.Time, len(selected))
		for i, day := range selected {
			inPhase[i] = utils.DayIn(day, loc)
		}
		targets = utils.UniqueSortedDays(inPhase)
	}

	var outside []string
	for _, day := range targets {
		if !phase.Contains(day) {
			outside = append(outside, utils.DateKey(day))
		}
	}
	if len(outside) > 0 {
		return nil, &apperrors.ValidationError{
			Kind: apperrors.InvalidDate,
			Message: fmt.Sprintf("date(s) %s fall outside phase %q (%s to %s)",
				strings.Join(outside, ", "), phase.Name, utils.DateKey(phase.StartDate), utils.DateKey(phase.EndDate)),
			Items: outside,
		}
	}

	return targets, nil
}

// Window is a free stretch of a day, in HH:MM
type Window struct {
	Start string
	End   string
}

func (w Window) Minutes() int {
	start, _ := utils.ParseTimeToMinutes(w.Start)
	end, _ := utils.ParseTimeToMinutes(w.End)
	return end - start
}

type timeBlock struct {
	start int // minutes from midnight
	end   int // minutes from midnight
}

// FreeWindows returns the gaps between blocks inside [dayStart, dayEnd).
// Blocks with unparseable times are ignored.
func (s *Scheduler) FreeWindows(blocks []models.RoutineBlock, dayStart, dayEnd string) ([]Window, error) {
	startMin, err := utils.ParseTimeToMinutes(dayStart)
	if err != nil {
		return nil, fmt.Errorf("invalid day start time: %w", err)
	}
	endMin, err := utils.ParseTimeToMinutes(dayEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid day end time: %w", err)
	}

	var busy []timeBlock
	for _, b := range blocks {
		bs, err := utils.ParseTimeToMinutes(b.StartTime)
		if err != nil {
			continue
		}
		be, err := utils.ParseTimeToMinutes(b.EndTime)
		if err != nil {
			continue
		}
		busy = append(busy, timeBlock{start: bs, end: be})
	}
	sort.Slice(busy, func(i, j int) bool {
		return busy[i].start < busy[j].start
	})

	var windows []Window
	cursor := startMin
	for _, b := range busy {
		if b.start > cursor && cursor < endMin {
			windows = append(windows, Window{Start: formatTime(cursor), End: formatTime(min(b.start, endMin))})
		}
		if b.end > cursor {
			cursor = b.end
		}
	}
	if cursor < endMin {
		windows = append(windows, Window{Start: formatTime(cursor), End: formatTime(endMin)})
	}
	return windows, nil
}

func formatTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
