package streak

import (
	"context"
	"time"

	"github.com/julianstephens/phaseflow/internal/clock"
	"github.com/julianstephens/phaseflow/internal/storage"
)

// DayAdherence is the outcome breakdown of one calendar day
type DayAdherence struct {
	Date       time.Time `json:"date"`
	Scheduled  int       `json:"scheduled"`
	Done       int       `json:"done"`
	Skipped    int       `json:"skipped"`
	Pending    int       `json:"pending"`
	Ratio      float64   `json:"ratio"`
	Successful bool      `json:"successful"`
}

// Summary aggregates a run of DayAdherence values. AdherencePct is
// successful days over elapsed days and CompletionPct is DONE blocks over
// scheduled blocks, both as 0-100.
type Summary struct {
	TotalDays      int     `json:"total_days"`
	ScheduledDays  int     `json:"scheduled_days"`
	SuccessfulDays int     `json:"successful_days"`
	AdherencePct   float64 `json:"adherence_pct"`
	CompletionPct  float64 `json:"completion_pct"`
}

// Analyzer reports per-day adherence for the elapsed part of a phase
type Analyzer struct {
	store storage.Repository
	clock clock.Clock
}

func NewAnalyzer(store storage.Repository, clk clock.Clock) *Analyzer {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Analyzer{store: store, clock: clk}
}

// DailyAdherence returns one entry per day from the phase start through
// today (or the phase end if earlier). Future phases yield no entries.
func (a *Analyzer) DailyAdherence(ctx context.Context, phaseID string) ([]DayAdherence, error) {
	phase, err := a.store.GetPhase(ctx, phaseID)
	if err != nil {
		return nil, err
	}

	w := window(phase, a.clock.Now())
	if w.empty() {
		return nil, nil
	}

	data, err := load(ctx, loadConcurrent, a.store, phase.ID, w)
	if err != nil {
		return nil, err
	}

	days := w.days()
	out := make([]DayAdherence, 0, len(days))
	for _, day := range days {
		t := data.count(day)
		out = append(out, DayAdherence{
			Date:       day,
			Scheduled:  t.scheduled,
			Done:       t.done,
			Skipped:    t.skipped,
			Pending:    t.pending(),
			Ratio:      t.ratio(),
			Successful: t.successful(),
		})
	}
	return out, nil
}

// Summarize folds daily adherence into totals
func Summarize(days []DayAdherence) Summary {
	var s Summary
	var scheduledBlocks, doneBlocks int
	for _, d := range days {
		s.TotalDays++
		if d.Scheduled > 0 {
			s.ScheduledDays++
		}
		if d.Successful {
			s.SuccessfulDays++
		}
		scheduledBlocks += d.Scheduled
		doneBlocks += d.Done
	}
	if s.TotalDays > 0 {
		s.AdherencePct = float64(s.SuccessfulDays) / float64(s.TotalDays) * 100
	}
	if scheduledBlocks > 0 {
		s.CompletionPct = float64(doneBlocks) / float64(scheduledBlocks) * 100
	}
	return s
}
