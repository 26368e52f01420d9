// Package streak derives day success, streaks and adherence for a phase
// from its dated blocks and recorded executions.
package streak

import (
	"github.com/julianstephens/phaseflow/internal/constants"
	"github.com/julianstephens/phaseflow/internal/models"
)

// tally counts the outcome of each scheduled block once. Executions for
// blocks outside scheduled are ignored.
type tally struct {
	scheduled int
	done      int
	skipped   int
}

func countDay(scheduled []models.RoutineBlock, executions []models.RoutineExecution) tally {
	status := make(map[string]models.ExecutionStatus, len(scheduled))
	for _, b := range scheduled {
		status[b.ID] = ""
	}
	for _, e := range executions {
		if _, ok := status[e.RoutineBlockID]; ok {
			status[e.RoutineBlockID] = e.Status
		}
	}

	t := tally{scheduled: len(status)}
	for _, s := range status {
		switch s {
		case models.ExecutionDone:
			t.done++
		case models.ExecutionSkipped:
			t.skipped++
		}
	}
	return t
}

func (t tally) pending() int {
	return t.scheduled - t.done - t.skipped
}

func (t tally) ratio() float64 {
	if t.scheduled == 0 {
		return 0
	}
	return float64(t.done) / float64(t.scheduled)
}

func (t tally) successful() bool {
	return t.scheduled > 0 && t.ratio() >= constants.DaySuccessThreshold
}

// IsDaySuccessful reports whether at least DaySuccessThreshold of the day's
// scheduled blocks are DONE. A day with nothing scheduled is never
// successful; SKIPPED and unrecorded blocks both count as not done.
func IsDaySuccessful(scheduled []models.RoutineBlock, executions []models.RoutineExecution) bool {
	return countDay(scheduled, executions).successful()
}

// ComputeStreaks returns the trailing run of true values and the longest
// run anywhere in successful.
func ComputeStreaks(successful []bool) (current, longest int) {
	run := 0
	for _, ok := range successful {
		if ok {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return run, longest
}
