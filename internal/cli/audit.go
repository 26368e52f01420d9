package cli

import (
	"sort"
	"time"

	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/utils"
	"github.com/julianstephens/phaseflow/internal/validation"
)

// DayReport holds the validation result for one set of blocks. Date is zero
// for the template.
type DayReport struct {
	Date   time.Time
	Result validation.ValidationResult
}

// Label names the block set in output
func (r DayReport) Label() string {
	if r.Date.IsZero() {
		return "template"
	}
	return utils.DateKey(r.Date)
}

// AuditPhase validates the template and every dated day of the phase and
// returns only the sets that have conflicts. Dated blocks outside the
// phase range are reported on their own day.
func (c *Context) AuditPhase(phase models.Phase) ([]DayReport, error) {
	v := validation.New()
	var reports []DayReport

	templates, err := c.Store.GetTemplateBlocks(c.Ctx, phase.ID)
	if err != nil {
		return nil, err
	}
	if res := v.ValidateBlocks(intervals(templates)); res.HasConflicts() {
		reports = append(reports, DayReport{Result: res})
	}

	dated, err := c.Store.GetAllDatedBlocks(c.Ctx, phase.ID)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]models.RoutineBlock)
	days := make(map[string]time.Time)
	for _, b := range dated {
		key := b.DateKey()
		byDay[key] = append(byDay[key], b)
		days[key] = utils.Day(*b.Date)
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		day := days[key]
		res := v.ValidateBlocks(intervals(byDay[key]))
		if !phase.Contains(day) {
			res.Conflicts = append(res.Conflicts, validation.Conflict{
				Type:        validation.ConflictInvalidTime,
				Description: "Blocks scheduled outside the phase date range",
			})
		}
		if res.HasConflicts() {
			reports = append(reports, DayReport{Date: day, Result: res})
		}
	}
	return reports, nil
}

func intervals(blocks []models.RoutineBlock) []validation.Interval {
	out := make([]validation.Interval, len(blocks))
	for i, b := range blocks {
		out[i] = validation.Interval{Title: b.Title, Start: b.StartTime, End: b.EndTime}
	}
	return out
}
