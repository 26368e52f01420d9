package validation

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictOverlappingBlocks ConflictType = "overlapping_blocks"
	ConflictInvalidTime       ConflictType = "invalid_time"
	ConflictEmptyInterval     ConflictType = "empty_interval"
	ConflictMissingTitle      ConflictType = "missing_title"
)

// Interval is one time-boxed block on a single calendar day
type Interval struct {
	Title string
	Start string // HH:MM
	End   string // HH:MM
}

func (i Interval) label() string {
	if i.Title == "" {
		return "untitled block"
	}
	return i.Title
}

// Conflict represents a detected problem in a block set
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Block titles involved
	TimeRange   string   // Human-readable time range (if applicable)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// HasOverlaps returns true if any two intervals intersect
func (vr *ValidationResult) HasOverlaps() bool {
	for _, c := range vr.Conflicts {
		if c.Type == ConflictOverlappingBlocks {
			return true
		}
	}
	return false
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Err converts the result into a ValidationError, or nil when the set is
// valid. Overlaps take precedence over malformed intervals in the reported kind.
func (vr *ValidationResult) Err() error {
	if !vr.HasConflicts() {
		return nil
	}

	kind := apperrors.InvalidBlock
	if vr.HasOverlaps() {
		kind = apperrors.OverlapConflict
	}

	var descriptions []string
	var items []string
	seen := make(map[string]bool)
	for _, c := range vr.Conflicts {
		descriptions = append(descriptions, c.Description)
		for _, item := range c.Items {
			if !seen[item] {
				seen[item] = true
				items = append(items, item)
			}
		}
	}

	return &apperrors.ValidationError{
		Kind:    kind,
		Message: strings.Join(descriptions, "; "),
		Items:   items,
	}
}

// Validator validates daily block sets
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateBlocks checks that every interval is well formed and that no two
// intervals of the same day intersect. Half-open ranges are used, so blocks
// that merely touch (10:00-11:00 and 11:00-12:00) do not overlap.
func (v *Validator) ValidateBlocks(intervals []Interval) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	var valid []parsedInterval

	for _, iv := range intervals {
		if strings.TrimSpace(iv.Title) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingTitle,
				Description: fmt.Sprintf("Block %s-%s has no title", iv.Start, iv.End),
				TimeRange:   fmt.Sprintf("%s-%s", iv.Start, iv.End),
			})
		}

		start, errStart := utils.ParseTimeToMinutes(iv.Start)
		end, errEnd := utils.ParseTimeToMinutes(iv.End)
		if errStart != nil || errEnd != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTime,
				Description: fmt.Sprintf("Block \"%s\" has invalid time range %q-%q (expected HH:MM)", iv.label(), iv.Start, iv.End),
				Items:       []string{iv.label()},
			})
			continue
		}

		if end <= start {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyInterval,
				Description: fmt.Sprintf("Block \"%s\" ends (%s) at or before it starts (%s)", iv.label(), iv.End, iv.Start),
				Items:       []string{iv.label()},
				TimeRange:   fmt.Sprintf("%s-%s", iv.Start, iv.End),
			})
			continue
		}

		valid = append(valid, parsedInterval{Interval: iv, start: start, end: end})
	}

	// Sort by start time so conflicts are reported in schedule order.
	// O(n²) pair check - a day holds a handful of blocks.
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].start < valid[j].start
	})

	for i := 0; i < len(valid); i++ {
		for j := i + 1; j < len(valid); j++ {
			a, b := valid[i], valid[j]
			if b.start >= a.end {
				// sorted by start: no later block can intersect a either
				break
			}
			if intervalsOverlap(a.start, a.end, b.start, b.end) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type: ConflictOverlappingBlocks,
					Description: fmt.Sprintf("Blocks overlap: \"%s\" (%s-%s) and \"%s\" (%s-%s)",
						a.label(), a.Start, a.End, b.label(), b.Start, b.End),
					Items:     []string{a.label(), b.label()},
					TimeRange: fmt.Sprintf("%s-%s", b.Start, earlierEnd(a, b)),
				})
			}
		}
	}

	return result
}

// Overlaps reports whether any two well-formed intervals intersect.
func (v *Validator) Overlaps(intervals []Interval) bool {
	result := v.ValidateBlocks(intervals)
	return result.HasOverlaps()
}

// intervalsOverlap checks if two half-open minute ranges intersect
func intervalsOverlap(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// TimesOverlap checks if two HH:MM ranges overlap. Unparseable input never overlaps.
func TimesOverlap(start1, end1, start2, end2 string) bool {
	s1, err := utils.ParseTimeToMinutes(start1)
	if err != nil {
		return false
	}
	e1, err := utils.ParseTimeToMinutes(end1)
	if err != nil {
		return false
	}
	s2, err := utils.ParseTimeToMinutes(start2)
	if err != nil {
		return false
	}
	e2, err := utils.ParseTimeToMinutes(end2)
	if err != nil {
		return false
	}
	return intervalsOverlap(s1, e1, s2, e2)
}

type parsedInterval struct {
	Interval
	start, end int
}

// earlierEnd returns the HH:MM end of whichever interval finishes first
func earlierEnd(a, b parsedInterval) string {
	if a.end <= b.end {
		return a.End
	}
	return b.End
}
