package validation

import (
	"strings"
	"testing"

	apperrors "github.com/julianstephens/phaseflow/internal/errors"
)

func TestValidateBlocks_Overlap(t *testing.T) {
	tests := []struct {
		name      string
		intervals []Interval
		overlap   bool
	}{
		{
			name: "partial overlap",
			intervals: []Interval{
				{Title: "Deep work", Start: "09:00", End: "10:00"},
				{Title: "Email", Start: "09:30", End: "10:30"},
			},
			overlap: true,
		},
		{
			name: "touching endpoints",
			intervals: []Interval{
				{Title: "Deep work", Start: "09:00", End: "10:00"},
				{Title: "Email", Start: "10:00", End: "11:00"},
			},
			overlap: false,
		},
		{
			name: "containment",
			intervals: []Interval{
				{Title: "Workday", Start: "08:00", End: "17:00"},
				{Title: "Lunch", Start: "12:00", End: "13:00"},
			},
			overlap: true,
		},
		{
			name: "identical ranges",
			intervals: []Interval{
				{Title: "A", Start: "07:00", End: "07:30"},
				{Title: "B", Start: "07:00", End: "07:30"},
			},
			overlap: true,
		},
		{
			name: "unordered without overlap",
			intervals: []Interval{
				{Title: "Evening", Start: "19:00", End: "20:00"},
				{Title: "Morning", Start: "06:00", End: "07:00"},
				{Title: "Noon", Start: "12:00", End: "12:30"},
			},
			overlap: false,
		},
		{
			name: "overlap with non adjacent block after sorting",
			intervals: []Interval{
				{Title: "Long", Start: "08:00", End: "12:00"},
				{Title: "Short", Start: "08:30", End: "09:00"},
				{Title: "Later", Start: "11:00", End: "11:30"},
			},
			overlap: true,
		},
		{
			name:      "empty set",
			intervals: nil,
			overlap:   false,
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidateBlocks(tt.intervals)
			if result.HasOverlaps() != tt.overlap {
				t.Errorf("HasOverlaps() = %v, want %v (report: %s)", result.HasOverlaps(), tt.overlap, result.FormatReport())
			}
			if v.Overlaps(tt.intervals) != tt.overlap {
				t.Errorf("Overlaps() disagrees with ValidateBlocks")
			}
		})
	}
}

// bruteForceOverlap is the unsorted O(n²) reference the sorted scan must agree with
func bruteForceOverlap(intervals []Interval) bool {
	for i := 0; i < len(intervals); i++ {
		for j := i + 1; j < len(intervals); j++ {
			a, b := intervals[i], intervals[j]
			if TimesOverlap(a.Start, a.End, b.Start, b.End) {
				return true
			}
		}
	}
	return false
}

func TestValidateBlocks_MatchesBruteForce(t *testing.T) {
	times := []string{"06:00", "07:15", "08:00", "09:30", "10:00", "12:45", "13:00", "18:00"}
	v := New()

	// Every pair and triple of well-formed intervals drawn from the grid
	var pool []Interval
	for i := 0; i < len(times); i++ {
		for j := i + 1; j < len(times); j++ {
			pool = append(pool, Interval{Title: times[i] + "-" + times[j], Start: times[i], End: times[j]})
		}
	}

	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			for k := j + 1; k < len(pool); k += 5 {
				set := []Interval{pool[i], pool[j], pool[k]}
				if got, want := v.Overlaps(set), bruteForceOverlap(set); got != want {
					t.Fatalf("sorted scan = %v, brute force = %v for %v", got, want, set)
				}
			}
		}
	}
}

func TestValidateBlocks_DegenerateInterval(t *testing.T) {
	v := New()

	tests := []struct {
		name     string
		interval Interval
		conflict ConflictType
	}{
		{"end equals start", Interval{Title: "Zero", Start: "09:00", End: "09:00"}, ConflictEmptyInterval},
		{"end before start", Interval{Title: "Backwards", Start: "10:00", End: "09:00"}, ConflictEmptyInterval},
		{"invalid hour", Interval{Title: "Late", Start: "23:00", End: "24:30"}, ConflictInvalidTime},
		{"garbage", Interval{Title: "Junk", Start: "soon", End: "later"}, ConflictInvalidTime},
		{"missing title", Interval{Title: " ", Start: "09:00", End: "10:00"}, ConflictMissingTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidateBlocks([]Interval{tt.interval})
			if !result.HasConflicts() {
				t.Fatal("expected a conflict")
			}
			if result.Conflicts[0].Type != tt.conflict {
				t.Errorf("conflict type = %s, want %s", result.Conflicts[0].Type, tt.conflict)
			}
			if result.HasOverlaps() {
				t.Error("a single interval cannot overlap")
			}
			if !apperrors.IsKind(result.Err(), apperrors.InvalidBlock) {
				t.Errorf("expected InvalidBlock error, got %v", result.Err())
			}
		})
	}
}

func TestValidationResult_ErrNamesTitles(t *testing.T) {
	v := New()
	result := v.ValidateBlocks([]Interval{
		{Title: "Gym", Start: "07:00", End: "08:00"},
		{Title: "Reading", Start: "07:30", End: "08:30"},
	})

	err := result.Err()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !apperrors.IsKind(err, apperrors.OverlapConflict) {
		t.Fatalf("expected OverlapConflict, got %v", err)
	}
	if !apperrors.Is(err, apperrors.ErrValidation) {
		t.Error("expected error to unwrap to ErrValidation")
	}
	if !strings.Contains(err.Error(), "Gym") || !strings.Contains(err.Error(), "Reading") {
		t.Errorf("error should name both blocks: %q", err.Error())
	}

	var ve *apperrors.ValidationError
	if !apperrors.As(err, &ve) {
		t.Fatal("expected *ValidationError")
	}
	if len(ve.Items) != 2 {
		t.Errorf("expected 2 items, got %v", ve.Items)
	}
	if result.Conflicts[0].TimeRange != "07:30-08:00" {
		t.Errorf("TimeRange = %q, want overlap window 07:30-08:00", result.Conflicts[0].TimeRange)
	}
}

func TestValidationResult_NoConflicts(t *testing.T) {
	v := New()
	result := v.ValidateBlocks([]Interval{{Title: "Walk", Start: "18:00", End: "18:30"}})

	if result.HasConflicts() {
		t.Errorf("unexpected conflicts: %s", result.FormatReport())
	}
	if result.Err() != nil {
		t.Errorf("Err() = %v, want nil", result.Err())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report %q", result.FormatReport())
	}
}
