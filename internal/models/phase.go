package models

import (
	"time"

	"github.com/julianstephens/phaseflow/internal/constants"
)

// User is the local shadow of an identity supplied by the session layer
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Phase is a bounded calendar period with a declared intention
type Phase struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	StartDate     time.Time  `json:"start_date"` // local midnight, inclusive
	EndDate       time.Time  `json:"end_date"`   // local midnight, inclusive
	DurationDays  int        `json:"duration_days"`
	Why           string     `json:"why"`
	Outcome       string     `json:"outcome"`
	IsActive      bool       `json:"is_active"`
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Contains reports whether day's calendar date falls within the phase's
// inclusive date range. Dates are compared by key, so the zone day was
// built in does not matter.
func (p Phase) Contains(day time.Time) bool {
	key := day.Format(constants.DateFormat)
	return key >= p.StartDate.Format(constants.DateFormat) && key <= p.EndDate.Format(constants.DateFormat)
}

// Category groups routine blocks; names are unique per user
type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
