package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/phaseflow/internal/constants"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/utils"
)

var userCounter atomic.Int64

func NewTestUser() models.User {
	n := userCounter.Add(1)
	return models.User{
		ID:        fmt.Sprintf("user-%d-%s", n, uuid.New().String()[:8]),
		Name:      fmt.Sprintf("Test User %d", n),
		CreatedAt: time.Now().UTC(),
	}
}

func NewTestCategory(userID, name string) models.Category {
	return models.Category{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Phase options
type PhaseOption func(*models.Phase)

func WithPhaseName(name string) PhaseOption {
	return func(p *models.Phase) {
		p.Name = name
	}
}

func WithActive() PhaseOption {
	return func(p *models.Phase) {
		p.IsActive = true
	}
}

func WithStreaks(current, longest int) PhaseOption {
	return func(p *models.Phase) {
		p.CurrentStreak = current
		p.LongestStreak = longest
	}
}

func NewTestPhase(userID string, start, end time.Time, opts ...PhaseOption) models.Phase {
	p := models.Phase{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         "Test Phase",
		StartDate:    utils.Day(start),
		EndDate:      utils.Day(end),
		DurationDays: utils.DaysBetween(start, end),
		Why:          "build the habit",
		Outcome:      "a steadier routine",
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Block options
type BlockOption func(*models.RoutineBlock)

func WithNote(note string) BlockOption {
	return func(b *models.RoutineBlock) {
		b.Note = note
	}
}

func WithColor(color string) BlockOption {
	return func(b *models.RoutineBlock) {
		b.Color = color
	}
}

func newBlock(phaseID, categoryID, title, start, end string, opts []BlockOption) models.RoutineBlock {
	b := models.RoutineBlock{
		ID:         uuid.New().String(),
		PhaseID:    phaseID,
		CategoryID: categoryID,
		Title:      title,
		StartTime:  start,
		EndTime:    end,
		Color:      constants.DefaultBlockColor,
		CreatedAt:  time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func NewTemplateBlock(phaseID, categoryID, title, start, end string, opts ...BlockOption) models.RoutineBlock {
	b := newBlock(phaseID, categoryID, title, start, end, opts)
	b.IsTemplate = true
	return b
}

func NewDatedBlock(phaseID, categoryID, title, start, end string, date time.Time, opts ...BlockOption) models.RoutineBlock {
	b := newBlock(phaseID, categoryID, title, start, end, opts)
	d := utils.Day(date)
	b.Date = &d
	return b
}

func NewExecution(block models.RoutineBlock, status models.ExecutionStatus) models.RoutineExecution {
	return models.RoutineExecution{
		ID:             uuid.New().String(),
		RoutineBlockID: block.ID,
		PhaseID:        block.PhaseID,
		Date:           *block.Date,
		Status:         status,
		UpdatedAt:      time.Now().UTC(),
	}
}
