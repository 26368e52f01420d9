package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/phaseflow/internal/logger"
)

var (
	// ErrValidation marks caller input that was rejected before any mutation
	ErrValidation = stderrors.New("validation failed")
	// ErrNotFound marks a missing record, or one the requesting user does not own
	ErrNotFound = stderrors.New("not found")
)

// ValidationKind identifies which validation rule rejected the input
type ValidationKind string

const (
	NoTemplateBlocks ValidationKind = "no_template_blocks"
	NoDatesToClone   ValidationKind = "no_dates_to_clone"
	InvalidScope     ValidationKind = "invalid_scope"
	EmptySelection   ValidationKind = "empty_selection"
	OverlapConflict  ValidationKind = "overlap_conflict"
	InvalidBlock     ValidationKind = "invalid_block"
	InvalidPolicy    ValidationKind = "invalid_policy"
	InvalidDate      ValidationKind = "invalid_date"
	InvalidInput     ValidationKind = "invalid_input"
)

// ValidationError is returned for structurally invalid input. It always
// unwraps to ErrValidation.
type ValidationError struct {
	Kind    ValidationKind
	Message string
	// Items names the entities involved, e.g. the titles of overlapping blocks
	Items []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validation builds a ValidationError with a formatted message
func Validation(kind ValidationKind, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a ValidationError of the given kind
func IsKind(err error, kind ValidationKind) bool {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve.Kind == kind
	}
	return false
}

// NotFound wraps ErrNotFound with the entity name and id
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, ErrNotFound)
}

// Is and As re-export the standard library helpers so callers need a single import
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if stderrors.As(err, &ve) && len(ve.Items) > 0 {
		return fmt.Sprintf("Error: %v (involves: %s)", err, strings.Join(ve.Items, ", "))
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
