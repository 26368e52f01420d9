package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      stderrors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name: "validation error with items",
			err: &ValidationError{
				Kind:    OverlapConflict,
				Message: "blocks overlap",
				Items:   []string{"Gym", "Reading"},
			},
			expected: "Error: blocks overlap (involves: Gym, Reading)",
		},
		{
			name:     "validation error without items",
			err:      Validation(EmptySelection, "no dates selected"),
			expected: "Error: no dates selected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("failed to load %s", "phase")
	if got != "Error: failed to load phase" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestValidationErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("clone: %w", Validation(NoTemplateBlocks, "phase has no template blocks"))

	if !Is(err, ErrValidation) {
		t.Error("expected wrapped validation error to match ErrValidation")
	}
	if Is(err, ErrNotFound) {
		t.Error("validation error must not match ErrNotFound")
	}
	if !IsKind(err, NoTemplateBlocks) {
		t.Error("expected IsKind to find NoTemplateBlocks")
	}
	if IsKind(err, NoDatesToClone) {
		t.Error("IsKind matched the wrong kind")
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound("phase", "abc")
	if !Is(err, ErrNotFound) {
		t.Fatal("expected ErrNotFound")
	}
	if !strings.Contains(err.Error(), `phase "abc"`) {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(stderrors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

// TestFatal_NilError tests that Fatal does nothing when passed a nil error
func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
