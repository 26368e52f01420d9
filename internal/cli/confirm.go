package cli

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ErrConfirmationRequired is returned when a destructive command runs
// without a terminal and without --yes.
var ErrConfirmationRequired = errors.New("refusing to continue without confirmation; pass --yes to skip the prompt")

var (
	isInteractive = func() bool {
		fd := os.Stdin.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}

	askConfirm = func(title, description string) (bool, error) {
		var ok bool
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(title).
					Description(description).
					Affirmative("Yes").
					Negative("No").
					Value(&ok),
			),
		).WithTheme(huh.ThemeDracula()).Run()
		return ok, err
	}
)

// Confirm asks the user to approve a destructive action. assumeYes skips
// the prompt.
func Confirm(assumeYes bool, title, description string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !isInteractive() {
		return false, ErrConfirmationRequired
	}
	ok, err := askConfirm(title, description)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
