package system

import (
	"fmt"

	"github.com/julianstephens/phaseflow/internal/cli"
)

type ValidateCmd struct {
	Phase string `help:"Phase ID to validate. Defaults to the active phase."`
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	phase, err := ctx.ResolvePhase(cmd.Phase)
	if err != nil {
		return err
	}

	reports, err := ctx.AuditPhase(phase)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Validating %s", phase.Name)))
	if len(reports) == 0 {
		fmt.Println(cli.SuccessStyle.Render("✓ No conflicts detected."))
		return nil
	}

	for _, r := range reports {
		fmt.Printf("\n%s\n", r.Label())
		for _, c := range r.Result.Conflicts {
			fmt.Printf("  - %s\n", c.Description)
		}
	}
	return fmt.Errorf("found %d block set(s) with conflicts", len(reports))
}
