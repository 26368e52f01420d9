package routines

import (
	"fmt"

	"github.com/julianstephens/phaseflow/internal/cli"
	"github.com/julianstephens/phaseflow/internal/models"
)

type TemplateCmd struct {
	Set  TemplateSetCmd  `cmd:"" help:"Replace the phase template from a YAML blocks file."`
	List TemplateListCmd `cmd:"" help:"Show the phase template." default:"1"`
}

type TemplateSetCmd struct {
	File  string `short:"f" required:"" type:"existingfile" help:"YAML file with the template blocks."`
	Phase string `help:"Phase ID. Defaults to the active phase."`
}

func (c *TemplateSetCmd) Run(ctx *cli.Context) error {
	specs, err := cli.LoadBlockFile(c.File)
	if err != nil {
		return err
	}
	phase, err := ctx.ResolvePhase(c.Phase)
	if err != nil {
		return err
	}

	blocks, err := ctx.Routines.SaveTemplate(ctx.Ctx, phase.ID, ctx.UserID, specs)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Saved %d template block(s) for %q\n", len(blocks), phase.Name)
	fmt.Println("  Run 'phaseflow clone' to schedule them across the phase.")
	return nil
}

type TemplateListCmd struct {
	Phase string `help:"Phase ID. Defaults to the active phase."`
}

func (c *TemplateListCmd) Run(ctx *cli.Context) error {
	phase, err := ctx.ResolvePhase(c.Phase)
	if err != nil {
		return err
	}
	blocks, err := ctx.Routines.Template(ctx.Ctx, phase.ID, ctx.UserID)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Template for %s", phase.Name)))
	if len(blocks) == 0 {
		fmt.Println(cli.MutedStyle.Render("No template blocks. Add some with 'phaseflow template set --file blocks.yaml'."))
		return nil
	}
	categories, err := categoryNames(ctx)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		printBlock(b, categories[b.CategoryID], "")
	}
	return nil
}

func categoryNames(ctx *cli.Context) (map[string]string, error) {
	cats, err := ctx.Store.ListCategories(ctx.Ctx, ctx.UserID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names, nil
}

func printBlock(b models.RoutineBlock, category, status string) {
	line := fmt.Sprintf("  %s-%s  %-24s", b.StartTime, b.EndTime, b.Title)
	if category != "" {
		line += " " + cli.MutedStyle.Render("["+category+"]")
	}
	if status != "" {
		line += " " + status
	}
	fmt.Println(line)
	if b.Note != "" {
		fmt.Println("               " + cli.MutedStyle.Render(b.Note))
	}
}
