package entries

import (
	"fmt"
	"os"

	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/export"
)

type ExportCmd struct {
	Out string `help:"Directory to write photos and index.yaml to." required:"" type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	// Day keys are rendered in the settings timezone.
	if _, err := ctx.Journal(); err != nil {
		return err
	}
	entries, err := ctx.Store.FetchAll()
	if err != nil {
		return err
	}

	res, err := export.Export(entries, c.Out, ctx.Now())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Printf("✓ %s\n", res)
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
