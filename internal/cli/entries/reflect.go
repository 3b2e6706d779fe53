package entries

import (
	"fmt"
	"strings"

	"github.com/julianstephens/oversight/internal/cli"
)

type ReflectCmd struct {
	Day  string `help:"Day to reflect on (YYYY-MM-DD, today or yesterday)." default:"today"`
	Text string `arg:"" help:"Reflection text. An empty string clears it to empty."`
}

func (c *ReflectCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Journal()
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(c.Day)
	if err != nil {
		return err
	}

	entry, err := svc.SetReflection(day, strings.TrimSpace(c.Text))
	if err != nil {
		return fmt.Errorf("failed to save reflection: %w", err)
	}
	fmt.Printf("✓ Reflection saved for %s\n", entry.DayKey())
	return nil
}
