package entries

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/export"
	"github.com/julianstephens/oversight/internal/journal"
	"github.com/julianstephens/oversight/internal/utils"
)

type ShowCmd struct {
	Day string `help:"Day to show (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Journal()
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(c.Day)
	if err != nil {
		return err
	}

	entry, err := svc.Entry(day)
	if err != nil {
		return err
	}
	if entry == nil {
		fmt.Printf("No entry for %s.\n", utils.DayKey(day, svc.Location()))
		fmt.Printf("Question for that day: %s\n", svc.QuestionFor(day))
		return nil
	}

	fmt.Printf("%s\n\n", entry.Day.Format("Monday, January 2, 2006"))
	fmt.Printf("  %s\n\n", entry.Question)
	printStatus(*entry)
	fmt.Printf("  Created %s\n", entry.CreatedAt.In(svc.Location()).Format("2006-01-02 15:04"))
	return nil
}

type PhotoExportCmd struct {
	Day string `help:"Day whose photo to export (YYYY-MM-DD, today or yesterday)." default:"today"`
	Out string `help:"Output file or directory." default:"." type:"path"`
}

func (c *PhotoExportCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Journal()
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(c.Day)
	if err != nil {
		return err
	}

	entry, err := svc.Entry(day)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("%w: %s", journal.ErrNoEntry, utils.DayKey(day, svc.Location()))
	}
	if !entry.HasPhoto() {
		return errors.New("that day has no photo")
	}

	path := c.Out
	if isDir(path) {
		path = filepath.Join(path, export.PhotoName(*entry))
	}
	if err := export.WritePhoto(*entry, path); err != nil {
		return err
	}
	fmt.Printf("✓ Photo written to %s\n", path)
	return nil
}
