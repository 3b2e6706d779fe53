package entries

import (
	"context"
	"fmt"

	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/utils"
)

type DeleteCmd struct {
	Day   string `help:"Day to delete (YYYY-MM-DD, today or yesterday)." required:""`
	Photo bool   `help:"Remove only the photo and keep the reflection."`
	Force bool   `short:"f" help:"Delete without asking for confirmation."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Journal()
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(c.Day)
	if err != nil {
		return err
	}
	key := utils.DayKey(day, svc.Location())

	entry, err := svc.Entry(day)
	if err != nil {
		return err
	}
	if entry == nil {
		fmt.Printf("No entry for %s.\n", key)
		return nil
	}

	what := "the entry"
	if c.Photo {
		what = "the photo"
	}
	if !c.Force && !ctx.Confirm(context.Background(), fmt.Sprintf("Delete %s for %s?", what, key), "This cannot be undone.") {
		fmt.Println("Delete cancelled.")
		return nil
	}

	if c.Photo {
		if _, err := svc.ClearPhoto(day); err != nil {
			return err
		}
		fmt.Printf("✓ Photo removed from %s\n", key)
		return nil
	}
	if err := svc.Delete(day); err != nil {
		return err
	}
	fmt.Printf("✓ Entry for %s deleted\n", key)
	return nil
}
