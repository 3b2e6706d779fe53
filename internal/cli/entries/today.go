package entries

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/models"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Journal()
	if err != nil {
		return err
	}
	today := svc.Today()

	fmt.Printf("%s\n\n", today.Day.Format("Monday, January 2, 2006"))
	if today.Question == "" {
		fmt.Println("No questions configured.")
	} else {
		fmt.Printf("  %s\n\n", today.Question)
	}

	if today.Entry == nil {
		fmt.Printf("Not answered yet. Run '%s capture' to add a photo.\n", constants.AppName)
		return nil
	}
	printStatus(*today.Entry)
	return nil
}

func printStatus(e models.Entry) {
	if p, ok := e.Photo.Get(); ok {
		fmt.Printf("✓ Photo: %s, %s (%s)\n", p.ContentType, humanize.Bytes(uint64(p.Size())), p.Source)
	} else {
		fmt.Println("○ Photo: none")
	}
	if text, ok := e.Reflection.Get(); ok {
		if text == "" {
			fmt.Println("✓ Reflection: (empty)")
		} else {
			fmt.Printf("✓ Reflection: %s\n", text)
		}
	} else {
		fmt.Println("○ Reflection: none")
	}
	fmt.Printf("  Updated %s\n", humanize.Time(e.UpdatedAt))
}
