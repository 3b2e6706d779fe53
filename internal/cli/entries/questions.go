package entries

import (
	"fmt"

	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/utils"
)

type QuestionsCmd struct {
	Day string `help:"Show only the question for this day (YYYY-MM-DD, today or yesterday)."`
}

func (c *QuestionsCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Journal()
	if err != nil {
		return err
	}

	if c.Day != "" {
		day, err := ctx.ParseDay(c.Day)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", utils.DayKey(day, svc.Location()), svc.QuestionFor(day))
		return nil
	}

	bank := svc.Questions()
	if len(bank) == 0 {
		fmt.Println("No questions configured.")
		return nil
	}
	current := svc.QuestionIndex(ctx.Now())
	for i, q := range bank {
		marker := " "
		if i == current {
			marker = "→"
		}
		fmt.Printf("%s %2d. %s\n", marker, i+1, q)
	}
	return nil
}
