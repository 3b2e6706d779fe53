package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/logger"
	"github.com/julianstephens/oversight/internal/notifier"
)

// RemindCmd is meant to run from cron. It nudges the user once the reminder
// time has passed and today's question still has no photo.
type RemindCmd struct {
	DryRun bool `help:"Print the reminder to stdout instead of sending it."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	svc, err := ctx.Journal()
	if err != nil {
		return err
	}

	question, due := svc.Reminder(settings)
	if !due {
		if c.DryRun {
			fmt.Println("No reminder due.")
		}
		return nil
	}

	if c.DryRun {
		fmt.Println("[DryRun] Today's question: " + question)
		return nil
	}

	n := ctx.Notifier
	if n == nil {
		n = notifier.New()
	}
	if err := n.Notify(context.Background(), "Today's question", question); err != nil {
		logger.Warn("Failed to send reminder", "error", err)
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
