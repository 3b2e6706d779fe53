package entries

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/julianstephens/oversight/internal/camera"
	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/journal"
	"github.com/julianstephens/oversight/internal/models"
)

type CaptureCmd struct {
	File       string  `help:"Import this image file instead of using the configured device." type:"existingfile"`
	Device     string  `help:"Override the configured camera device." enum:",inbox,watch,command" default:""`
	Reflection *string `help:"Reflection to save with the photo."`
	Yes        bool    `short:"y" help:"Save without asking for confirmation."`
}

func (c *CaptureCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return c.run(sigCtx, ctx)
}

// run captures under runCtx; cancelling it dismisses the capture.
func (c *CaptureCmd) run(runCtx context.Context, ctx *cli.Context) error {
	svc, err := ctx.Journal()
	if err != nil {
		return err
	}
	device, err := ctx.Device(c.Device, c.File)
	if err != nil {
		return err
	}
	if _, ok := device.(camera.WatchDevice); ok {
		fmt.Println("Waiting for a new photo in the inbox (Ctrl+C to cancel)...")
	}

	entry, err := svc.Capture(runCtx, ctx.Capability(device), c.confirmFunc(ctx))
	if err != nil {
		if errors.Is(err, camera.ErrCancelled) {
			fmt.Println("Capture cancelled. Nothing was saved.")
			if !c.Yes && !ctx.Interactive() {
				fmt.Println("Not running in a terminal: pass --yes to save without confirmation.")
			}
			return nil
		}
		return err
	}

	fmt.Printf("✓ Saved photo for %s\n", entry.DayKey())
	return nil
}

func (c *CaptureCmd) confirmFunc(ctx *cli.Context) journal.ConfirmFunc {
	if c.Yes {
		return func(_ context.Context, _ string, _ models.Photo, existing *models.Entry) (models.Optional[string], bool, error) {
			return c.reflection(existing), true, nil
		}
	}
	if ctx.Interactive() && c.Reflection == nil {
		return ConfirmForm
	}
	return func(fctx context.Context, question string, photo models.Photo, existing *models.Entry) (models.Optional[string], bool, error) {
		title := "Save this photo?"
		if existing != nil && existing.HasPhoto() {
			title = "Replace today's photo?"
		}
		ok := ctx.Confirm(fctx, title, describePhoto(question, photo))
		return c.reflection(existing), ok, nil
	}
}

// reflection returns the --reflection flag, falling back to the existing
// entry's reflection so a re-capture does not erase it.
func (c *CaptureCmd) reflection(existing *models.Entry) models.Optional[string] {
	if c.Reflection != nil {
		return models.Some(*c.Reflection)
	}
	if existing != nil {
		return existing.Reflection
	}
	return models.None[string]()
}
