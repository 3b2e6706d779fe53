package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/oversight/internal/camera"
	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/tui"
)

type TuiCmd struct {
	Device string `help:"Capture device: inbox, watch or command. Defaults to the configured device." enum:",inbox,watch,command" default:""`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	svc, err := ctx.Journal()
	if err != nil {
		return err
	}
	device, err := ctx.Device(c.Device, "")
	if err != nil {
		return err
	}

	// The TUI asks for camera access itself, so the authorizer never prompts.
	capability := camera.Capability{
		Auth:   camera.NewSettingsAuthorizer(ctx.Store, camera.NonInteractive{}, ctx.CameraEnabled()),
		Device: device,
	}

	p := tea.NewProgram(tui.NewModel(svc, ctx.Store, capability, ctx.ConfigFile), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
