package camera

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/logger"
	"github.com/julianstephens/oversight/internal/models"
)

// OutputPlaceholder in a capture command is replaced with the file the tool
// must write. Without it the path is appended as the last argument.
const OutputPlaceholder = "{output}"

// CommandDevice runs an external capture tool, e.g.
// `fswebcam --no-banner -r 1280x720 {output}`.
type CommandDevice struct {
	Command string
}

func (d CommandDevice) args(output string) []string {
	fields := strings.Fields(d.Command)
	replaced := false
	for i, f := range fields {
		if strings.Contains(f, OutputPlaceholder) {
			fields[i] = strings.ReplaceAll(f, OutputPlaceholder, output)
			replaced = true
		}
	}
	if !replaced {
		fields = append(fields, output)
	}
	return fields
}

func (d CommandDevice) Available() bool {
	fields := strings.Fields(d.Command)
	if len(fields) == 0 {
		return false
	}
	_, err := exec.LookPath(fields[0])
	return err == nil
}

func (d CommandDevice) Capture(ctx context.Context) (models.Photo, error) {
	dir, err := os.MkdirTemp("", constants.AppName+"-capture-")
	if err != nil {
		return models.Photo{}, fmt.Errorf("failed to create capture directory: %w", err)
	}
	defer os.RemoveAll(dir)

	output := filepath.Join(dir, "capture.jpg")
	args := d.args(output)
	if len(args) < 2 {
		return models.Photo{}, ErrUnavailable
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return models.Photo{}, ErrCancelled
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Error("Capture command failed", "command", args[0], "output", string(out))
		}
		return models.Photo{}, fmt.Errorf("capture command %s failed: %w", args[0], err)
	}

	return ReadPhoto(output, "command:"+filepath.Base(args[0]))
}
