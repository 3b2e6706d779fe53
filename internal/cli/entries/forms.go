package entries

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/oversight/internal/camera"
	"github.com/julianstephens/oversight/internal/journal"
	"github.com/julianstephens/oversight/internal/models"
)

func describePhoto(question string, photo models.Photo) string {
	return fmt.Sprintf("%s\n\n%s, %s from %s", question, photo.ContentType, humanize.Bytes(uint64(photo.Size())), photo.Source)
}

// ConfirmForm shows the question and the captured photo's details, asks
// for a reflection and whether to keep the photo.
func ConfirmForm(ctx context.Context, question string, photo models.Photo, existing *models.Entry) (models.Optional[string], bool, error) {
	var text string
	if existing != nil {
		text = existing.ReflectionText()
	}
	save := true

	title := "Save this photo?"
	if existing != nil && existing.HasPhoto() {
		title = "Replace today's photo?"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Today's question").
				Description(describePhoto(question, photo)),
			huh.NewText().
				Title("Reflection").
				Placeholder("Optional").
				CharLimit(2000).
				Value(&text),
			huh.NewConfirm().
				Title(title).
				Affirmative("Save").
				Negative("Discard").
				Value(&save),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return models.None[string](), false, camera.ErrCancelled
		}
		return models.None[string](), false, err
	}
	if !save {
		return models.None[string](), false, nil
	}

	return journal.ReflectionFrom(text, existing), true, nil
}
