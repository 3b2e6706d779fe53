package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/logger"
	"github.com/julianstephens/oversight/internal/models"
)

type DebugCmd struct {
	DBPath    *DebugDBPathCmd    `cmd:"" help:"Show database path."`
	DumpEntry *DebugDumpEntryCmd `cmd:"" help:"Dump entry metadata as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	output := map[string]string{
		"path":   ctx.Store.GetConfigPath(),
		"config": ctx.ConfigFile,
		"log":    logger.FilePath(),
	}
	return printJSON(output)
}

type DebugDumpEntryCmd struct {
	Day string `arg:"" help:"Day of the entry to dump (YYYY-MM-DD, today or yesterday)."`
}

// entryDump is an Entry without the photo bytes.
type entryDump struct {
	ID         string        `json:"id"`
	Day        string        `json:"day"`
	Question   string        `json:"question"`
	Photo      *models.Photo `json:"photo"`
	PhotoBytes int           `json:"photo_bytes"`
	Reflection *string       `json:"reflection"`
	CreatedAt  string        `json:"created_at"`
	UpdatedAt  string        `json:"updated_at"`
}

func (cmd *DebugDumpEntryCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Journal()
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(cmd.Day)
	if err != nil {
		return err
	}

	entry, err := svc.Entry(day)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("no entry found for %s", cmd.Day)
	}

	dump := entryDump{
		ID:        entry.ID,
		Day:       entry.DayKey(),
		Question:  entry.Question,
		CreatedAt: entry.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: entry.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if p, ok := entry.Photo.Get(); ok {
		dump.Photo = &p
		dump.PhotoBytes = p.Size()
	}
	if text, ok := entry.Reflection.Get(); ok {
		dump.Reflection = &text
	}
	return printJSON(dump)
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
