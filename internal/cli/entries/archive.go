package entries

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/models"
)

type ArchiveCmd struct {
	Limit int `help:"Show at most this many entries (0 for all)." default:"0"`
}

func (c *ArchiveCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Journal()
	if err != nil {
		return err
	}

	entries := svc.Archive()
	if len(entries) == 0 {
		fmt.Println("No entries yet.")
		return nil
	}
	total := len(entries)
	if c.Limit > 0 && c.Limit < total {
		entries = entries[:c.Limit]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tPHOTO\tQUESTION\tREFLECTION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.DayKey(), photoSummary(e), truncate(e.Question, 48), truncate(e.ReflectionText(), 32))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(entries) < total {
		fmt.Printf("\nShowing %d of %d entries.\n", len(entries), total)
	}
	return nil
}

func photoSummary(e models.Entry) string {
	p, ok := e.Photo.Get()
	if !ok {
		return "-"
	}
	return humanize.Bytes(uint64(p.Size()))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
