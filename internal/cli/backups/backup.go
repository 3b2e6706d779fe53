package backups

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/oversight/internal/backup"
	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/storage/sqlite"
)

var errNotSQLite = errors.New("backups are only supported for SQLite storage; use pg_dump for PostgreSQL")

func manager(ctx *cli.Context) (*backup.Manager, error) {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil, errNotSQLite
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if ctx.Clock != nil {
		mgr.WithClock(ctx.Clock)
	}
	return mgr, nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.BackupDir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		entries := "?"
		if b.Entries >= 0 {
			entries = fmt.Sprintf("%d", b.Entries)
		}
		fmt.Printf("  %s  %s  (%s, %s entries, %s)\n",
			b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path),
			humanize.Bytes(uint64(b.Size)), entries, humanize.RelTime(b.Timestamp, ctx.Now(), "ago", "from now"))
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.BackupDir())

	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Restore without asking for confirmation."`
}

// resolve finds the backup by absolute path, then relative to the working
// directory, then inside the backup directory.
func (c *BackupRestoreCmd) resolve(mgr *backup.Manager) (string, error) {
	backupPath := c.BackupFile
	if filepath.IsAbs(backupPath) {
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			return "", fmt.Errorf("backup file not found: %s", backupPath)
		}
		return backupPath, nil
	}
	if _, err := os.Stat(backupPath); err == nil {
		absPath, err := filepath.Abs(backupPath)
		if err != nil {
			return "", fmt.Errorf("failed to resolve backup path: %w", err)
		}
		return absPath, nil
	}
	possiblePath := filepath.Join(mgr.BackupDir(), c.BackupFile)
	if _, err := os.Stat(possiblePath); err == nil {
		return possiblePath, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", mgr.BackupDir())
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := c.resolve(mgr)
	if err != nil {
		return err
	}

	fmt.Println("⚠️  WARNING: This will replace your current database with the backup.")
	fmt.Println("⚠️  IMPORTANT: All oversight processes (including the TUI) must be stopped before restore.")
	fmt.Println("A backup of your current database will be created before restoring.")
	fmt.Printf("\nRestore from: %s\n", backupPath)

	if !c.Yes && !ctx.Confirm(context.Background(), "Restore this backup?", backupPath) {
		fmt.Println("Restore cancelled.")
		return nil
	}

	// Close the current store connection before restoring
	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	safety, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Println("✓ Database restored successfully!")
	if safety != "" {
		fmt.Printf("  Previous database saved as %s\n", filepath.Base(safety))
	}
	return nil
}
