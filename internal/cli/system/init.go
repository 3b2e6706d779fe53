package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/config"
	"github.com/julianstephens/oversight/internal/storage"
	"github.com/julianstephens/oversight/internal/storage/postgres"
	"github.com/julianstephens/oversight/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to migrate entries from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	// If force flag is provided, delete existing database
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	// Initialize destination store
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized oversight storage at: %s\n", ctx.Store.GetConfigPath())

	if ctx.ConfigFile != "" {
		if err := config.Init(ctx.ConfigFile, config.Default(), false); err == nil {
			fmt.Printf("Wrote default config to: %s\n", ctx.ConfigFile)
		} else if _, statErr := os.Stat(ctx.ConfigFile); statErr != nil {
			return err
		}
	}

	// If source is provided, migrate data
	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return errors.New("--force is only supported for SQLite storage")
	}
	dbPath := ctx.Store.GetConfigPath()
	// Don't delete if it's the source (user error protection)
	if c.Source != "" {
		absDbPath, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDbPath
		}
		absSource, err := filepath.Abs(c.Source)
		if err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		// Database exists, close it first to prevent file locking issues
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, sourcePath string) error {
	var sourceStore storage.Provider
	if postgres.IsConnString(sourcePath) {
		if err := postgres.ValidateConnString(sourcePath); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return err
		}
		sourceStore = postgres.New(sourcePath)
	} else {
		sourceStore = sqlite.NewStore(config.ExpandHome(sourcePath))
	}

	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	fmt.Println("  Migrating settings...")
	settings, err := sourceStore.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	// Both sides must agree on the timezone or day keys would shift.
	loc := settings.Location()
	sourceStore.SetLocation(loc)
	ctx.Store.SetLocation(loc)
	ctx.ResetJournal()

	fmt.Println("  Migrating entries...")
	entries, err := sourceStore.FetchAll()
	if err != nil {
		return fmt.Errorf("failed to get entries from source: %w", err)
	}
	for _, entry := range entries {
		if err := ctx.Store.Upsert(entry); err != nil {
			return fmt.Errorf("failed to add entry for %s: %w", entry.DayKey(), err)
		}
	}
	fmt.Printf("    Migrated %d entries\n", len(entries))

	return nil
}
