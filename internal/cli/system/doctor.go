package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/oversight/internal/backup"
	"github.com/julianstephens/oversight/internal/camera"
	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/config"
	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/storage/sqlite"
	"github.com/julianstephens/oversight/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
	// warnOnly checks never fail the run.
	warnOnly bool
	run      func(*cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Settings", needsDB: true, run: checkSettings},
	{name: "Entry integrity", needsDB: true, run: checkEntryIntegrity},
	{name: "Config file", run: checkConfig},
	{name: "Camera device", warnOnly: true, run: checkCameraDevice},
	{name: "Clock/timezone", run: func(*cli.Context) error { return checkClockTimezone() }},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	// For SQLite, also try a simple query
	if sqliteStore, ok := ctx.Store.(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaStatus()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaStatus()
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run '%s migrate')", current, latest, constants.AppName)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}

	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone %q", settings.Timezone)
	}
	if !utils.ValidateTimeFormat(settings.ReminderAfter) {
		return fmt.Errorf("invalid reminder_after %q", settings.ReminderAfter)
	}
	if _, err := camera.ParsePermission(settings.CameraPermission); err != nil {
		return err
	}
	return nil
}

func checkEntryIntegrity(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		// PostgreSQL enforces these with column types.
		return nil
	}
	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	queries := []struct {
		what  string
		query string
	}{
		{"invalid day format", `SELECT COUNT(*) FROM entries WHERE day NOT GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]'`},
		{"corrupted timestamps", `SELECT COUNT(*) FROM entries WHERE created_at = '' OR updated_at = ''`},
		{"photos without a content type", `SELECT COUNT(*) FROM entries WHERE photo IS NOT NULL AND (photo_type IS NULL OR photo_type = '')`},
		{"empty photos", `SELECT COUNT(*) FROM entries WHERE photo IS NOT NULL AND length(photo) = 0`},
	}
	for _, q := range queries {
		var n int
		if err := db.QueryRow(q.query).Scan(&n); err != nil {
			return fmt.Errorf("failed to check %s: %w", q.what, err)
		}
		if n > 0 {
			return fmt.Errorf("found %d entries with %s", n, q.what)
		}
	}
	return nil
}

func checkConfig(ctx *cli.Context) error {
	if ctx.ConfigFile == "" {
		return nil
	}
	_, err := config.Load(ctx.ConfigFile)
	return err
}

func checkCameraDevice(ctx *cli.Context) error {
	device, err := ctx.Device("", "")
	if err != nil {
		return err
	}
	if !device.Available() {
		return fmt.Errorf("configured camera device is not available (check [camera] in %s)", ctx.ConfigFile)
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
