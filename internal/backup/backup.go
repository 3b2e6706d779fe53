package backup

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/oversight/internal/clock"
	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/logger"
)

const timestampLayout = "20060102-150405"

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
	// Entries is the number of journal entries in the backup, or -1 when it
	// could not be counted.
	Entries int

	seq int
}

// Manager creates, lists, rotates and restores copies of a SQLite journal.
type Manager struct {
	dbPath    string
	backupDir string
	clock     clock.Clock
	keep      int
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		clock:     clock.RealClock{},
		keep:      constants.MaxBackups,
	}
}

// WithClock sets the clock used to name backups.
func (m *Manager) WithClock(c clock.Clock) *Manager {
	m.clock = c
	return m
}

func (m *Manager) BackupDir() string {
	return m.backupDir
}

// CreateBackup copies the database into the backup directory and prunes
// the oldest backups beyond the retention limit.
func (m *Manager) CreateBackup() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	logger.Info("Backup created", "path", path)
	return path, nil
}

func (m *Manager) create() (string, error) {
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.backupDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if err := m.vacuumInto(path); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	return path, nil
}

// nextPath returns an unused file name for the current time, adding a
// counter when several backups land in the same second.
func (m *Manager) nextPath() (string, error) {
	stamp := m.clock.Now().Format(timestampLayout)
	for i := 0; i <= 100; i++ {
		name := constants.BackupFilePrefix + stamp + constants.BackupFileSuffix
		if i > 0 {
			name = fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, i, constants.BackupFileSuffix)
		}
		path := filepath.Join(m.backupDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

func (m *Manager) vacuumInto(dest string) error {
	src, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	if err := ping(src); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file instead", "error", err)
		src.Close()
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// ListBackups returns the backups found on disk, newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	dirEntries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		ts, seq, ok := parseName(de.Name())
		if !ok {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(m.backupDir, de.Name())
		backups = append(backups, Info{
			Path:      path,
			Timestamp: ts,
			Size:      info.Size(),
			Entries:   countEntries(path),
			seq:       seq,
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].seq > backups[j].seq
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName extracts the timestamp from oversight-YYYYMMDD-HHMMSS[-N].db.
func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	seq := 0
	if len(stamp) > len(timestampLayout) {
		if stamp[len(timestampLayout)] != '-' {
			return time.Time{}, 0, false
		}
		n, err := strconv.Atoi(stamp[len(timestampLayout)+1:])
		if err != nil {
			return time.Time{}, 0, false
		}
		stamp, seq = stamp[:len(timestampLayout)], n
	}
	ts, err := time.ParseInLocation(timestampLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, seq, true
}

func (m *Manager) rotate() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("Removed old backup", "path", backups[i].Path)
	}
	return nil
}

// RestoreBackup replaces the database with backupPath. The current database
// is backed up first; its path is returned so the caller can report it.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := Verify(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety string
	if _, err := os.Stat(m.dbPath); err == nil {
		// Not rotated, so restoring never deletes the backup being restored.
		p, err := m.create()
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		safety = p
	}

	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return safety, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if rmErr := os.Remove(tempPath); rmErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tempPath, "error", rmErr)
		}
		return safety, fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("Database restored", "from", backupPath, "safety_backup", safety)
	return safety, nil
}

// Verify checks that path is a readable SQLite database with a journal.
func Verify(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := ping(db); err != nil {
		return err
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='entries'").Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no entries table")
	}
	return nil
}

func countEntries(path string) int {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return -1
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return -1
	}
	return n
}

func ping(db *sql.DB) error {
	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
