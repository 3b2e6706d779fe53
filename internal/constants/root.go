package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

// CameraDeviceType names a configured capture device
type CameraDeviceType string

const (
	AppName            = "oversight"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/oversight/oversight.db"
	DefaultConfigFile  = "~/.config/oversight/config.toml"
	DefaultInboxDir    = "~/Pictures/oversight"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "oversight-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "oversight-notifier.lock"
	NotificationDurationMs = 8000
	TrayAppIdentifier      = "com.julianstephens.oversight"
	TrayAppExecutable      = "oversight-tray"

	// Photo constants
	MaxPhotoBytes   = 20 << 20
	ExportIndexName = "index.yaml"

	// Camera devices
	CameraDeviceInbox   CameraDeviceType = "inbox"
	CameraDeviceWatch   CameraDeviceType = "watch"
	CameraDeviceCommand CameraDeviceType = "command"
)

// Session States
const (
	StateToday SessionState = iota
	StateArchive
	StateSettings
	StateEntryDetail
	StateConfirm
	StateReflect
	StatePermission
	StateConfirmDelete
	StateEditSettings
)

// DefaultInboxPatterns are matched against file names inside the camera inbox.
var DefaultInboxPatterns = []string{"*.{jpg,jpeg,JPG,JPEG}", "*.{png,PNG}", "*.{heic,HEIC}", "*.{webp,WEBP}"}
