package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/logger"
)

// ErrTrayNotRunning means no tray app is listening for notifications.
var ErrTrayNotRunning = errors.New(constants.TrayAppExecutable + " is not running")

// Payload is the JSON body the tray app accepts.
type Payload struct {
	Title      string `json:"title,omitempty"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// Notifier delivers desktop notifications through the tray app's local
// webhook. The tray app advertises itself with a "port|pid|secret" lockfile.
type Notifier struct {
	configDir   func() (string, error)
	findProcess func(int) (ps.Process, error)
	client      *http.Client
	retries     int
	retryDelay  time.Duration
}

func New() *Notifier {
	return &Notifier{
		configDir:   os.UserConfigDir,
		findProcess: ps.FindProcess,
		client:      &http.Client{Timeout: 5 * time.Second},
		retries:     constants.NotifyMaxRetries,
		retryDelay:  constants.NotifyRetryDelay,
	}
}

// Notify sends title and text to the tray app, retrying transient failures.
func (n *Notifier) Notify(ctx context.Context, title, text string) error {
	dir, err := n.TrayConfigDir()
	if err != nil {
		return err
	}
	port, secret, err := n.readLockfile(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := Payload{Title: title, Text: text, DurationMs: constants.NotificationDurationMs}
	for attempt := 1; ; attempt++ {
		err = n.send(ctx, port, secret, payload)
		if err == nil {
			return nil
		}
		if attempt >= n.retries || ctx.Err() != nil {
			return err
		}
		logger.Debug("Notification failed, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.retryDelay):
		}
	}
}

// TrayConfigDir returns the tray app's config directory, honouring a
// lockfile_dir override in its settings.json.
func (n *Notifier) TrayConfigDir() (string, error) {
	configDir, err := n.configDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayDir, "settings.json"))
	if err != nil {
		return trayDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err != nil {
		logger.Warn("Ignoring unreadable tray settings", "error", err)
		return trayDir, nil
	}
	if dir := store.Settings.LockfileDir; dir != nil && *dir != "" {
		return *dir, nil
	}
	return trayDir, nil
}

func (n *Notifier) readLockfile(path string) (port, secret string, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port = strings.TrimSpace(parts[0])
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret = strings.TrimSpace(parts[2])
	if secret == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := n.findProcess(pid)
	if err != nil || process == nil {
		return "", "", ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayAppExecutable) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayAppExecutable, process.Executable())
	}
	return port, secret, nil
}

func (n *Notifier) send(ctx context.Context, port, secret string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://127.0.0.1:"+port, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Oversight-Secret", secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}
