package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gofrs/flock"
)

var unsafeLockChars = regexp.MustCompile(`[^\w\-.]`)

// InstanceLock guards against two bot processes monitoring the same server
type InstanceLock struct {
	lockFile *flock.Flock
	lockPath string
}

// sanitizeLockName turns a server key such as play.example.net:25565 into a safe filename
func sanitizeLockName(name string) string {
	sanitized := strings.ReplaceAll(name, ":", "--")
	sanitized = strings.ReplaceAll(sanitized, "/", "--")
	sanitized = unsafeLockChars.ReplaceAllString(sanitized, "-")

	// Avoid hidden files
	sanitized = strings.Trim(sanitized, ".-")
	if sanitized == "" {
		sanitized = "default"
	}
	return sanitized
}

// NewInstanceLock creates a lock at lockPath, or in the temp directory named after
// serverKey when lockPath is empty
func NewInstanceLock(lockPath, serverKey string) (*InstanceLock, error) {
	if lockPath == "" {
		lockDir := filepath.Join(os.TempDir(), "mcmonitor")
		if err := os.MkdirAll(lockDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create lock directory: %w", err)
		}
		lockPath = filepath.Join(lockDir, sanitizeLockName(serverKey)+".lock")
	}

	return &InstanceLock{
		lockFile: flock.New(lockPath),
		lockPath: lockPath,
	}, nil
}

// TryLock acquires the lock without blocking; it fails when another instance holds it
func (l *InstanceLock) TryLock() error {
	locked, err := l.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to try lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another mcmonitor instance is already running (lock %s)", l.lockPath)
	}
	return nil
}

// Unlock releases the lock and removes the lock file
func (l *InstanceLock) Unlock() error {
	if err := l.lockFile.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock: %w", err)
	}
	if err := os.Remove(l.lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

func (l *InstanceLock) Path() string {
	return l.lockPath
}
