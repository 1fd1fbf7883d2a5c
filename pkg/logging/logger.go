// Package logging provides structured debug logging for mnemo
// components. All logs for one process invocation land in a single
// session-specific file under ~/.mnemo/logs/.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger writes leveled, timestamped entries for one component.
// All methods write unconditionally; there is no level filtering.
type Logger struct {
	sessionID string
	component string
	file      *os.File
	logger    *log.Logger
	mu        sync.Mutex
	logPath   string
	closeOnce sync.Once
}

var (
	sessionID     string
	sessionIDOnce sync.Once
)

// SessionID returns the process-wide session identifier shared by
// every logger in this invocation.
func SessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// DefaultDir is where session log files are stored.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("logging: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".mnemo", "logs"), nil
}

// New creates a logger for a component, writing to the default log
// directory. When file logging cannot be set up it returns a fallback
// logger on stderr along with the error, so callers never lose logs.
func New(component string) (*Logger, error) {
	dir, err := DefaultDir()
	if err != nil {
		return newFallback(component, err), err
	}
	return NewAt(dir, component)
}

// NewAt creates a logger writing under an explicit directory. Used by
// New and by tests that must not touch the real home directory.
func NewAt(dir, component string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		err = fmt.Errorf("logging: create log directory: %w", err)
		return newFallback(component, err), err
	}
	sessID := SessionID()
	logPath := filepath.Join(dir, fmt.Sprintf("%s-mnemo.log", sessID))

	// Append mode: multiple components share the session file.
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		err = fmt.Errorf("logging: open log file: %w", err)
		return newFallback(component, err), err
	}

	return &Logger{
		sessionID: sessID,
		component: component,
		file:      file,
		logger:    log.New(file, "", 0),
		logPath:   logPath,
	}, nil
}

func newFallback(component string, err error) *Logger {
	logger := log.New(os.Stderr, fmt.Sprintf("[%s] ", component), log.LstdFlags)
	logger.Printf("WARNING: file logging unavailable, using stderr: %v", err)
	return &Logger{
		sessionID: SessionID(),
		component: component,
		logger:    logger,
	}
}

func (l *Logger) write(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, fmt.Sprintf(format, v...))
}

func (l *Logger) Debugf(format string, v ...interface{}) { l.write("DEBUG", format, v...) }
func (l *Logger) Infof(format string, v ...interface{})  { l.write("INFO", format, v...) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.write("WARN", format, v...) }
func (l *Logger) Errorf(format string, v ...interface{}) { l.write("ERROR", format, v...) }

// Writer exposes the underlying sink for components that need an
// io.Writer.
func (l *Logger) Writer() io.Writer {
	if l.file != nil {
		return l.file
	}
	return os.Stderr
}

// LogPath returns the session log file path, empty in fallback mode.
func (l *Logger) LogPath() string { return l.logPath }

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
