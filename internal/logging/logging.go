// Package logging writes per-session JSONL mutation logs.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Event types recorded by the session log.
const (
	EventLoad      = "load"
	EventAdd       = "add"
	EventToggle    = "toggle"
	EventRemove    = "remove"
	EventSaveError = "save_error"
)

// Event is one session log line.
type Event struct {
	Time   time.Time `json:"time"`
	Type   string    `json:"type"`
	TaskID int64     `json:"task_id,omitempty"`
	Text   string    `json:"text,omitempty"`
	Count  int       `json:"count,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// SessionLogger appends events to a per-session JSONL file. All methods are
// nil-safe so callers can disable logging by passing a nil logger.
type SessionLogger struct {
	Dir       string
	SessionID string
	LogPath   string

	file *os.File
	enc  *json.Encoder
}

// NewSessionLogger creates the session directory and log file under baseDir.
func NewSessionLogger(baseDir string) (*SessionLogger, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("log base dir is empty")
	}

	dir := filepath.Join(baseDir, "sessions")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := sessionID()
	path := filepath.Join(dir, fmt.Sprintf("%s.jsonl", id))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &SessionLogger{
		Dir:       dir,
		SessionID: id,
		LogPath:   path,
		file:      file,
		enc:       json.NewEncoder(file),
	}, nil
}

// Log appends one event. The timestamp is filled in when unset.
func (l *SessionLogger) Log(event Event) error {
	if l == nil || l.enc == nil {
		return nil
	}
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	if err := l.enc.Encode(event); err != nil {
		return fmt.Errorf("write log event: %w", err)
	}
	return nil
}

// Close closes the log file.
func (l *SessionLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

func sessionID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}

// FindLatestLog returns the newest JSONL log in the session directory under
// baseDir, or "" when none exist yet.
func FindLatestLog(baseDir string) (string, error) {
	dir := filepath.Join(baseDir, "sessions")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read log dir: %w", err)
	}

	var latest string
	var latestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latest = filepath.Join(dir, entry.Name())
		}
	}
	return latest, nil
}
