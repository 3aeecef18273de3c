// Package log keeps a JSON history of lookups, one file per CLI session,
// under ~/.semv/logs.
package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type LookupKind string

const (
	KindMovie   LookupKind = "movie"
	KindSeries  LookupKind = "series"
	KindDrive   LookupKind = "drive"
	KindSnippet LookupKind = "snippet"
)

type LookupLog struct {
	ID         string     `json:"id"`
	Timestamp  time.Time  `json:"timestamp"`
	Kind       LookupKind `json:"kind"`
	Input      string     `json:"input"`
	Title      string     `json:"title,omitempty"`
	FileIDs    []string   `json:"file_ids,omitempty"`
	FilesFound int        `json:"files_found"`
	DurationMS int64      `json:"duration_ms"`
	Success    bool       `json:"success"`
	Error      string     `json:"error,omitempty"`
}

type SessionMetadata struct {
	CommandArgs       []string  `json:"command_args"`
	Timestamp         time.Time `json:"timestamp"`
	SessionID         string    `json:"session_id"`
	TotalLookups      int       `json:"total_lookups"`
	SuccessfulLookups int       `json:"successful_lookups"`
	FailedLookups     int       `json:"failed_lookups"`
}

type LogSession struct {
	Metadata SessionMetadata `json:"metadata"`
	Lookups  []LookupLog     `json:"lookups"`
}

// Global singleton session manager
var (
	currentSession *LogSession
	sessionMutex   sync.Mutex
	loggingEnabled = true
)

// StartSession initializes a new logging session
func StartSession(command string, args []string) error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled {
		return nil
	}

	now := time.Now()
	sessionID := fmt.Sprintf("%s_%03d", now.Format("20060102_150405"), now.Nanosecond()/1000000)

	currentSession = &LogSession{
		Metadata: SessionMetadata{
			CommandArgs: append([]string{command}, args...),
			Timestamp:   now,
			SessionID:   sessionID,
		},
		Lookups: []LookupLog{},
	}

	return nil
}

// EndSession saves the current session to disk. Sessions without lookups are
// dropped.
func EndSession() error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled || currentSession == nil {
		return nil
	}

	session := currentSession
	currentSession = nil
	if len(session.Lookups) == 0 {
		return nil
	}

	updateStats(session)
	return WriteSession(session)
}

// RecordLookup appends a lookup to the current session
func RecordLookup(entry LookupLog) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled || currentSession == nil {
		return
	}

	entry.ID = fmt.Sprintf("%s_%d", currentSession.Metadata.SessionID, len(currentSession.Lookups))
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.FileIDs = append([]string(nil), entry.FileIDs...)

	currentSession.Lookups = append(currentSession.Lookups, entry)
}

// SessionRecorder forwards lookups to the global session.
type SessionRecorder struct{}

func (SessionRecorder) Record(entry LookupLog) {
	RecordLookup(entry)
}

func updateStats(session *LogSession) {
	successful := 0
	failed := 0

	for _, l := range session.Lookups {
		if l.Success {
			successful++
		} else {
			failed++
		}
	}

	session.Metadata.TotalLookups = len(session.Lookups)
	session.Metadata.SuccessfulLookups = successful
	session.Metadata.FailedLookups = failed
}

// Initialize sets up the logging system with the given configuration
func Initialize(enabled bool, retentionDays int) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	loggingEnabled = enabled

	if enabled && retentionDays > 0 {
		if err := cleanupOldLogsUnsafe(retentionDays); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to clean up old logs: %v\n", err)
		}
	}
}

// LogDir returns ~/.semv/logs.
func LogDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".semv", "logs"), nil
}

func GetLogPath() (string, error) {
	logDir, err := LogDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	now := time.Now()
	filename := fmt.Sprintf("%s.%03d.json",
		now.Format("2006-01-02_150405"),
		now.Nanosecond()/1000000)

	return filepath.Join(logDir, filename), nil
}

func WriteSession(session *LogSession) error {
	if session == nil {
		return nil
	}

	logPath, err := GetLogPath()
	if err != nil {
		return fmt.Errorf("failed to get log path: %w", err)
	}

	return writeSessionTo(session, logPath)
}

func writeSessionTo(session *LogSession, path string) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}

	return nil
}

func ReadSession(logPath string) (*LogSession, error) {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	var session LogSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// ReadSessions returns up to limit sessions, newest first. A limit of 0 or
// less returns all of them.
func ReadSessions(limit int) ([]*LogSession, error) {
	logDir, err := LogDir()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		return []*LogSession{}, nil
	}

	files, err := filepath.Glob(filepath.Join(logDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}

	// File names start with the timestamp.
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	sessions := make([]*LogSession, 0, len(files))
	for _, file := range files {
		if limit > 0 && len(sessions) >= limit {
			break
		}
		session, err := ReadSession(file)
		if err != nil {
			// Skip corrupted files
			continue
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

// cleanupOldLogsUnsafe performs cleanup without acquiring mutex (assumes caller holds it)
func cleanupOldLogsUnsafe(retentionDays int) error {
	logDir, err := LogDir()
	if err != nil {
		return err
	}

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(logDir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to list log files: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to remove old log file %s: %v\n", file, err)
				continue
			}
		}
	}

	return nil
}
