package log

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func resetState(t *testing.T) {
	t.Helper()
	original := loggingEnabled
	t.Cleanup(func() {
		loggingEnabled = original
		currentSession = nil
	})
	t.Setenv("HOME", t.TempDir())
}

func TestLogSession(t *testing.T) {
	resetState(t)
	loggingEnabled = true

	if err := StartSession("movie", []string{"12345"}); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if currentSession == nil {
		t.Fatal("StartSession() should have created a session")
	}

	if diff := cmp.Diff([]string{"movie", "12345"}, currentSession.Metadata.CommandArgs); diff != "" {
		t.Errorf("CommandArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordLookup(t *testing.T) {
	resetState(t)
	loggingEnabled = true

	if err := StartSession("drive", nil); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}

	fileIDs := []string{"a", "b"}
	RecordLookup(LookupLog{Kind: KindDrive, Input: "folder", FileIDs: fileIDs, FilesFound: 2, Success: true})
	SessionRecorder{}.Record(LookupLog{Kind: KindMovie, Input: "42", Error: errors.New("nope").Error()})
	fileIDs[0] = "mutated"

	updateStats(currentSession)

	if got := len(currentSession.Lookups); got != 2 {
		t.Fatalf("lookups = %d, want 2", got)
	}
	if currentSession.Metadata.SuccessfulLookups != 1 || currentSession.Metadata.FailedLookups != 1 {
		t.Errorf("stats = %+v", currentSession.Metadata)
	}
	first := currentSession.Lookups[0]
	if first.FileIDs[0] != "a" {
		t.Error("RecordLookup() kept a reference to the caller's slice")
	}
	if first.ID == "" || first.Timestamp.IsZero() {
		t.Errorf("RecordLookup() did not stamp the entry: %+v", first)
	}
}

func TestEndSessionRoundTrip(t *testing.T) {
	resetState(t)
	loggingEnabled = true

	if err := StartSession("movie", []string{"1"}); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	RecordLookup(LookupLog{Kind: KindMovie, Input: "1", Title: "Dune", FileIDs: []string{"x"}, FilesFound: 1, Success: true})

	if err := EndSession(); err != nil {
		t.Fatalf("EndSession() failed: %v", err)
	}

	sessions, err := ReadSessions(0)
	if err != nil {
		t.Fatalf("ReadSessions() failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("ReadSessions() returned %d sessions, want 1", len(sessions))
	}
	got := sessions[0]
	if got.Metadata.TotalLookups != 1 || got.Lookups[0].Title != "Dune" {
		t.Errorf("session = %+v", got)
	}
}

func TestEndSessionSkipsEmpty(t *testing.T) {
	resetState(t)
	loggingEnabled = true

	StartSession("history", nil)
	if err := EndSession(); err != nil {
		t.Fatalf("EndSession() failed: %v", err)
	}

	dir, _ := LogDir()
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("log directory created for an empty session")
	}
}

func TestSessionSerialization(t *testing.T) {
	resetState(t)

	now := time.Now().UTC().Truncate(time.Millisecond)
	session := &LogSession{
		Metadata: SessionMetadata{
			CommandArgs:       []string{"series", "99"},
			Timestamp:         now,
			SessionID:         "test_session_123",
			TotalLookups:      2,
			SuccessfulLookups: 1,
			FailedLookups:     1,
		},
		Lookups: []LookupLog{
			{ID: "test_session_123_0", Timestamp: now, Kind: KindSeries, Input: "99", FileIDs: []string{"a"}, FilesFound: 1, Success: true},
			{ID: "test_session_123_1", Timestamp: now, Kind: KindDrive, Input: "bad", Error: "listing failed"},
		},
	}

	path := filepath.Join(t.TempDir(), "session.json")
	if err := writeSessionTo(session, path); err != nil {
		t.Fatalf("writeSessionTo() failed: %v", err)
	}

	read, err := ReadSession(path)
	if err != nil {
		t.Fatalf("ReadSession() failed: %v", err)
	}
	if diff := cmp.Diff(session, read); diff != "" {
		t.Errorf("Session mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSessionsOrderAndLimit(t *testing.T) {
	resetState(t)

	dir, err := LogDir()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"2024-01-01_000000.000", "2024-03-01_000000.000", "2024-02-01_000000.000"} {
		s := &LogSession{Metadata: SessionMetadata{SessionID: name}}
		if err := writeSessionTo(s, filepath.Join(dir, name+".json")); err != nil {
			t.Fatal(err)
		}
	}
	os.WriteFile(filepath.Join(dir, "2025-01-01_000000.000.json"), []byte("{corrupt"), 0644)

	sessions, err := ReadSessions(2)
	if err != nil {
		t.Fatalf("ReadSessions() failed: %v", err)
	}
	var ids []string
	for _, s := range sessions {
		ids = append(ids, s.Metadata.SessionID)
	}
	if diff := cmp.Diff([]string{"2024-03-01_000000.000", "2024-02-01_000000.000"}, ids); diff != "" {
		t.Errorf("ReadSessions() order mismatch (-want +got):\n%s", diff)
	}
}

func TestInitializeRemovesExpiredLogs(t *testing.T) {
	resetState(t)

	dir, _ := LogDir()
	os.MkdirAll(dir, 0755)
	old := filepath.Join(dir, "old.json")
	fresh := filepath.Join(dir, "fresh.json")
	os.WriteFile(old, []byte("{}"), 0644)
	os.WriteFile(fresh, []byte("{}"), 0644)
	past := time.Now().AddDate(0, 0, -40)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	Initialize(true, 30)

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("expired log was not removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh log was removed")
	}
}

func TestLoggingDisabled(t *testing.T) {
	resetState(t)

	Initialize(false, 30)
	if err := StartSession("movie", nil); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if currentSession != nil {
		t.Error("Session should not be created when logging is disabled")
	}

	RecordLookup(LookupLog{Kind: KindMovie})
	if err := EndSession(); err != nil {
		t.Errorf("EndSession() with logging disabled error = %v, want nil", err)
	}
}
