package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "journal.db")

	j, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer j.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestJournalRecordAndRead(t *testing.T) {
	j := openTemp(t)

	rec, err := j.StartSession("local")
	if err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if rec.Session() == "" {
		t.Fatal("session id should not be empty")
	}

	type payload struct {
		To   uint64 `json:"to"`
		Code string `json:"code"`
	}
	if err := rec.Record("[node] add node", payload{To: 0, Code: "root"}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if err := rec.Record("[physics] configure", map[string]float64{"gravity": 0.2}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	entries, err := j.SessionActions(rec.Session())
	if err != nil {
		t.Fatalf("SessionActions() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Seq != 1 || entries[1].Seq != 2 {
		t.Errorf("seq = %d, %d, expected 1, 2", entries[0].Seq, entries[1].Seq)
	}
	if entries[0].Type != "[node] add node" {
		t.Errorf("type = %q", entries[0].Type)
	}
	if entries[0].Payload != `{"to":0,"code":"root"}` {
		t.Errorf("payload = %s", entries[0].Payload)
	}
	if entries[0].At.IsZero() {
		t.Error("timestamp should be parsed")
	}
}

func TestJournalRecordBadPayload(t *testing.T) {
	j := openTemp(t)
	rec, err := j.StartSession("local")
	if err != nil {
		t.Fatal(err)
	}

	if err := rec.Record("bad", make(chan int)); err == nil {
		t.Error("expected encode error for channel payload")
	}

	// The failed record must not consume a sequence number.
	if err := rec.Record("good", nil); err != nil {
		t.Fatal(err)
	}
	entries, _ := j.SessionActions(rec.Session())
	if len(entries) != 1 || entries[0].Seq != 1 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestJournalRecentSessions(t *testing.T) {
	j := openTemp(t)

	a, _ := j.StartSession("alpha")
	b, _ := j.StartSession("beta")
	for range 3 {
		if err := b.Record("tick", nil); err != nil {
			t.Fatal(err)
		}
	}

	sessions, err := j.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}

	// Same second: rowid breaks the tie, newest first.
	if sessions[0].ID != b.Session() || sessions[1].ID != a.Session() {
		t.Errorf("order = %s, %s", sessions[0].Host, sessions[1].Host)
	}
	if sessions[0].Actions != 3 || sessions[1].Actions != 0 {
		t.Errorf("actions = %d, %d, expected 3, 0", sessions[0].Actions, sessions[1].Actions)
	}

	limited, err := j.RecentSessions(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d sessions", len(limited))
	}
}

func TestJournalActionCounts(t *testing.T) {
	j := openTemp(t)
	rec, _ := j.StartSession("local")
	rec.Record("a", nil)
	rec.Record("a", nil)
	rec.Record("b", nil)

	counts, err := j.ActionCounts()
	if err != nil {
		t.Fatal(err)
	}
	if counts["a"] != 2 || counts["b"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestJournalUnknownSession(t *testing.T) {
	j := openTemp(t)
	entries, err := j.SessionActions("nope")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestJournalFindSession(t *testing.T) {
	j := openTemp(t)
	rec, err := j.StartSession("local")
	if err != nil {
		t.Fatal(err)
	}
	id := rec.Session()

	got, err := j.FindSession(id[:8])
	if err != nil {
		t.Fatalf("FindSession() failed: %v", err)
	}
	if got != id {
		t.Errorf("FindSession(%s) = %s, expected %s", id[:8], got, id)
	}

	if _, err := j.FindSession("zzzz"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}

	if _, err := j.StartSession("other"); err != nil {
		t.Fatal(err)
	}
	if _, err := j.FindSession(""); !errors.Is(err, ErrAmbiguousSession) {
		t.Errorf("expected ErrAmbiguousSession, got %v", err)
	}
}
