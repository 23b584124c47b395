// Package storage provides the SQLite action journal.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultPath is where the journal lives unless --db says otherwise.
const DefaultPath = "~/.stage/journal.db"

const timeLayout = "2006-01-02 15:04:05"

// Journal manages the SQLite database connection for the action journal.
type Journal struct {
	db *sql.DB
}

// Session is one run of the stage.
type Session struct {
	ID        string
	Host      string
	StartedAt time.Time
	Actions   int
}

// Entry is one recorded action.
type Entry struct {
	SessionID string
	Seq       int64
	Type      string
	Payload   string // JSON
	At        time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Journal, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return j, nil
}

func (j *Journal) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			host TEXT NOT NULL,
			started_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS actions (
			session_id TEXT NOT NULL REFERENCES sessions(id),
			seq INTEGER NOT NULL,
			type TEXT NOT NULL,
			payload TEXT NOT NULL,
			at DATETIME NOT NULL,
			PRIMARY KEY (session_id, seq)
		);
		CREATE INDEX IF NOT EXISTS idx_actions_type ON actions(type);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// StartSession opens a new session and returns its writer.
func (j *Journal) StartSession(host string) (*Recorder, error) {
	id := uuid.NewString()
	_, err := j.db.Exec(
		"INSERT INTO sessions (id, host, started_at) VALUES (?, ?, ?)",
		id, host, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot start session: %w", err)
	}
	return &Recorder{journal: j, session: id}, nil
}

// Recorder appends actions to one session. Not safe for concurrent use.
type Recorder struct {
	journal *Journal
	session string
	seq     int64
}

// Session returns the session id.
func (r *Recorder) Session() string {
	return r.session
}

// Record appends an action. The payload is encoded as JSON.
func (r *Recorder) Record(kind string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("storage: cannot encode %s payload: %w", kind, err)
	}
	r.seq++
	_, err = r.journal.db.Exec(
		"INSERT INTO actions (session_id, seq, type, payload, at) VALUES (?, ?, ?, ?, ?)",
		r.session, r.seq, kind, string(data), time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		r.seq--
		return fmt.Errorf("storage: cannot record action: %w", err)
	}
	return nil
}

// RecentSessions lists the latest sessions, newest first, with action counts.
func (j *Journal) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.Query(
		`SELECT s.id, s.host, s.started_at, COUNT(a.seq)
		 FROM sessions s
		 LEFT JOIN actions a ON a.session_id = s.id
		 GROUP BY s.id
		 ORDER BY s.started_at DESC, s.rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var startedAt any
		if err := rows.Scan(&s.ID, &s.Host, &startedAt, &s.Actions); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		s.StartedAt = parseTime(startedAt)
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return sessions, nil
}

// SessionActions returns the actions of one session in dispatch order.
func (j *Journal) SessionActions(sessionID string) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT session_id, seq, type, payload, at
		 FROM actions
		 WHERE session_id = ?
		 ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query actions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at any
		if err := rows.Scan(&e.SessionID, &e.Seq, &e.Type, &e.Payload, &at); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.At = parseTime(at)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// ErrSessionNotFound is returned when no session matches an id prefix.
var ErrSessionNotFound = errors.New("storage: session not found")

// ErrAmbiguousSession is returned when an id prefix matches several sessions.
var ErrAmbiguousSession = errors.New("storage: ambiguous session prefix")

// FindSession resolves a full session id from a unique prefix.
func (j *Journal) FindSession(prefix string) (string, error) {
	rows, err := j.db.Query(
		"SELECT id FROM sessions WHERE id LIKE ? LIMIT 2",
		strings.ReplaceAll(prefix, "%", "")+"%",
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("storage: cannot scan row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousSession, prefix)
	}
}

// ActionCounts aggregates recorded actions by type across all sessions.
func (j *Journal) ActionCounts() (map[string]int, error) {
	rows, err := j.db.Query("SELECT type, COUNT(*) FROM actions GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count actions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// parseTime handles both time.Time and string, depending on the driver's mood.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
