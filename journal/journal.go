// Package journal persists the invocation history of a dispatcher in a
// local SQLite database. The dispatcher core knows nothing about it;
// embedders record entries after each dispatch deferred resolves and read
// them back for history views. The schema is managed through embedded,
// versioned SQL migrations.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Journal wraps a SQLite connection holding recorded invocations.
type Journal struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the journal database at path and runs any pending
// migrations. Pass ":memory:" for an ephemeral journal.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}

	setFilePermissions(path)

	if err = runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Journal{db: db, path: path}, nil
}

// dsn appends the busy-timeout parameter so concurrent writers back off
// instead of failing with SQLITE_BUSY.
func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_busy_timeout=5000"
	}
	return path + "?_busy_timeout=5000"
}

// setFilePermissions restricts the database and its WAL/SHM companions to
// the owning user. The journal stores raw command input.
func setFilePermissions(path string) {
	if path == ":memory:" {
		return
	}
	_ = os.Chmod(path, 0600)
	_ = os.Chmod(path+"-wal", 0600)
	_ = os.Chmod(path+"-shm", 0600)
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Record inserts one invocation entry.
func (j *Journal) Record(e Entry) error {
	_, err := j.db.Exec(
		`INSERT INTO invocations
		 (invocation_id, sender, input, path, outcome, error_text, started_at, duration_us)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Invocation.String(),
		e.Sender,
		e.Input,
		e.Path,
		e.Outcome,
		e.ErrorText,
		e.StartedAt.UTC().Format(time.RFC3339Nano),
		e.Duration.Microseconds(),
	)
	return err
}

// List returns entries matching the filter, newest first.
func (j *Journal) List(filter Filter) ([]Entry, error) {
	base := `
		SELECT
			id,
			invocation_id,
			sender,
			input,
			path,
			outcome,
			error_text,
			started_at,
			duration_us
		FROM invocations
	`

	var (
		clauses []string
		args    []any
	)

	if filter.Outcome != "" {
		clauses = append(clauses, "outcome = ?")
		args = append(args, filter.Outcome)
	}
	if filter.PathPrefix != "" {
		clauses = append(clauses, "path LIKE ?")
		args = append(args, filter.PathPrefix+"%")
	}
	if filter.Since != nil {
		clauses = append(clauses, "started_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.RFC3339Nano))
	}

	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Tail returns the n most recent entries, newest first.
func (j *Journal) Tail(n int) ([]Entry, error) {
	return j.List(Filter{Limit: n})
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e          Entry
		invocation string
		startedAt  string
		durationUS int64
	)
	if err := rows.Scan(
		&e.ID,
		&invocation,
		&e.Sender,
		&e.Input,
		&e.Path,
		&e.Outcome,
		&e.ErrorText,
		&startedAt,
		&durationUS,
	); err != nil {
		return Entry{}, err
	}

	id, err := uuid.Parse(invocation)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid invocation id %q: %w", invocation, err)
	}
	e.Invocation = id

	ts, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid timestamp %q: %w", startedAt, err)
	}
	e.StartedAt = ts
	e.Duration = time.Duration(durationUS) * time.Microsecond
	return e, nil
}
