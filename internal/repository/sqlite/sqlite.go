// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// The tracker is a single-user dashboard. An embedded database that lives in
// one file next to the binary is all it needs: no server to run, trivial
// backups (copy the file), and ":memory:" databases for tests.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so the binary
// cross-compiles without a C toolchain.
//
// LAYOUT:
// DB owns the connection pool and the schema. Each resource gets a small
// store type (PlatformStore, ReportStore, ...) that shares the pool and
// implements one repository interface:
//
//	db, _ := sqlite.New("data/tracker.db")
//	svc := service.NewReportService(db.Reports(), logger)
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and hands out per-resource stores.
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/tracker.db"  → file-based database (persistent)
//   - ":memory:"         → in-memory database (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every new connection to ":memory:" is a brand new, empty database.
	// Pin the pool to one connection so all queries see the same schema.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets the dashboard read while a sync result or an edit is written.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The schema relies on them
	// for ON DELETE CASCADE (user → records, platform → credential).
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Users returns the store for user accounts.
func (db *DB) Users() *UserStore { return &UserStore{conn: db.conn} }

// Platforms returns the store for bug bounty platforms.
func (db *DB) Platforms() *PlatformStore { return &PlatformStore{conn: db.conn} }

// Reports returns the store for submitted vulnerability reports.
func (db *DB) Reports() *ReportStore { return &ReportStore{conn: db.conn} }

// Bounties returns the store for monetary bounty targets.
func (db *DB) Bounties() *BountyStore { return &BountyStore{conn: db.conn} }

// Checklists returns the store for checklists and their items.
func (db *DB) Checklists() *ChecklistStore { return &ChecklistStore{conn: db.conn} }

// Tips returns the store for tips.
func (db *DB) Tips() *TipStore { return &TipStore{conn: db.conn} }

// Reading returns the store for the reading list.
func (db *DB) Reading() *ReadingStore { return &ReadingStore{conn: db.conn} }

// Credentials returns the store for external platform credentials.
func (db *DB) Credentials() *CredentialStore { return &CredentialStore{conn: db.conn} }

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent, so it runs on every start.
func (db *DB) migrate() error {
	for _, m := range migrations {
		if _, err := db.conn.Exec(m.sql); err != nil {
			return fmt.Errorf("creating %s: %w", m.name, err)
		}
	}
	return nil
}

var migrations = []struct {
	name string
	sql  string
}{
	{"users table", `
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			github_id  INTEGER NOT NULL UNIQUE,
			login      TEXT NOT NULL,
			email      TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`},
	{"platforms table", `
		CREATE TABLE IF NOT EXISTS platforms (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name       TEXT NOT NULL,
			url        TEXT NOT NULL DEFAULT '',
			kind       TEXT NOT NULL DEFAULT 'other',
			notes      TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_platforms_user_id ON platforms(user_id);`},
	{"reports table", `
		CREATE TABLE IF NOT EXISTS reports (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			platform_id   TEXT REFERENCES platforms(id) ON DELETE SET NULL,
			title         TEXT NOT NULL,
			severity      TEXT NOT NULL DEFAULT 'none',
			status        TEXT NOT NULL DEFAULT 'new',
			bounty_amount TEXT NOT NULL DEFAULT '0',
			submitted_at  DATETIME,
			url           TEXT NOT NULL DEFAULT '',
			description   TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_reports_user_id ON reports(user_id);`},
	{"bounties table", `
		CREATE TABLE IF NOT EXISTS bounties (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title          TEXT NOT NULL,
			target_amount  TEXT NOT NULL,
			current_amount TEXT NOT NULL DEFAULT '0',
			deadline       DATETIME,
			notes          TEXT NOT NULL DEFAULT '',
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_bounties_user_id ON bounties(user_id);`},
	{"checklists tables", `
		CREATE TABLE IF NOT EXISTS checklists (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title      TEXT NOT NULL,
			category   TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_checklists_user_id ON checklists(user_id);
		CREATE TABLE IF NOT EXISTS checklist_items (
			id           TEXT PRIMARY KEY,
			checklist_id TEXT NOT NULL REFERENCES checklists(id) ON DELETE CASCADE,
			text         TEXT NOT NULL,
			done         INTEGER NOT NULL DEFAULT 0,
			position     INTEGER NOT NULL DEFAULT 0,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_checklist_items_checklist_id ON checklist_items(checklist_id);`},
	{"tips table", `
		CREATE TABLE IF NOT EXISTS tips (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title      TEXT NOT NULL,
			content    TEXT NOT NULL DEFAULT '',
			category   TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_tips_user_id ON tips(user_id);`},
	{"reading_items table", `
		CREATE TABLE IF NOT EXISTS reading_items (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title      TEXT NOT NULL,
			url        TEXT NOT NULL DEFAULT '',
			category   TEXT NOT NULL DEFAULT '',
			is_read    INTEGER NOT NULL DEFAULT 0,
			notes      TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_reading_items_user_id ON reading_items(user_id);`},
	// One credential per (user, platform) is enforced by the primary key.
	{"platform_credentials table", `
		CREATE TABLE IF NOT EXISTS platform_credentials (
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			platform_id TEXT NOT NULL REFERENCES platforms(id) ON DELETE CASCADE,
			username    TEXT NOT NULL,
			sealed_blob BLOB NOT NULL,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, platform_id)
		);`},
}

// limitOffset turns ListOptions into LIMIT/OFFSET arguments. SQLite treats
// a negative LIMIT as "no limit".
func limitOffset(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// nullTime converts an optional time into something database/sql can bind.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// timePtr is the inverse of nullTime for scanned values.
func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// checkAffected maps "0 rows affected" to a NotFound error.
func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
