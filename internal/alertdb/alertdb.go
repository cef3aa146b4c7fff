// Package alertdb persists announcement attempts and track evictions to a
// local sqlite database. It is an audit log for field review, not an input to
// the decision engine: nothing in here feeds back into alerting.
package alertdb

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/smartcap-data/wayguard/internal/monitoring"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type AlertDB struct {
	*sql.DB
}

// NewAlertDB opens (or creates) the database at path and applies any pending
// schema migrations.
func NewAlertDB(path string) (*AlertDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// A single writer keeps sqlite happy under the cycle cadence.
	db.SetMaxOpenConns(1)

	adb := &AlertDB{db}
	if err := adb.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}

	return adb, nil
}

func (db *AlertDB) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// Note: we don't close m because it would close the underlying DB
	// connection.
	m.Log = &migrateLogger{}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	return nil
}

// SchemaVersion returns the applied migration version and dirty state.
// Returns 0, false, nil on a fresh database.
func (db *AlertDB) SchemaVersion() (version uint, dirty bool, err error) {
	err = db.QueryRow("SELECT version, dirty FROM schema_migrations LIMIT 1").Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	return version, dirty, err
}

// migrateLogger implements migrate.Logger on top of the monitoring shim.
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	monitoring.Logf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}

// AnnouncementRow is one logged dispatch attempt.
type AnnouncementRow struct {
	ID          string    `json:"id"`
	AnnouncedAt time.Time `json:"announced_at"`
	ObjectKey   string    `json:"object_key"`
	Class       string    `json:"class"`
	Message     string    `json:"message"`
	Priority    string    `json:"priority"`
	Score       int       `json:"score"`
	Dispatched  bool      `json:"dispatched"`
}

// InsertAnnouncement logs one dispatch attempt, spoken or suppressed.
func (db *AlertDB) InsertAnnouncement(row AnnouncementRow) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}

	_, err := db.Exec(`
		INSERT INTO announcements (id, announced_at, object_key, class, message, priority, score, dispatched)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, row.ID, row.AnnouncedAt, row.ObjectKey, row.Class, row.Message, row.Priority, row.Score, row.Dispatched)
	if err != nil {
		return fmt.Errorf("failed to insert announcement: %w", err)
	}

	return nil
}

// InsertEviction logs a tracked object aging out of the state store.
func (db *AlertDB) InsertEviction(objectKey, class string, lastSeen, evictedAt time.Time) error {
	_, err := db.Exec(`
		INSERT INTO evictions (id, object_key, class, last_seen, evicted_at)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.NewString(), objectKey, class, lastSeen, evictedAt)
	if err != nil {
		return fmt.Errorf("failed to insert eviction: %w", err)
	}

	return nil
}

// RecentAnnouncements returns the most recent dispatch attempts, newest first.
func (db *AlertDB) RecentAnnouncements(limit int) ([]AnnouncementRow, error) {
	rows, err := db.Query(`
		SELECT id, announced_at, object_key, class, message, priority, score, dispatched
		FROM announcements
		ORDER BY announced_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query announcements: %w", err)
	}
	defer rows.Close()

	var out []AnnouncementRow
	for rows.Next() {
		var r AnnouncementRow
		if err := rows.Scan(&r.ID, &r.AnnouncedAt, &r.ObjectKey, &r.Class, &r.Message, &r.Priority, &r.Score, &r.Dispatched); err != nil {
			return nil, fmt.Errorf("failed to scan announcement row: %w", err)
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

// CountDispatched returns how many attempts in [since, now] actually spoke.
func (db *AlertDB) CountDispatched(since time.Time) (int, error) {
	var n int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM announcements WHERE dispatched AND announced_at >= ?
	`, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count dispatched announcements: %w", err)
	}
	return n, nil
}
