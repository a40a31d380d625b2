package holiday

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	wterror "github.com/msto63/werktag/foundation/core/error"
	"github.com/msto63/werktag/pkg/constraint"
)

// SQLiteConfig holds configuration for the SQLite holiday store
type SQLiteConfig struct {
	Path string
	// Timeout bounds each lookup made while an engine probes the store
	Timeout time.Duration
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path:    "./data/holidays.db",
		Timeout: 5 * time.Second,
	}
}

// SQLiteStore keeps holidays of several named calendars in SQLite
type SQLiteStore struct {
	db      *sql.DB
	mu      sync.RWMutex
	timeout time.Duration
}

// OpenSQLiteStore opens or creates the store
func OpenSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db, timeout: cfg.Timeout}
	if store.timeout <= 0 {
		store.timeout = DefaultSQLiteConfig().Timeout
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS holidays (
		calendar TEXT NOT NULL,
		day TEXT NOT NULL,
		annual INTEGER NOT NULL DEFAULT 0,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (calendar, day, annual)
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_calendar ON holidays(calendar);
	`

	_, err := s.db.Exec(schema)
	return err
}

func dbError(err error, message string) error {
	return wterror.Wrap(err, message).WithCode(wterror.CodeDatabaseError)
}

// Add inserts or replaces a holiday of calendar
func (s *SQLiteStore) Add(ctx context.Context, calendar string, h Holiday) error {
	if err := validate(h); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO holidays (calendar, day, annual, name, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, calendar, h.key(), h.Annual, h.Name, time.Now())
	if err != nil {
		return dbError(err, "failed to insert holiday")
	}
	return nil
}

// Remove deletes the holidays of calendar on date's calendar day and
// returns how many rows were removed
func (s *SQLiteStore) Remove(ctx context.Context, calendar string, date time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM holidays
		WHERE calendar = ? AND ((annual = 0 AND day = ?) OR (annual = 1 AND day = ?))
	`, calendar, date.Format(dateKey), date.Format(annualKey))
	if err != nil {
		return 0, dbError(err, "failed to delete holiday")
	}
	return res.RowsAffected()
}

// Import stores every holiday of cal under calendar in one transaction and
// returns the number of holidays written
func (s *SQLiteStore) Import(ctx context.Context, calendar string, cal *Calendar) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, dbError(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO holidays (calendar, day, annual, name, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, dbError(err, "failed to prepare statement")
	}
	defer stmt.Close()

	now := time.Now()
	var written int
	for _, h := range cal.All() {
		if _, err := stmt.ExecContext(ctx, calendar, h.key(), h.Annual, h.Name, now); err != nil {
			return 0, dbError(err, "failed to insert holiday")
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, dbError(err, "failed to commit transaction")
	}
	return written, nil
}

// Lookup returns the holiday of calendar on t's calendar date. Fixed
// holidays take precedence over annual ones.
func (s *SQLiteStore) Lookup(ctx context.Context, calendar string, t time.Time) (Holiday, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var name string
	var annual bool
	err := s.db.QueryRowContext(ctx, `
		SELECT name, annual FROM holidays
		WHERE calendar = ? AND ((annual = 0 AND day = ?) OR (annual = 1 AND day = ?))
		ORDER BY annual ASC
		LIMIT 1
	`, calendar, t.Format(dateKey), t.Format(annualKey)).Scan(&name, &annual)
	if err == sql.ErrNoRows {
		return Holiday{}, false, nil
	}
	if err != nil {
		return Holiday{}, false, dbError(err, "failed to query holiday")
	}

	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Holiday{Date: date, Name: name, Annual: annual}, true, nil
}

// Calendar loads all holidays of calendar into memory
func (s *SQLiteStore) Calendar(ctx context.Context, calendar string) (*Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT day, annual, name FROM holidays WHERE calendar = ? ORDER BY annual, day
	`, calendar)
	if err != nil {
		return nil, dbError(err, "failed to query holidays")
	}
	defer rows.Close()

	cal := NewCalendar(calendar)
	for rows.Next() {
		var day, name string
		var annual bool
		if err := rows.Scan(&day, &annual, &name); err != nil {
			return nil, dbError(err, "failed to scan holiday")
		}

		layout := dateKey
		if annual {
			layout = annualKey
		}
		date, err := time.ParseInLocation(layout, day, time.Local)
		if err != nil {
			return nil, dbError(err, "invalid holiday date in database")
		}
		if err := cal.Add(Holiday{Date: date, Name: name, Annual: annual}); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read holidays")
	}
	return cal, nil
}

// Calendars lists the calendar names with their holiday counts
func (s *SQLiteStore) Calendars(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT calendar, COUNT(*) FROM holidays GROUP BY calendar`)
	if err != nil {
		return nil, dbError(err, "failed to query calendars")
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, dbError(err, "failed to scan calendar")
		}
		out[name] = count
	}
	return out, rows.Err()
}

// Constraint returns a leaf backed by live queries against calendar.
// Query failures surface as DATABASE_ERROR from the engine operation that
// probed the leaf.
func (s *SQLiteStore) Constraint(calendar string) constraint.Constraint {
	return constraint.FromSource(&storeSource{store: s, calendar: calendar})
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type storeSource struct {
	store    *SQLiteStore
	calendar string
}

func (s *storeSource) lookup(t time.Time) (Holiday, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.store.timeout)
	defer cancel()
	return s.store.Lookup(ctx, s.calendar, t)
}

func (s *storeSource) Evaluate(t time.Time) (bool, error) {
	_, ok, err := s.lookup(t)
	return ok, err
}

func (s *storeSource) Describe(t time.Time) string {
	h, _, _ := s.lookup(t)
	return h.Name
}
