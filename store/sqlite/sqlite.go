/*
Package sqlite provides a SQLite-backed implementation of platelet.Store.

PURPOSE:
  Keeps the inventory collection in SQLite. The default path is ":memory:",
  so the collection still lives only for the process lifetime; a file path
  can be configured for local demos.

ORDERING:
  Each row gets a monotonically increasing seq. List() orders by seq DESC,
  which makes the most recently prepended unit come first.

KEY TABLES:
  inventory_units: One row per batch, id unique

CONCURRENCY:
  Uses sync.RWMutex around every statement. An in-memory database is pinned
  to a single connection, since each new connection would see an empty DB.

USAGE:
  store, err := sqlite.New(":memory:")
  if err != nil {
      return err
  }
  defer store.Close()

SEE ALSO:
  - platelet/store.go: Interface definition
  - platelet/store/memory.go: In-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/platelink/network-engine/platelet"
)

// Store implements platelet.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ platelet.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS inventory_units (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		hospital TEXT NOT NULL,
		blood_type TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		expiry TEXT NOT NULL,
		lat REAL NOT NULL DEFAULT 0,
		lon REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_inventory_units_hospital
		ON inventory_units(hospital);
	CREATE INDEX IF NOT EXISTS idx_inventory_units_expiry
		ON inventory_units(expiry);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// platelet.Store
// =============================================================================

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const selectUnits = `
	SELECT id, hospital, blood_type, quantity, expiry, lat, lon
	FROM inventory_units
`

// List returns all units, newest first.
func (s *Store) List(ctx context.Context) ([]platelet.InventoryUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryUnits(ctx, selectUnits+" ORDER BY seq DESC")
}

// Get returns a unit by id, or nil if it doesn't exist.
func (s *Store) Get(ctx context.Context, id string) (*platelet.InventoryUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	units, err := s.queryUnits(ctx, selectUnits+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, nil
	}
	return &units[0], nil
}

// Prepend inserts a unit; it becomes the first element of List().
func (s *Store) Prepend(ctx context.Context, unit platelet.InventoryUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertUnit(ctx, s.db, unit)
}

// Replace swaps the collection inside one transaction.
func (s *Store) Replace(ctx context.Context, units []platelet.InventoryUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM inventory_units"); err != nil {
		return fmt.Errorf("failed to clear inventory: %w", err)
	}

	// Insert back to front so units[0] ends up with the highest seq.
	for i := len(units) - 1; i >= 0; i-- {
		if err := s.insertUnit(ctx, sqlTx, units[i]); err != nil {
			return err
		}
	}

	return sqlTx.Commit()
}

func (s *Store) insertUnit(ctx context.Context, db execer, unit platelet.InventoryUnit) error {
	if err := unit.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO inventory_units
		(id, hospital, blood_type, quantity, expiry, lat, lon, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		unit.ID,
		unit.Hospital,
		string(unit.BloodType),
		unit.Quantity,
		platelet.FormatDate(unit.Expiry),
		unit.Lat,
		unit.Lon,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return platelet.ErrDuplicateID
		}
		return fmt.Errorf("failed to insert unit: %w", err)
	}
	return nil
}

func (s *Store) queryUnits(ctx context.Context, query string, args ...any) ([]platelet.InventoryUnit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	units := []platelet.InventoryUnit{}
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	return units, rows.Err()
}

func scanUnit(rows *sql.Rows) (platelet.InventoryUnit, error) {
	var (
		unit      platelet.InventoryUnit
		bloodType string
		expiry    string
	)

	err := rows.Scan(&unit.ID, &unit.Hospital, &bloodType, &unit.Quantity, &expiry, &unit.Lat, &unit.Lon)
	if err != nil {
		return unit, fmt.Errorf("failed to scan unit: %w", err)
	}

	unit.BloodType = platelet.BloodType(bloodType)
	unit.Expiry, err = platelet.ParseDate(expiry)
	if err != nil {
		return unit, fmt.Errorf("unit %s has malformed expiry %q: %w", unit.ID, expiry, err)
	}
	return unit, nil
}

// Helper functions

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
