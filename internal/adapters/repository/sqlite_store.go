package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/ports"
	"github.com/kamal-hamza/obras-cli/internal/logging"
)

// Keys of the kv table
const (
	KeyProjects = "artProjectsDB"
	KeyActive   = "lastActiveProject"
	KeySettings = "artGeneratorSettings"
)

const lockRetryDelay = 50 * time.Millisecond

// SQLiteStore persists the catalog and settings as JSON values in a single kv table
type SQLiteStore struct {
	db     *sql.DB
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// Ensure it implements the interfaces
var (
	_ ports.CatalogStore  = (*SQLiteStore)(nil)
	_ ports.SettingsStore = (*SQLiteStore)(nil)
)

// OpenSQLiteStore opens (or creates) the database at path
func OpenSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("ensure database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	if logger == nil {
		logger = logging.NewNop()
	}

	return &SQLiteStore{
		db:     db,
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logging.Component(logger, "store"),
	}, nil
}

// Path returns the database file path
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the underlying database connection
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LoadCatalog returns the stored projects, or the first-run catalog when none are stored
func (s *SQLiteStore) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	raw, found, err := s.get(ctx, KeyProjects)
	if err != nil {
		return domain.Catalog{}, err
	}
	if !found {
		return domain.DefaultCatalog(), nil
	}

	var projects []domain.Project
	if err := json.Unmarshal([]byte(raw), &projects); err != nil {
		s.logger.Error("corrupt project data", logging.Err(err))
		return domain.Catalog{}, fmt.Errorf("failed to parse stored projects: %w", err)
	}

	active, _, err := s.get(ctx, KeyActive)
	if err != nil {
		return domain.Catalog{}, err
	}

	return domain.NewCatalog(projects, active), nil
}

// UpdateCatalog runs a load-apply-save cycle under the store lock.
// A concurrent process (capture running next to edit) waits for the lock instead of
// overwriting the other's changes.
func (s *SQLiteStore) UpdateCatalog(ctx context.Context, fn func(domain.Catalog) (domain.Catalog, error)) (domain.Catalog, error) {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	defer unlock()

	current, err := s.LoadCatalog(ctx)
	if err != nil {
		return current, err
	}

	next, err := fn(current)
	if err != nil {
		return current, err
	}

	projects := next.Projects
	if projects == nil {
		projects = []domain.Project{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return current, fmt.Errorf("failed to encode projects: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return current, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := put(ctx, tx, KeyProjects, string(data)); err != nil {
		return current, err
	}
	if err := put(ctx, tx, KeyActive, next.Active); err != nil {
		return current, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to save projects", logging.Err(err))
		return current, fmt.Errorf("commit projects: %w", err)
	}

	s.logger.Debug("catalog saved", "projects", len(projects), "active", next.Active, "bytes", len(data))
	return next, nil
}

// LoadSettings returns the defaults merged with the saved record
func (s *SQLiteStore) LoadSettings(ctx context.Context) (domain.Settings, error) {
	raw, _, err := s.get(ctx, KeySettings)
	if err != nil {
		return domain.DefaultSettings(), err
	}
	settings, err := domain.MergeSettings([]byte(raw))
	if err != nil {
		s.logger.Error("corrupt settings record", logging.Err(err))
		return settings, err
	}
	return settings, nil
}

// UpdateSettings runs a load-apply-save cycle on the settings record under the store lock
func (s *SQLiteStore) UpdateSettings(ctx context.Context, fn func(domain.Settings) (domain.Settings, error)) (domain.Settings, error) {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return domain.DefaultSettings(), err
	}
	defer unlock()

	current, err := s.LoadSettings(ctx)
	if err != nil {
		return current, err
	}

	next, err := fn(current)
	if err != nil {
		return current, err
	}

	data, err := json.Marshal(next)
	if err != nil {
		return current, fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := put(ctx, s.db, KeySettings, string(data)); err != nil {
		s.logger.Error("failed to save settings", logging.Err(err))
		return current, err
	}
	return next, nil
}

// ResetSettings removes the saved settings record
func (s *SQLiteStore) ResetSettings(ctx context.Context) error {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", KeySettings); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}

func (s *SQLiteStore) acquire(ctx context.Context) (func(), error) {
	ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire store lock: %s is held by another process", s.lock.Path())
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release store lock", logging.Err(err))
		}
	}, nil
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("failed to read key", "key", key, logging.Err(err))
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func put(ctx context.Context, db execer, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
