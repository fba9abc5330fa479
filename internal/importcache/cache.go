package importcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"golang.org/x/sync/singleflight"

	"github.com/giantswarm/nativehost/internal/fileutil"

	// Register the pure-Go SQLite driver (no CGO required).
	_ "modernc.org/sqlite"
)

const (
	dbFileName   = "imports.db"
	lockFileName = "imports.lock"

	// schemaVersion is stored in PRAGMA user_version. A database with a
	// different version is rebuilt.
	schemaVersion = 1
)

// InspectFunc lists the direct imports of the binary at path.
type InspectFunc func(path string) ([]string, error)

// Config configures a Cache.
type Config struct {
	Dir    string       // Directory holding the database and lock file
	Scope  string       // Namespace for keys, e.g. the accepted formats
	Logger *slog.Logger // Optional logger (defaults to slog.Default())
}

func (c Config) validate() error {
	if c.Dir == "" {
		return errors.New("cache dir must not be empty")
	}
	return nil
}

// Cache is a persistent map from binary content to its direct imports. It is
// safe for concurrent use.
type Cache struct {
	db    *sql.DB
	path  string
	scope string
	log   *slog.Logger
	group singleflight.Group
}

// Open opens or creates the cache database in cfg.Dir.
func Open(ctx context.Context, cfg Config) (*Cache, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid import cache config: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if err := fileutil.EnsureDir(cfg.Dir, 0o700); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cfg.Dir, dbFileName)
	existed, err := fileutil.Exists(dbPath)
	if err != nil {
		return nil, err
	}

	fl, err := acquireFileLock(ctx, filepath.Join(cfg.Dir, lockFileName))
	if err != nil {
		return nil, err
	}
	defer releaseFileLock(log, fl)

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare import cache %s: %w", dbPath, err)
	}

	log.Debug("import cache opened", "path", dbPath, "created", !existed)
	return &Cache{db: db, path: dbPath, scope: cfg.Scope, log: log}, nil
}

// migrate creates the schema, rebuilding it when the stored version differs.
func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []string{
		`DROP TABLE IF EXISTS import_names`,
		`DROP TABLE IF EXISTS import_lists`,
		`CREATE TABLE import_lists (
			key   TEXT PRIMARY KEY,
			count INTEGER NOT NULL
		)`,
		`CREATE TABLE import_names (
			key  TEXT    NOT NULL REFERENCES import_lists(key) ON DELETE CASCADE,
			idx  INTEGER NOT NULL,
			name TEXT    NOT NULL,
			PRIMARY KEY (key, idx)
		)`,
		fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion),
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return tx.Commit()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// Close closes the database.
func (c *Cache) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close import cache: %w", err)
	}
	return nil
}

// ListImports returns the imports of the binary at path, from the cache when
// the content was seen before and from inspect otherwise. Errors from inspect
// are returned unchanged and never cached.
func (c *Cache) ListImports(ctx context.Context, path string, inspect InspectFunc) ([]string, error) {
	sum, err := hashFile(path)
	if err != nil {
		// Let the inspector report a missing or unreadable file.
		return inspect(path)
	}
	key := c.scope + ":" + sum

	v, err, _ := c.group.Do(key, func() (any, error) {
		imports, ok, err := c.lookup(ctx, key)
		if err != nil {
			c.log.Warn("import cache read failed; inspecting directly", "path", path, "error", err)
		} else if ok {
			c.log.Debug("import cache hit", "path", path)
			return imports, nil
		}

		imports, err = inspect(path)
		if err != nil {
			return nil, err
		}
		if err := c.store(ctx, key, imports); err != nil {
			c.log.Warn("import cache write failed", "path", path, "error", err)
		}
		return imports, nil
	})
	if err != nil {
		return nil, err
	}
	// Callers sharing a flight must not alias one slice.
	return slices.Clone(v.([]string)), nil
}

func (c *Cache) lookup(ctx context.Context, key string) ([]string, bool, error) {
	var count int
	err := c.db.QueryRowContext(ctx, `SELECT count FROM import_lists WHERE key = ?`, key).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query import list: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, `SELECT name FROM import_names WHERE key = ? ORDER BY idx`, key)
	if err != nil {
		return nil, false, fmt.Errorf("query import names: %w", err)
	}
	defer rows.Close()

	imports := make([]string, 0, count)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, false, fmt.Errorf("scan import name: %w", err)
		}
		imports = append(imports, name)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate import names: %w", err)
	}
	if len(imports) != count {
		// A partial entry is treated as a miss and rewritten.
		return nil, false, nil
	}
	return imports, true, nil
}

func (c *Cache) store(ctx context.Context, key string, imports []string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM import_names WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clear import names: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO import_lists (key, count) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET count = excluded.count`, key, len(imports)); err != nil {
		return fmt.Errorf("insert import list: %w", err)
	}
	for i, name := range imports {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO import_names (key, idx, name) VALUES (?, ?, ?)`, key, i, name); err != nil {
			return fmt.Errorf("insert import name: %w", err)
		}
	}
	return tx.Commit()
}
