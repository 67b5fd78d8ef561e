// Package db is the relational storage layer (the "mapper"): it issues single,
// parameterized statements against postgres or sqlite and converts rows to records.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/itchan-dev/scoula/internal/storage/migrations"
	"github.com/itchan-dev/scoula/shared/config"
	"github.com/itchan-dev/scoula/shared/logger"
)

// ConnectionConfig holds database connection pool settings.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
	}
}

// sqlite allows a single writer, so the pool is pinned to one connection.
func sqliteConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

const sqliteBusyTimeoutMS = 5000

type Storage struct {
	db     *sql.DB
	driver string
}

func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	dbCfg := cfg.Public.Database
	logger.Log.Info("connecting to db", "driver", dbCfg.Driver)

	var (
		db  *sql.DB
		err error
	)
	switch dbCfg.Driver {
	case config.DriverPostgres:
		connCfg := DefaultConnectionConfig()
		if dbCfg.MaxOpenConns > 0 {
			connCfg.MaxOpenConns = dbCfg.MaxOpenConns
		}
		db, err = Connect(ctx, config.DriverPostgres, cfg.PgDSN(), connCfg)
	case config.DriverSqlite:
		var dsn string
		if err = os.MkdirAll(filepath.Dir(dbCfg.SqlitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		if dsn, err = sqliteDSN(dbCfg.SqlitePath); err == nil {
			db, err = Connect(ctx, config.DriverSqlite, dsn, sqliteConnectionConfig())
		}
	default:
		err = fmt.Errorf("unsupported database driver %q", dbCfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if dbCfg.Driver == config.DriverSqlite {
		if err := configureSqlite(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	if dbCfg.AutoMigrate {
		if err := migrations.Up(db, dbCfg.Driver); err != nil {
			db.Close()
			return nil, err
		}
	}

	logger.Log.Info("successfully connected to db", "driver", dbCfg.Driver)
	return &Storage{db: db, driver: dbCfg.Driver}, nil
}

// Connect opens a pool for driverName, applies the pool settings and pings it.
func Connect(ctx context.Context, driverName, dsn string, connCfg ConnectionConfig) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(connCfg.MaxOpenConns)
	db.SetMaxIdleConns(connCfg.MaxIdleConns)
	db.SetConnMaxLifetime(connCfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(connCfg.ConnMaxIdleTime)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func sqliteDSN(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("sqlite path is required")
	}
	// a relative path would be read as the uri authority
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve sqlite path: %w", err)
	}
	// foreign_keys and busy_timeout are per connection, so they go into the DSN
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", sqliteBusyTimeoutMS))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func configureSqlite(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	}
	for _, stmt := range pragmas {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to configure sqlite: %w", err)
		}
	}
	return nil
}

// DB exposes the pool for migrations and health checks.
func (s *Storage) DB() *sql.DB {
	return s.db
}

func (s *Storage) Driver() string {
	return s.driver
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

var placeholderRegex = regexp.MustCompile(`\$(\d+)`)

// q rebinds a query written with postgres placeholders ($1, $2) for the active driver.
// sqlite understands numbered parameters as ?NNN.
func (s *Storage) q(query string) string {
	if s.driver != config.DriverSqlite {
		return query
	}
	return placeholderRegex.ReplaceAllString(query, "?$1")
}

// now is the timestamp the storage layer stamps rows with.
// Both databases keep microseconds at most.
func now() time.Time {
	return time.Now().UTC().Round(time.Microsecond)
}

// IsConstraintViolation reports whether err was raised by a NOT NULL, FOREIGN KEY,
// UNIQUE or CHECK constraint in either database.
func IsConstraintViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23" // integrity_constraint_violation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

type scanner interface {
	Scan(dest ...any) error
}
