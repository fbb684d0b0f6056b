package sqldb

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/martijn/clientdb/internal/core/domain"
	_ "modernc.org/sqlite"
)

func init() {
	// sqlx only knows the cgo driver name
	sqlx.BindDriver(string(DriverSQLite), sqlx.QUESTION)
}

// Options describes where the store lives. Path is used by SQLite only,
// the network fields by PostgreSQL and MySQL.
type Options struct {
	Driver   Driver
	Path     string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// DSN builds the driver specific connection string.
func (o Options) DSN() string {
	switch o.Driver {
	case DriverPostgres:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(o.User, o.Password),
			Host:   hostPort(o.Host, o.Port, 5432),
			Path:   "/" + o.Name,
		}
		if o.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": {o.SSLMode}}.Encode()
		}
		return u.String()
	case DriverMySQL:
		cfg := mysql.NewConfig()
		cfg.User = o.User
		cfg.Passwd = o.Password
		cfg.Net = "tcp"
		cfg.Addr = hostPort(o.Host, o.Port, 3306)
		cfg.DBName = o.Name
		return cfg.FormatDSN()
	default:
		return o.Path
	}
}

func hostPort(host string, port, fallback int) string {
	if port == 0 {
		port = fallback
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// DB is the storage handle handed to repositories.
type DB struct {
	*sqlx.DB
	dialect *dialect
}

// Open connects using Options.
func Open(opts Options) (*DB, error) {
	return New(opts.Driver, opts.DSN())
}

// New connects to the store and verifies it is reachable.
func New(driver Driver, dsn string) (*DB, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlx.Connect(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w: %w", domain.ErrConnection, err)
	}

	if driver == DriverSQLite {
		// One writer at a time, and an in-memory database lives on a single connection
		db.SetMaxOpenConns(1)
	}

	return &DB{DB: db, dialect: d}, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

func (db *DB) Driver() Driver {
	return db.dialect.driver
}

// Ping reports ErrConnection when the store cannot be reached.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w: %w", domain.ErrConnection, err)
	}
	return nil
}

// withTx runs fn in a transaction, committing on success and rolling back
// on error or panic.
func (db *DB) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", classifyError(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", classifyError(err))
	}
	return nil
}

// insertID runs an INSERT and returns the generated key of idColumn.
func (db *DB) insertID(ctx context.Context, tx *sqlx.Tx, query, idColumn string, args ...interface{}) (int64, error) {
	if db.dialect.returning {
		var id int64
		query += " RETURNING " + idColumn
		if err := tx.QueryRowxContext(ctx, tx.Rebind(query), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// sqliteDSN turns on foreign keys for every connection, which a plain
// PRAGMA statement would only do for one pooled connection.
func sqliteDSN(path string) string {
	pragmas := []string{"foreign_keys(1)", "busy_timeout(5000)"}
	if !isMemoryPath(path) {
		pragmas = append(pragmas, "journal_mode(WAL)")
	}

	params := make([]string, len(pragmas))
	for i, p := range pragmas {
		params[i] = "_pragma=" + p
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

func isMemoryPath(path string) bool {
	return path == "" || strings.HasPrefix(path, ":memory:") || strings.Contains(path, "mode=memory")
}
