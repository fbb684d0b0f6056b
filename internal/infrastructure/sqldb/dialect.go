package sqldb

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/martijn/clientdb/internal/core/domain"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// SQLSTATE codes raised by PostgreSQL
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MySQL server error numbers
const (
	mysqlDuplicateEntry   = 1062
	mysqlNoReferencedRow  = 1452
	mysqlNoReferencedRow1 = 1216
)

type dialect struct {
	driver     Driver
	driverName string // database/sql driver name
	returning  bool   // INSERT ... RETURNING supported
	createDDL  []string
	dropDDL    []string
}

var dropTables = []string{
	`DROP TABLE IF EXISTS phone_numbers`,
	`DROP TABLE IF EXISTS clients`,
}

var dialects = map[Driver]*dialect{
	DriverSQLite: {
		driver:     DriverSQLite,
		driverName: "sqlite",
		returning:  true,
		createDDL: []string{
			`CREATE TABLE IF NOT EXISTS clients (
				client_id INTEGER PRIMARY KEY AUTOINCREMENT,
				first_name VARCHAR(50) NOT NULL,
				surname VARCHAR(50) NOT NULL,
				email VARCHAR(100) NOT NULL UNIQUE
			)`,
			`CREATE TABLE IF NOT EXISTS phone_numbers (
				phone_id INTEGER PRIMARY KEY AUTOINCREMENT,
				phone_number VARCHAR(50) NOT NULL UNIQUE,
				client_id INTEGER NOT NULL,
				FOREIGN KEY (client_id) REFERENCES clients(client_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_phone_numbers_client_id ON phone_numbers(client_id)`,
		},
		dropDDL: dropTables,
	},
	DriverPostgres: {
		driver:     DriverPostgres,
		driverName: "pgx",
		returning:  true,
		createDDL: []string{
			`CREATE TABLE IF NOT EXISTS clients (
				client_id SERIAL PRIMARY KEY,
				first_name VARCHAR(50) NOT NULL,
				surname VARCHAR(50) NOT NULL,
				email VARCHAR(100) NOT NULL UNIQUE
			)`,
			`CREATE TABLE IF NOT EXISTS phone_numbers (
				phone_id SERIAL PRIMARY KEY,
				phone_number VARCHAR(50) NOT NULL UNIQUE,
				client_id INTEGER NOT NULL REFERENCES clients(client_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_phone_numbers_client_id ON phone_numbers(client_id)`,
		},
		dropDDL: dropTables,
	},
	DriverMySQL: {
		driver:     DriverMySQL,
		driverName: "mysql",
		returning:  false,
		createDDL: []string{
			`CREATE TABLE IF NOT EXISTS clients (
				client_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
				first_name VARCHAR(50) NOT NULL,
				surname VARCHAR(50) NOT NULL,
				email VARCHAR(100) NOT NULL UNIQUE
			) ENGINE=InnoDB`,
			// InnoDB indexes foreign key columns on its own
			`CREATE TABLE IF NOT EXISTS phone_numbers (
				phone_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
				phone_number VARCHAR(50) NOT NULL UNIQUE,
				client_id BIGINT NOT NULL,
				CONSTRAINT fk_phone_numbers_client FOREIGN KEY (client_id) REFERENCES clients(client_id)
			) ENGINE=InnoDB`,
		},
		dropDDL: dropTables,
	},
}

// ParseDriver validates a configured driver name.
func ParseDriver(name string) (Driver, error) {
	d := Driver(name)
	if _, ok := dialects[d]; !ok {
		return "", fmt.Errorf("unsupported database driver: %q", name)
	}
	return d, nil
}

func dialectFor(driver Driver) (*dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}
	return d, nil
}

// classifyError maps driver constraint errors onto the domain sentinels.
// The driver error stays in the chain.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", domain.ErrUniqueViolation, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %w", domain.ErrReferentialViolation, err)
		}
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %w", domain.ErrUniqueViolation, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %w", domain.ErrReferentialViolation, err)
		}
		return err
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry:
			return fmt.Errorf("%w: %w", domain.ErrUniqueViolation, err)
		case mysqlNoReferencedRow, mysqlNoReferencedRow1:
			return fmt.Errorf("%w: %w", domain.ErrReferentialViolation, err)
		}
		return err
	}

	return err
}
