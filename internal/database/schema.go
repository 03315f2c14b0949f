package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Dialect selects the DDL used by Migrate.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// EmployeeTable is the table backing the SQL employee repository.
const EmployeeTable = "employee"

var schemas = map[Dialect]string{
	DialectPostgres: `
	CREATE TABLE IF NOT EXISTS employee (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL,
		salary DOUBLE PRECISION NOT NULL DEFAULT 0,
		reports_to BIGINT NULL
	)`,
	DialectSQLite: `
	CREATE TABLE IF NOT EXISTS employee (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL,
		salary REAL NOT NULL DEFAULT 0,
		reports_to INTEGER NULL
	)`,
}

// Migrate creates the employee table when it does not exist.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	ddl, ok := schemas[dialect]
	if !ok {
		return fmt.Errorf("unsupported dialect %q", dialect)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to migrate %s schema: %w", dialect, err)
	}
	return nil
}
