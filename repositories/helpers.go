package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError // Возвращаем переданную ошибку "не найдено"
	}
	return nil
}

// isUniqueViolation reports whether err is a unique constraint failure on table.column.
// Postgres constraints follow the default <table>_<column>_key naming.
func isUniqueViolation(err error, table, column string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == table+"_"+column+"_key"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return isSQLiteConstraint(liteErr, "UNIQUE") &&
			strings.Contains(liteErr.Error(), table+"."+column)
	}
	return false
}

// isForeignKeyViolation reports whether err is a foreign key failure.
// SQLite does not name the violated constraint, so only the class is checked there.
func isForeignKeyViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503" && (constraint == "" || pqErr.Constraint == constraint)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return isSQLiteConstraint(liteErr, "FOREIGN KEY")
	}
	return false
}

// isSQLiteConstraint matches both primary and extended result codes.
func isSQLiteConstraint(err *sqlite.Error, kind string) bool {
	return err.Code()&0xff == sqlite3.SQLITE_CONSTRAINT &&
		strings.Contains(err.Error(), kind+" constraint failed")
}

func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	s := ns.String
	return &s
}

func nullableInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}
