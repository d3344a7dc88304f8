package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// codeUndefinedTable is the PostgreSQL undefined_table SQLSTATE
const codeUndefinedTable = "42P01"

// IsUndefinedTable reports a query against a table that does not exist,
// which for the blob table means migrations have not run
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUndefinedTable
}
