package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// MySQL/MariaDB server error numbers.
const (
	mysqlErrDupEntry        = 1062
	mysqlErrRowIsReferenced = 1451 // delete/update of a parent row with children
	mysqlErrNoReferencedRow = 1452 // insert/update of a child row without a parent
)

// sqliteFKMessage is the text SQLite reports for every foreign key failure.
const sqliteFKMessage = "FOREIGN KEY constraint failed"

// IsUniqueViolation reports whether err is a unique or primary key
// constraint failure from either supported driver.
func IsUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlErrDupEntry
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// IsForeignKeyViolation reports whether err is a foreign key constraint
// failure, in either direction: a missing parent on insert or a
// referenced parent on delete. SQLite enforces ON DELETE RESTRICT through
// an internal trigger, so that case arrives as a trigger constraint error
// carrying the foreign key message.
func IsForeignKeyViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlErrRowIsReferenced || myErr.Number == mysqlErrNoReferencedRow
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return true
		case sqlite3.ErrConstraintTrigger:
			return strings.Contains(liteErr.Error(), sqliteFKMessage)
		}
	}
	return false
}
