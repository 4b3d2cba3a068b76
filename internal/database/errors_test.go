package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"mysql wrapped", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062}), true},
		{"mysql fk", &mysql.MySQLError{Number: 1452}, false},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, true},
		{"sqlite pk", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, true},
		{"sqlite fk", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, false},
		{"other", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"mysql no parent", &mysql.MySQLError{Number: 1452}, true},
		{"mysql referenced", &mysql.MySQLError{Number: 1451}, true},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062}, false},
		{"sqlite fk", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, true},
		{"sqlite wrapped", fmt.Errorf("delete: %w", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}), true},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, false},
		{"sqlite raise trigger", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintTrigger}, false},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsForeignKeyViolation(tt.err); got != tt.want {
				t.Errorf("IsForeignKeyViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestIsForeignKeyViolation_SQLiteActions deletes a referenced parent under
// each ON DELETE action SQLite rejects. RESTRICT fails through an internal
// trigger with a different extended code than NO ACTION.
func TestIsForeignKeyViolation_SQLiteActions(t *testing.T) {
	for _, action := range []string{"NO ACTION", "RESTRICT"} {
		t.Run(action, func(t *testing.T) {
			db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
			if err != nil {
				t.Fatal(err)
			}
			defer db.Close()
			db.SetMaxOpenConns(1)

			ctx := context.Background()
			stmts := []string{
				`CREATE TABLE parent (id INTEGER PRIMARY KEY)`,
				`CREATE TABLE child (id INTEGER PRIMARY KEY, parent_id INTEGER NOT NULL REFERENCES parent (id) ON DELETE ` + action + `)`,
				`INSERT INTO parent (id) VALUES (1)`,
				`INSERT INTO child (id, parent_id) VALUES (1, 1)`,
			}
			for _, stmt := range stmts {
				if _, err := db.ExecContext(ctx, stmt); err != nil {
					t.Fatalf("%s: %v", stmt, err)
				}
			}

			_, err = db.ExecContext(ctx, `DELETE FROM parent WHERE id = 1`)
			if err == nil {
				t.Fatal("expected delete of referenced parent to fail")
			}
			if !IsForeignKeyViolation(err) {
				t.Errorf("IsForeignKeyViolation(%v) = false, want true", err)
			}
			if IsUniqueViolation(err) {
				t.Errorf("IsUniqueViolation(%v) = true, want false", err)
			}
		})
	}
}
