package sqlstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/query"
)

type violation int

const (
	noViolation violation = iota
	uniqueViolation
	foreignKeyViolation
	checkViolation
)

// PostgreSQL SQLSTATE codes for integrity constraint violations.
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// classify reports which constraint err violated and, when the driver
// says so, the offending column.
func classify(err error) (violation, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return uniqueViolation, pgKeyColumn(pgErr.Detail)
		case pgForeignKeyViolation:
			return foreignKeyViolation, pgKeyColumn(pgErr.Detail)
		case pgCheckViolation, pgNotNullViolation:
			return checkViolation, pgErr.ColumnName
		}
		return noViolation, ""
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		column := sqliteColumn(liteErr.Error())
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return uniqueViolation, column
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return foreignKeyViolation, column
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return checkViolation, column
		}
		// Primary result code only: fall back to the message text.
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			msg := liteErr.Error()
			switch {
			case strings.Contains(msg, "UNIQUE constraint failed"):
				return uniqueViolation, column
			case strings.Contains(msg, "FOREIGN KEY constraint failed"):
				return foreignKeyViolation, ""
			default:
				return checkViolation, column
			}
		}
	}
	return noViolation, ""
}

// pgKeyColumn extracts "name" from a detail like
// `Key (name)=(Apple) already exists.`
func pgKeyColumn(detail string) string {
	start := strings.Index(detail, "Key (")
	if start < 0 {
		return ""
	}
	rest := detail[start+len("Key ("):]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return ""
	}
	return rest[:end]
}

// sqliteColumn extracts "name" from a message like
// `constraint failed: UNIQUE constraint failed: companies.name (2067)`.
func sqliteColumn(msg string) string {
	i := strings.LastIndex(msg, "failed: ")
	if i < 0 {
		return ""
	}
	target := msg[i+len("failed: "):]
	if j := strings.IndexAny(target, " ,"); j >= 0 {
		target = target[:j]
	}
	if j := strings.LastIndexByte(target, '.'); j >= 0 {
		target = target[j+1:]
	}
	return target
}

// storeError turns constraint violations into application errors and wraps
// anything else.
//
// CONSTRAINT MAPPING:
//
//	UNIQUE / PRIMARY KEY → apperror.ErrConflict   (409)
//	FOREIGN KEY          → apperror.ErrValidation (400)
//	CHECK / NOT NULL     → apperror.ErrValidation (400)
//	anything else        → wrapped, becomes a 500 keys maps unique columns to the values the caller tried to
// write, so a conflict message can name them.
func storeError(err error, op, resource string, keys map[string]string) error {
	kind, column := classify(err)
	switch kind {
	case uniqueViolation:
		if v, ok := keys[column]; ok {
			return apperror.Conflict(resource, column, v)
		}
		return &apperror.AppError{
			Err:     apperror.ErrConflict,
			Message: resource + " already exists",
			Field:   column,
		}
	case foreignKeyViolation:
		return apperror.ValidationFailed(column, resource+" references a row that does not exist")
	case checkViolation:
		return apperror.ValidationFailed(column, fmt.Sprintf("%s violates a constraint on %s", resource, orUnknown(column)))
	}
	return fmt.Errorf("sqlstore: %s %s: %w", op, resource, err)
}

// builderError maps UpdateBuilder rejections to validation errors.
func builderError(err error) error {
	switch {
	case errors.Is(err, query.ErrNoChanges):
		return apperror.ValidationFailed("", "no fields to update")
	case errors.Is(err, query.ErrUnknownColumn), errors.Is(err, query.ErrDuplicateColumn):
		return apperror.ValidationFailed("", err.Error())
	}
	return err
}

func orUnknown(column string) string {
	if column == "" {
		return "a column"
	}
	return column
}
