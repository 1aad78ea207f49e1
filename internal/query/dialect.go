// Package query renders the parameterized SQL statements the store runs:
// the partial-update statement shared by every table and the fixed-shape
// search statements for companies and jobs.
//
// Nothing here talks to a database. Each function returns SQL text plus an
// ordered argument slice, which keeps the builders trivially testable.
package query

import "fmt"

// FoldFunc is the SQL function SQLiteDialect calls to lower-case both sides
// of a pattern match. The store registers it with the SQLite driver.
const FoldFunc = "unicode_lower"

// Dialect captures the SQL flavour differences the builders care about.
type Dialect interface {
	// Name is the database/sql driver name registered for this flavour.
	Name() string
	// Placeholder returns the positional parameter marker for index (1-based).
	Placeholder(index int) string
	// Match renders a case-insensitive LIKE of column against the pattern
	// bound at placeholder.
	Match(column, placeholder string) string
}

// PostgresDialect renders $1, $2 placeholders and uses ILIKE.
type PostgresDialect struct{}

func (PostgresDialect) Name() string { return "pgx" }

func (PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index)
}

func (PostgresDialect) Match(column, placeholder string) string {
	return column + " ILIKE " + placeholder
}

// SQLiteDialect renders ?1, ?2 placeholders. SQLite's own LIKE and lower()
// only fold ASCII, so both sides go through FoldFunc and "école" matches
// "ÉCOLE".
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string { return "sqlite" }

func (SQLiteDialect) Placeholder(index int) string {
	return fmt.Sprintf("?%d", index)
}

func (SQLiteDialect) Match(column, placeholder string) string {
	return fmt.Sprintf("%[1]s(%[2]s) LIKE %[1]s(%[3]s)", FoldFunc, column, placeholder)
}
