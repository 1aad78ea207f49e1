package query

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNoChanges is returned when Build is called with an empty change set.
	ErrNoChanges = errors.New("query: no fields to update")
	// ErrUnknownColumn is returned for a table or column outside the allow-list.
	ErrUnknownColumn = errors.New("query: unknown column")
	// ErrDuplicateColumn is returned when the same column appears twice in one change set.
	ErrDuplicateColumn = errors.New("query: duplicate column")
)

// IDENTIFIERS VS VALUES:
// Placeholders ($1, ?1) can only carry values. Table and column names have
// to be written into the SQL text, so they are checked first: against the
// schema when one is set, against this pattern otherwise.
//
// identifier is the shape every table and column name must have when no
// schema is configured. Identifiers are interpolated, never bound, so they
// are never allowed to carry quotes, spaces or punctuation.
var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Set is one column assignment. A slice of Sets keeps the caller's order,
// which fixes the order of placeholders and arguments.
type Set struct {
	Column string
	Value  any
}

// UpdateBuilder renders partial UPDATE statements for any table.
type UpdateBuilder struct {
	dialect Dialect
	schema  map[string]map[string]bool // map[table]map[column]bool
}

func NewUpdateBuilder(dialect Dialect) *UpdateBuilder {
	return &UpdateBuilder{dialect: dialect}
}

// WithSchema restricts Build to the given tables and columns.
// Without a schema, only the identifier shape is checked.
func (b *UpdateBuilder) WithSchema(schema map[string]map[string]bool) *UpdateBuilder {
	b.schema = schema
	return b
}

// Build renders
//
//	UPDATE <table> SET c1=<p1>, c2=<p2> WHERE <idColumn>=<pN+1> RETURNING *
//
// and returns the change values in order followed by idValue.
func (b *UpdateBuilder) Build(table string, changes []Set, idColumn string, idValue any) (string, []any, error) {
	if len(changes) == 0 {
		return "", nil, ErrNoChanges
	}
	if err := b.checkTable(table); err != nil {
		return "", nil, err
	}
	if err := b.checkColumn(table, idColumn); err != nil {
		return "", nil, err
	}

	seen := make(map[string]bool, len(changes))
	assignments := make([]string, 0, len(changes))
	args := make([]any, 0, len(changes)+1)

	for i, c := range changes {
		if err := b.checkColumn(table, c.Column); err != nil {
			return "", nil, err
		}
		if seen[c.Column] {
			return "", nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, c.Column)
		}
		seen[c.Column] = true

		assignments = append(assignments, c.Column+"="+b.dialect.Placeholder(i+1))
		args = append(args, c.Value)
	}
	args = append(args, idValue)

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(table)
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(assignments, ", "))
	sb.WriteString(" WHERE ")
	sb.WriteString(idColumn)
	sb.WriteString("=")
	sb.WriteString(b.dialect.Placeholder(len(changes) + 1))
	sb.WriteString(" RETURNING *")

	return sb.String(), args, nil
}

func (b *UpdateBuilder) checkTable(table string) error {
	if !identifier.MatchString(table) {
		return fmt.Errorf("%w: table %q", ErrUnknownColumn, table)
	}
	if b.schema != nil {
		if _, ok := b.schema[table]; !ok {
			return fmt.Errorf("%w: table %q", ErrUnknownColumn, table)
		}
	}
	return nil
}

func (b *UpdateBuilder) checkColumn(table, column string) error {
	if !identifier.MatchString(column) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	if b.schema != nil && !b.schema[table][column] {
		return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
	}
	return nil
}
