package sqlstore

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"

	"github.com/sakif/jobly/internal/query"
)

// Registered once per process; every SQLite connection opened afterwards
// can call it.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction(query.FoldFunc, 1, foldCase)
}

// foldCase lower-cases text with Unicode rules. NULL stays NULL and other
// values pass through unchanged.
func foldCase(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	}
	return args[0], nil
}
