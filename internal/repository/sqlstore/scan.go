package sqlstore

import (
	"fmt"
	"time"
)

// TIMESTAMPS IN SQLITE:
// SQLite has no date type. modernc.org/sqlite writes a time.Time as TEXT and
// may hand it back as a string, while pgx always returns time.Time. Scanning
// through timeScanner gives both backends the same model.Job.

// timeLayouts are the textual forms a timestamp can come back in when the
// driver does not hand us a time.Time (SQLite stores DATETIME as TEXT).
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// timeScanner is a sql.Scanner that accepts time.Time, string or []byte.
type timeScanner struct {
	t *time.Time
}

func scanTime(t *time.Time) *timeScanner { return &timeScanner{t: t} }

func (s *timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*s.t = v.UTC()
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	case nil:
		*s.t = time.Time{}
		return nil
	}
	return fmt.Errorf("sqlstore: cannot scan %T into time.Time", src)
}

func (s *timeScanner) parse(v string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			*s.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("sqlstore: unrecognised timestamp %q", v)
}
