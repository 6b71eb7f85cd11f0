package dbx

import (
	"database/sql"
	"fmt"
	"time"
)

// timestampLayouts are the text forms SQLite uses for TIMESTAMP values.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

type timeScanner struct {
	dst *time.Time
}

// Timestamp returns a Scanner that stores a TIMESTAMP column into dst.
// It accepts native time values as well as their text encodings, so the
// same scan works against PostgreSQL and SQLite.
func Timestamp(dst *time.Time) sql.Scanner {
	return &timeScanner{dst: dst}
}

func (s *timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s.dst = time.Time{}
		return nil
	case time.Time:
		*s.dst = v
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	default:
		return fmt.Errorf("dbx: cannot scan %T into time.Time", src)
	}
}

func (s *timeScanner) parse(v string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			*s.dst = t
			return nil
		}
	}
	return fmt.Errorf("dbx: unrecognised timestamp %q", v)
}
