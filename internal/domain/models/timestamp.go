package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const (
	dateLayout      = "2006-01-02"
	civilTimeLayout = "2006-01-02T15:04:05"
)

// Timestamp decodes the instants sent by the upstream services. They arrive
// either as ISO-8601 strings, plain yyyy-MM-dd dates or epoch milliseconds.
//
// Values written without a zone are civil: their fields are kept as written
// (stored in UTC) and no zone conversion applies when reading their year.
type Timestamp struct {
	time.Time
	civil bool
}

// NewTimestamp wraps the instant t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// NewCivilTimestamp builds a zone-less date time from its written fields.
func NewCivilTimestamp(year int, month time.Month, day, hour, min, sec int) Timestamp {
	return Timestamp{Time: time.Date(year, month, day, hour, min, sec, 0, time.UTC), civil: true}
}

// Civil reports whether t was written without a zone.
func (t Timestamp) Civil() bool {
	return t.civil
}

// YearIn returns the year of t as observed in loc. Civil values keep the year
// they were written with.
func (t Timestamp) YearIn(loc *time.Location) int {
	if t.civil {
		return t.Time.Year()
	}
	return YearIn(t.Time, loc)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	t.civil = false
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if data[0] != '"' {
		millis, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("decode timestamp %s: %w", data, err)
		}
		t.Time = time.UnixMilli(millis)
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000-0700"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}

	for _, layout := range []string{civilTimeLayout + ".999999999", dateLayout} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			t.civil = true
			return nil
		}
	}

	return fmt.Errorf("decode timestamp %q: unsupported format", raw)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	if t.civil {
		return json.Marshal(t.Format(civilTimeLayout))
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// YearIn returns the calendar year of t as observed in loc. A nil loc means
// the process local zone. Every report groups by this value.
func YearIn(t time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Year()
}
