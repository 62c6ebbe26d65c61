package entities

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a string is not a valid YYYY-MM-DD calendar date
var ErrInvalidDate = errors.New("invalid calendar date")

// DateLayout is the only accepted textual form of a Date
const DateLayout = "2006-01-02"

// Date represents a calendar date (year, month, day) with no time of day and no zone.
// Two Dates compare equal whenever their components are equal, regardless of where
// they were parsed.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate creates a Date, normalizing out-of-range components the way time.Date does
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current local calendar date
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string by splitting it into calendar components.
// It never goes through a zone-carrying timestamp. Every part must be plain ASCII
// digits: signs, spaces and other padding are rejected rather than coerced.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 ||
		!allDigits(parts[0]) || !allDigits(parts[1]) || !allDigits(parts[2]) {
		return Date{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD)", ErrInvalidDate, s)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q: bad year", ErrInvalidDate, s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Date{}, fmt.Errorf("%w: %q: bad month", ErrInvalidDate, s)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > daysIn(time.Month(month), year) {
		return Date{}, fmt.Errorf("%w: %q: bad day", ErrInvalidDate, s)
	}

	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

// MustParseDate is like ParseDate but panics on malformed input. Intended for tests and fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// midnightUTC is only used for day arithmetic; the zone never leaks out of a Date.
func (d Date) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d (n may be negative)
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnightUTC().AddDate(0, 0, n))
}

// Compare returns -1 if d is before other, 1 if after, 0 if equal
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Before reports whether d is strictly earlier than other
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

// After reports whether d is strictly later than other
func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

// Equal reports whether d and other are the same calendar day
func (d Date) Equal(other Date) bool {
	return d.Compare(other) == 0
}

// String formats the date as YYYY-MM-DD, or "" for the zero Date
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner for DATE columns
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		// lib/pq hands DATE values back as midnight in UTC; the components are what matter.
		*d = DateOf(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	// DATE text may arrive as a full timestamp; only the calendar prefix is meaningful.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer; the zero Date is stored as NULL
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}
