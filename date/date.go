// Package date provides a day-granularity Date type and a chronological
// series of dated values.
package date

import (
	"encoding"
	"fmt"
	"time"
)

// Layout is the ISO-8601 layout dates are written with.
const Layout = "2006-01-02"

// lenient also accepts single-digit months and days.
const lenient = "2006-1-2"

// Date is a calendar day. The zero Date is not a valid day.
type Date struct {
	t time.Time // midnight UTC
}

// New returns the Date for the given year, month, and day. Out of range
// values are normalized the way time.Date does.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local date.
func Today() Date { return New(time.Now().Date()) }

func (d Date) IsZero() bool { return d.t.IsZero() }
func (d Date) Before(x Date) bool { return d.t.Before(x.t) }
func (d Date) After(x Date) bool { return d.t.After(x.t) }
func (d Date) Compare(x Date) int { return d.t.Compare(x.t) }
func (d Date) Year() int { return d.t.Year() }
func (d Date) Add(days int) Date { return Date{d.t.AddDate(0, 0, days)} }
func (d Date) String() string { return d.t.Format(Layout) }

// AddYears returns the same day n years later, or earlier when n is negative.
// A day missing from the target month is clamped to its last day, so Feb 29
// minus one year is Feb 28.
func (d Date) AddYears(n int) Date {
	y, m, day := d.t.Date()
	y += n
	if last := New(y, m+1, 0).t.Day(); day > last {
		day = last
	}
	return New(y, m, day)
}

// Parse reads a "YYYY-M-D" date.
func Parse(s string) (Date, error) { return ParseLayout(lenient, s) }

// ParseLayout reads a date written with a time layout.
func ParseLayout(layout, s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", s, layout, err)
	}
	return New(t.Date()), nil
}

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

var (
	_ encoding.TextMarshaler   = Date{}
	_ encoding.TextUnmarshaler = (*Date)(nil)
)
