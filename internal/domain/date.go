package domain

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time of day, stored as midnight UTC.
type Date struct{ t time.Time }

// NewDate returns the date y-m-d.
func NewDate(y int, m time.Month, d int) Date {
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate accepts "YYYY-MM-DD" or an RFC3339 timestamp, keeping only the date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("date must be YYYY-MM-DD or RFC3339, got %q", s)
}

func (d Date) Time() time.Time { return d.t }

func (d Date) String() string { return d.t.Format(dateLayout) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int { return d.t.Compare(o.t) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON reports bad input as *json.UnmarshalTypeError so the decoder
// fills in the path of the offending member.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &json.UnmarshalTypeError{Value: string(data), Type: dateType}
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "string " + string(data), Type: dateType}
	}
	*d = parsed
	return nil
}

var dateType = reflect.TypeOf(Date{})

// IsDateType reports whether t is Date.
func IsDateType(t reflect.Type) bool { return t == dateType }

// DatePtr converts a nullable timestamp column to a nullable date.
func DatePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := DateOf(*t)
	return &d
}

// TimePtr is the inverse of DatePtr.
func (d *Date) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.t
	return &t
}
