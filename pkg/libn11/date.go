package libn11

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
)

// DateLayout is the layout of the dates sent to n11 (dd/mm/yyyy).
const DateLayout = "02/01/2006"

// A Date is a calendar date rendered as dd/mm/yyyy.
type Date struct {
	time.Time
}

// NewDate returns the Date of the given time.
func NewDate(t time.Time) *Date {
	return &Date{Time: t}
}

// ParseDate parses s as dd/mm/yyyy, any other layout is parsed leniently.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{Time: t}, nil
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return Date{}, errors.Wrapf(err, "could not parse date %q", s)
	}
	return Date{Time: t}, nil
}

// String implements fmt.Stringer.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}

	v, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "date must be a string")
	}
	return d.UnmarshalText([]byte(s))
}
