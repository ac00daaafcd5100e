package codec

import (
	"fmt"
	"time"
)

const (
	localLayout      = "2006-01-02T15:04:05"
	localShortLayout = "2006-01-02T15:04"
	dateLayout       = "2006-01-02"
)

// LocalTime is a wall-clock airport time without zone information. The
// wrapped time.Time is always in UTC so that comparisons operate on the
// wall-clock values only.
type LocalTime struct {
	t time.Time
}

func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{t: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)}
}

// parseExact is time.Parse without the fractional seconds it tolerates
// after a seconds field.
func parseExact(layout, raw string) (time.Time, error) {
	if len(raw) != len(layout) {
		return time.Time{}, fmt.Errorf("length %d, want %d", len(raw), len(layout))
	}
	return time.Parse(layout, raw)
}

func ParseLocalTime(raw string) (LocalTime, error) {
	t, err := parseExact(localLayout, raw)
	if err != nil {
		t, err = parseExact(localShortLayout, raw)
	}
	if err != nil {
		return LocalTime{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, raw)
	}
	return LocalTime{t: t}, nil
}

// ParseInterval parses a departure/arrival pair and requires the arrival
// to be strictly after the departure.
func ParseInterval(departure, arrival string) (LocalTime, LocalTime, error) {
	dep, err := ParseLocalTime(departure)
	if err != nil {
		return LocalTime{}, LocalTime{}, err
	}
	arr, err := ParseLocalTime(arrival)
	if err != nil {
		return LocalTime{}, LocalTime{}, err
	}
	if !arr.After(dep) {
		return LocalTime{}, LocalTime{}, fmt.Errorf("%w: arrival %s is not after departure %s", ErrMalformedTimestamp, arrival, departure)
	}
	return dep, arr, nil
}

func (l LocalTime) Time() time.Time { return l.t }
func (l LocalTime) IsZero() bool { return l.t.IsZero() }
func (l LocalTime) After(o LocalTime) bool { return l.t.After(o.t) }
func (l LocalTime) Before(o LocalTime) bool { return l.t.Before(o.t) }
func (l LocalTime) Sub(o LocalTime) time.Duration { return l.t.Sub(o.t) }

func (l LocalTime) String() string {
	return l.t.Format(localLayout)
}

// Date is a calendar date such as a birth or expiry date.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(raw string) (Date, error) {
	t, err := parseExact(dateLayout, raw)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, raw)
	}
	return Date{t: t}, nil
}

func (d Date) Time() time.Time { return d.t }
func (d Date) IsZero() bool { return d.t.IsZero() }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) String() string {
	return d.t.Format(dateLayout)
}
