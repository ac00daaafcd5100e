package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxDurationMinutes bounds every parsed duration.
const MaxDurationMinutes = math.MaxInt32

// ParseDuration reads an ISO-8601 style duration such as "PT5H29M" or
// "P1DT2H" and returns the total number of minutes. Days fold into hours;
// seconds are not accepted.
func ParseDuration(raw string) (int, error) {
	if !strings.HasPrefix(raw, "P") || len(raw) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, raw)
	}

	rest := raw[1:]
	total := 0
	components := 0

	datePart, timePart, hasTime := strings.Cut(rest, "T")
	if datePart != "" {
		days, err := takeUnits(datePart, "D")
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, raw)
		}
		if days[0] > MaxDurationMinutes/(24*60) {
			return 0, fmt.Errorf("%w: %q out of range", ErrMalformedDuration, raw)
		}
		total += days[0] * 24 * 60
		components++
	}

	if hasTime {
		if timePart == "" {
			return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, raw)
		}
		values, err := takeUnits(timePart, "HM")
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, raw)
		}
		if values[0] > MaxDurationMinutes/60 || values[1] > MaxDurationMinutes {
			return 0, fmt.Errorf("%w: %q out of range", ErrMalformedDuration, raw)
		}
		total += values[0]*60 + values[1]
		components++
	}

	if total > MaxDurationMinutes {
		return 0, fmt.Errorf("%w: %q out of range", ErrMalformedDuration, raw)
	}

	if components == 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, raw)
	}
	return total, nil
}

// takeUnits consumes "<n><unit>" groups in the order given by units. Each
// unit may appear at most once; missing units read as zero.
func takeUnits(s string, units string) ([]int, error) {
	values := make([]int, len(units))
	next := 0
	for s != "" {
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 || i == len(s) {
			return nil, fmt.Errorf("expected number and unit in %q", s)
		}
		pos := strings.IndexByte(units[next:], s[i])
		if pos < 0 {
			return nil, fmt.Errorf("unexpected unit %q", s[i])
		}
		n, err := strconv.Atoi(s[:i])
		if err != nil {
			return nil, err
		}
		values[next+pos] = n
		next += pos + 1
		s = s[i+1:]
	}
	return values, nil
}

// FormatDuration renders minutes in the canonical "PT{h}H{m}M" form with
// zero units omitted. Zero formats as "PT0M".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	var b strings.Builder
	b.WriteString("PT")
	if h > 0 {
		b.WriteString(strconv.Itoa(h))
		b.WriteByte('H')
	}
	if m > 0 || h == 0 {
		b.WriteString(strconv.Itoa(m))
		b.WriteByte('M')
	}
	return b.String()
}
