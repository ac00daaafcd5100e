package codec

import (
	"fmt"
	"regexp"
)

var (
	airportPattern  = regexp.MustCompile(`^[A-Z]{3}$`)
	carrierPattern  = regexp.MustCompile(`^(?:[A-Z0-9]{2}|[A-Z]{3})$`)
	aircraftPattern = regexp.MustCompile(`^[A-Z0-9]{3}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	countryPattern  = regexp.MustCompile(`^[A-Z]{2}$`)
)

func ParseAirport(raw string) (string, error) {
	return matchCode(airportPattern, "airport", raw)
}

// ParseCarrier accepts two-character IATA designators (at least one
// letter, e.g. "F9") and three-letter ICAO designators.
func ParseCarrier(raw string) (string, error) {
	code, err := matchCode(carrierPattern, "carrier", raw)
	if err != nil {
		return "", err
	}
	if len(code) == 2 && isDigit(code[0]) && isDigit(code[1]) {
		return "", fmt.Errorf("%w: carrier %q", ErrInvalidCode, raw)
	}
	return code, nil
}

func ParseAircraft(raw string) (string, error) {
	return matchCode(aircraftPattern, "aircraft", raw)
}

func ParseCurrency(raw string) (string, error) {
	return matchCode(currencyPattern, "currency", raw)
}

func ParseCountry(raw string) (string, error) {
	return matchCode(countryPattern, "country", raw)
}

func matchCode(pattern *regexp.Regexp, what, raw string) (string, error) {
	if !pattern.MatchString(raw) {
		return "", fmt.Errorf("%w: %s %q", ErrInvalidCode, what, raw)
	}
	return raw, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
