package codec

import "errors"

var (
	ErrMalformedDuration  = errors.New("malformed duration")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	ErrMalformedAmount    = errors.New("malformed amount")
	ErrInvalidCode        = errors.New("invalid code")
)

// Kind returns the report identifier for a codec error, or "" when err
// does not come from this package.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedDuration):
		return "MalformedDuration"
	case errors.Is(err, ErrMalformedTimestamp):
		return "MalformedTimestamp"
	case errors.Is(err, ErrMalformedAmount):
		return "MalformedAmount"
	case errors.Is(err, ErrInvalidCode):
		return "InvalidCode"
	default:
		return ""
	}
}
