package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// Every accepted amount fits int64 at maxScale, so rescaling never
// overflows.
const (
	maxScale     = 6
	maxDigits    = 18
	maxIntDigits = maxDigits - maxScale
)

// Amount is a fixed-point decimal: Units / 10^Scale in Currency. The scale
// of the original text is kept so "80.00" is written back as "80.00".
type Amount struct {
	units    int64
	scale    int
	currency string
}

func NewAmount(units int64, scale int, currency string) Amount {
	return Amount{units: units, scale: scale, currency: currency}
}

// ParseAmount parses a plain decimal string ("133.88", "0", "-5.5").
// Signs are rejected unless allowNegative is set; exponents and
// separators are never accepted.
func ParseAmount(raw, currency string, allowNegative bool) (Amount, error) {
	s := raw
	negative := false
	if strings.HasPrefix(s, "-") {
		if !allowNegative {
			return Amount{}, fmt.Errorf("%w: negative value %q", ErrMalformedAmount, raw)
		}
		negative = true
		s = s[1:]
	}

	intPart, fracPart, hasPoint := strings.Cut(s, ".")
	if intPart == "" || (hasPoint && fracPart == "") {
		return Amount{}, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}
	if len(fracPart) > maxScale || len(intPart) > maxIntDigits {
		return Amount{}, fmt.Errorf("%w: %q out of range", ErrMalformedAmount, raw)
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return Amount{}, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}

	units, err := strconv.ParseInt(intPart+fracPart, 10, 64)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}
	if negative {
		units = -units
	}
	return Amount{units: units, scale: len(fracPart), currency: currency}, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (a Amount) Units() int64 { return a.units }
func (a Amount) Scale() int { return a.scale }
func (a Amount) Currency() string { return a.currency }
func (a Amount) IsNegative() bool { return a.units < 0 }

func (a Amount) WithCurrency(currency string) Amount {
	a.currency = currency
	return a
}

// String renders the amount with its own scale.
func (a Amount) String() string {
	units := a.units
	sign := ""
	if units < 0 {
		sign = "-"
		units = -units
	}
	digits := strconv.FormatInt(units, 10)
	if a.scale == 0 {
		return sign + digits
	}
	if len(digits) <= a.scale {
		digits = strings.Repeat("0", a.scale-len(digits)+1) + digits
	}
	cut := len(digits) - a.scale
	return sign + digits[:cut] + "." + digits[cut:]
}

// Canonical pads the amount to the minor-unit exponent of its currency.
// Digits beyond the exponent are kept.
func (a Amount) Canonical() Amount {
	exp := CurrencyExponent(a.currency)
	if a.scale >= exp {
		return a
	}
	return a.rescale(exp)
}

func (a Amount) rescale(scale int) Amount {
	for a.scale < scale {
		a.units *= 10
		a.scale++
	}
	return a
}

// Add returns a+b at the larger of both scales, in a's currency.
func (a Amount) Add(b Amount) Amount {
	s := max(a.scale, b.scale)
	x, y := a.rescale(s), b.rescale(s)
	return Amount{units: x.units + y.units, scale: s, currency: a.currency}
}

func (a Amount) Sub(b Amount) Amount {
	return a.Add(Amount{units: -b.units, scale: b.scale, currency: b.currency})
}

// Cmp compares the numeric values of a and b, ignoring currency.
func (a Amount) Cmp(b Amount) int {
	d := a.Sub(b).units
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}

// WithinMinorUnits reports whether |a-b| is at most n minor units of a's
// currency.
func WithinMinorUnits(a, b Amount, n int) bool {
	exp := CurrencyExponent(a.currency)
	s := max(a.scale, b.scale, exp)
	d := a.rescale(s).units - b.rescale(s).units
	if d < 0 {
		d = -d
	}
	tolerance := int64(n)
	for i := exp; i < s; i++ {
		tolerance *= 10
	}
	return d <= tolerance
}

// Sum adds amounts starting from zero in the given currency.
func Sum(currency string, amounts ...Amount) Amount {
	total := Amount{currency: currency}
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

var currencyExponents = map[string]int{
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0, "KRW": 0,
	"PYG": 0, "RWF": 0, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0, "XOF": 0, "XPF": 0,
}

// CurrencyExponent returns the ISO 4217 minor-unit exponent, defaulting
// to 2.
func CurrencyExponent(currency string) int {
	if exp, ok := currencyExponents[currency]; ok {
		return exp
	}
	return 2
}
