package validation

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/offercheck/internal/codec"
	"github.com/Domenick1991/offercheck/internal/domain"
	"github.com/Domenick1991/offercheck/internal/resolver"
	"github.com/Domenick1991/offercheck/internal/schema"
)

func fixtureDoc(t *testing.T) string {
	t.Helper()
	raw, err := os.ReadFile("../engine/testdata/offers.json")
	require.NoError(t, err)
	return string(raw)
}

func fixtureInput(t *testing.T, edit func(string) string) *Input {
	t.Helper()
	doc := fixtureDoc(t)
	if edit != nil {
		doc = edit(doc)
	}
	payload, violations, err := schema.Decode([]byte(doc))
	require.NoError(t, err)
	require.Empty(t, violations)
	return resolved(payload)
}

func resolved(p *domain.Payload) *Input {
	res, _ := resolver.Resolve(p)
	return &Input{Payload: p, Resolution: res}
}

func byRule(vs []domain.Violation, rule string) []domain.Violation {
	out := make([]domain.Violation, 0)
	for _, v := range vs {
		if v.RuleID == rule {
			out = append(out, v)
		}
	}
	return out
}

func TestValidator_FixtureIsValid(t *testing.T) {
	v := NewValidator(DefaultRules(DefaultSettings())...)
	violations := v.Validate(fixtureInput(t, nil))
	assert.Empty(t, violations)
	assert.Equal(t, domain.StatusValid, domain.StatusOf(violations))
}

func TestValidator_CabinBrandIsOptIn(t *testing.T) {
	in := fixtureInput(t, nil)

	assert.Empty(t, NewValidator(DefaultRules(DefaultSettings())...).Validate(in))

	got := NewValidator(CabinBrand{}).Validate(in)
	require.Len(t, got, 4)
	assert.Equal(t, domain.RuleCabinBrandMismatch, got[0].RuleID)
	assert.Equal(t, domain.SeverityWarning, got[0].Severity)
	assert.Equal(t, domain.StatusValidWithWarnings, domain.StatusOf(got))
	assert.Equal(t, "flightOffers[0].travelerPricings[0].fareDetailsBySegment[0].brandedFare", got[0].Path)
	assert.Contains(t, got[0].Message, "for JORGE GONZALES on JFK-LAS")
	assert.Contains(t, got[3].Message, "on LAS-JFK")
}

func TestValidator_RunsEveryRule(t *testing.T) {
	in := fixtureInput(t, func(doc string) string {
		doc = strings.Replace(doc, `"numberOfStops": 0`, `"numberOfStops": 1`, 1)
		return strings.Replace(doc, `"amount": "10.72"`, `"amount": "11.72"`, 1)
	})
	got := NewValidator(DefaultRules(DefaultSettings())...).Validate(in)
	assert.Len(t, byRule(got, domain.RuleInconsistentStopCount), 1)
	assert.NotEmpty(t, byRule(got, domain.RulePriceMismatch))
}

func TestPriceArithmetic_Fixture(t *testing.T) {
	in := fixtureInput(t, nil)
	tp := in.Payload.Offers[0].TravelerPricings[0].Price

	taxes := sumTaxes(tp)
	assert.Equal(t, "53.88", taxes.String())
	assert.Equal(t, "133.88", tp.Base.Add(taxes).String())

	assert.Empty(t, PriceArithmetic{Tolerance: 1}.Check(in))
}

func TestPriceArithmetic_Tolerance(t *testing.T) {
	in := fixtureInput(t, func(doc string) string {
		return strings.Replace(doc, `"amount": "19.92"`, `"amount": "19.93"`, 1)
	})
	assert.Empty(t, PriceArithmetic{Tolerance: 1}.Check(in))

	got := PriceArithmetic{Tolerance: 0}.Check(in)
	require.NotEmpty(t, got)
	assert.Equal(t, "flightOffers[0].travelerPricings[0].price.total", got[0].Path)
}

func TestPriceArithmetic_Mismatch(t *testing.T) {
	in := fixtureInput(t, func(doc string) string {
		return strings.Replace(doc, `"total": "133.88"`, `"total": "150.00"`, 1)
	})
	got := PriceArithmetic{Tolerance: 1}.Check(in)

	paths := make([]string, 0)
	for _, v := range got {
		assert.Equal(t, domain.RulePriceMismatch, v.RuleID)
		paths = append(paths, v.Path)
	}
	assert.Contains(t, paths, "flightOffers[0].price.total")
	assert.Contains(t, paths, "flightOffers[0].price.grandTotal")
}

func TestPriceArithmetic_GrandTotal(t *testing.T) {
	in := fixtureInput(t, func(doc string) string {
		return strings.Replace(doc, `"grandTotal": "133.88"`, `"grandTotal": "140.00"`, 1)
	})
	got := PriceArithmetic{Tolerance: 1}.Check(in)
	require.Len(t, got, 1)
	assert.Equal(t, domain.SeverityWarning, got[0].Severity)

	in = fixtureInput(t, func(doc string) string {
		return strings.Replace(doc, `"grandTotal": "133.88"`, `"grandTotal": "100.00"`, 1)
	})
	got = PriceArithmetic{Tolerance: 1}.Check(in)
	require.Len(t, got, 1)
	assert.Equal(t, domain.SeverityError, got[0].Severity)
}

func TestPriceArithmetic_NegativeFee(t *testing.T) {
	in := fixtureInput(t, nil)
	price := &in.Payload.Offers[0].Price
	price.Fees[0].Amount = codec.NewAmount(-100, 2, "EUR")
	price.Total = codec.NewAmount(13288, 2, "EUR")
	gt := price.Total
	price.GrandTotal = &gt

	got := PriceArithmetic{Tolerance: 1}.Check(in)
	// offer arithmetic holds, traveler totals no longer add up
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "sum of traveler totals")
}

func TestCurrencyConsistency(t *testing.T) {
	in := fixtureInput(t, func(doc string) string {
		return strings.Replace(doc, `"billingCurrency": "EUR"`, `"billingCurrency": "USD"`, 1)
	})
	got := CurrencyConsistency{}.Check(in)
	require.Len(t, got, 1)
	assert.Equal(t, domain.SeverityWarning, got[0].Severity)
	assert.Equal(t, "flightOffers[0].price.billingCurrency", got[0].Path)
}

func TestSegmentCoverage(t *testing.T) {
	t.Run("omitted", func(t *testing.T) {
		in := fixtureInput(t, nil)
		tp := &in.Payload.Offers[0].TravelerPricings[0]
		tp.FareDetailsBySegment = tp.FareDetailsBySegment[:3]

		got := SegmentCoverage{}.Check(in)
		require.Len(t, got, 1)
		assert.Contains(t, got[0].Message, `"64"`)
	})
	t.Run("covered twice", func(t *testing.T) {
		in := fixtureInput(t, func(doc string) string {
			return strings.Replace(doc, `"segmentId": "24"`, `"segmentId": "23"`, 1)
		})
		got := SegmentCoverage{}.Check(in)
		require.Len(t, got, 2)
		assert.Contains(t, got[0].Message, `"23" has 2`)
		assert.Contains(t, got[1].Message, `"24" has no`)
	})
	t.Run("duplicate declaration", func(t *testing.T) {
		payload, _, err := schema.Decode([]byte(strings.Replace(fixtureDoc(t), `"id": "24"`, `"id": "23"`, 1)))
		require.NoError(t, err)
		in := resolved(payload)

		assert.Empty(t, SegmentCoverage{}.Check(in))
	})
	t.Run("dangling detail", func(t *testing.T) {
		in := fixtureInput(t, func(doc string) string {
			return strings.Replace(doc, `"segmentId": "64"`, `"segmentId": "99"`, 1)
		})
		got := SegmentCoverage{}.Check(in)
		require.Len(t, got, 1)
		assert.Contains(t, got[0].Message, `"64" has no`)
	})
}

func TestChronology(t *testing.T) {
	t.Run("overlapping connection", func(t *testing.T) {
		in := fixtureInput(t, func(doc string) string {
			return strings.Replace(doc, `"at": "2025-03-12T12:15:00"`, `"at": "2025-03-12T09:00:00"`, 1)
		})
		got := Chronology{}.Check(in)
		require.Len(t, got, 1)
		assert.Equal(t, "flightOffers[0].itineraries[0].segments[1].departure.at", got[0].Path)
	})
	t.Run("arrival before departure", func(t *testing.T) {
		in := fixtureInput(t, nil)
		seg := &in.Payload.Offers[0].Itineraries[1].Segments[0]
		seg.Arrival.At = seg.Departure.At

		got := Chronology{}.Check(in)
		require.Len(t, got, 1)
		assert.Equal(t, "flightOffers[0].itineraries[1].segments[0].arrival.at", got[0].Path)
	})
}

func TestHolderUniqueness(t *testing.T) {
	in := fixtureInput(t, nil)
	traveler := &in.Payload.Travelers[0]
	second := traveler.Documents[0]
	second.Number = "11111111"
	visa := second
	visa.DocumentType = domain.DocumentVisa
	traveler.Documents = append(traveler.Documents, visa, second)

	got := HolderUniqueness{}.Check(in)
	require.Len(t, got, 1)
	assert.Equal(t, domain.RuleDuplicateHolderDocument, got[0].RuleID)
	assert.Equal(t, "travelers[0].documents[2].holder", got[0].Path)
}

func TestDurationConsistency(t *testing.T) {
	in := fixtureInput(t, nil)
	assert.Empty(t, DurationConsistency{}.Check(in))

	seg := &in.Payload.Offers[0].Itineraries[0].Segments[0]
	seg.Arrival.At = codec.NewLocalTime(seg.Departure.At.Time().Add(40 * time.Hour))
	got := DurationConsistency{}.Check(in)
	require.Len(t, got, 1)
	assert.Equal(t, domain.SeverityWarning, got[0].Severity)

	in = fixtureInput(t, nil)
	short := 60
	in.Payload.Offers[0].Itineraries[0].DurationMinutes = &short
	got = DurationConsistency{}.Check(in)
	require.Len(t, got, 1)
	assert.Equal(t, "flightOffers[0].itineraries[0].duration", got[0].Path)
}

func TestUnrecognizedValues(t *testing.T) {
	in := fixtureInput(t, func(doc string) string {
		doc = strings.Replace(doc, `"cabin": "BUSINESS"`, `"cabin": "SLEEPER"`, 1)
		return strings.Replace(doc, `"documentType": "PASSPORT"`, `"documentType": "DRIVING_LICENSE"`, 1)
	})
	got := UnrecognizedValues{}.Check(in)
	require.Len(t, got, 2)
	assert.Equal(t, "flightOffers[0].travelerPricings[0].fareDetailsBySegment[0].cabin", got[0].Path)
	assert.Equal(t, "travelers[0].documents[0].documentType", got[1].Path)
	assert.Equal(t, domain.Cabin("SLEEPER"), in.Payload.Offers[0].TravelerPricings[0].FareDetailsBySegment[0].Cabin)
}

func TestRulesByID(t *testing.T) {
	rules, err := RulesByID(nil, DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, NewValidator(DefaultRules(DefaultSettings())...).RuleIDs(), NewValidator(rules...).RuleIDs())

	rules, err = RulesByID([]string{domain.RuleCabinBrandMismatch, domain.RulePriceMismatch}, Settings{PriceTolerance: 3})
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, domain.RuleCabinBrandMismatch, rules[0].ID())
	assert.Equal(t, PriceArithmetic{Tolerance: 3}, rules[1])

	_, err = RulesByID([]string{"NoSuchRule"}, DefaultSettings())
	assert.True(t, errors.Is(err, ErrUnknownRule))
}

func TestKnownRuleIDs(t *testing.T) {
	ids := KnownRuleIDs()
	assert.Len(t, ids, 9)
	assert.Equal(t, domain.RuleSegmentCoverage, ids[0])
	assert.Equal(t, domain.RuleCabinBrandMismatch, ids[len(ids)-1])

	rules, err := RulesByID(ids, DefaultSettings())
	require.NoError(t, err)
	assert.Len(t, rules, len(ids))
}
