package normalize

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/offercheck/internal/codec"
	"github.com/Domenick1991/offercheck/internal/domain"
	"github.com/Domenick1991/offercheck/internal/schema"
)

func decode(t *testing.T, raw []byte) *domain.Payload {
	t.Helper()
	payload, violations, err := schema.Decode(raw)
	require.NoError(t, err)
	require.Empty(t, violations)
	return payload
}

func fixture(t *testing.T) *domain.Payload {
	t.Helper()
	raw, err := os.ReadFile("../engine/testdata/offers.json")
	require.NoError(t, err)
	return decode(t, raw)
}

func TestNormalize_Idempotent(t *testing.T) {
	first, err := Normalize(fixture(t))
	require.NoError(t, err)

	second, err := Normalize(decode(t, first))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestNormalize_Format(t *testing.T) {
	out, err := Normalize(fixture(t))
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, `{"flightOffers":[{"type":"flight-offer","id":"1","source":"GDS","nonHomogeneous":false,"lastTicketingDate":"2025-02-26","itineraries":`))
	assert.Contains(t, s, `"at":"2025-03-12T06:59:00"`)
	assert.Contains(t, s, `"duration":"PT5H29M"`)
	assert.Contains(t, s, `"base":"80.00"`)
	assert.Contains(t, s, `"fees":[{"amount":"0.00","type":"TICKETING"},{"amount":"0.00","type":"SUPPLIER"},{"amount":"0.00","type":"FORM_OF_PAYMENT"}]`)
	assert.Contains(t, s, `"emailAddress":"jorge.gonzales833@telefonica.es"`)
	assert.False(t, strings.HasSuffix(s, "\n"))
}

func TestNormalize_DeterministicOrdering(t *testing.T) {
	canonical, err := Normalize(fixture(t))
	require.NoError(t, err)

	shuffled := fixture(t)
	o := &shuffled.Offers[0]
	segs := o.Itineraries[0].Segments
	segs[0], segs[1] = segs[1], segs[0]
	fees := o.Price.Fees
	fees[0], fees[2] = fees[2], fees[0]
	taxes := o.TravelerPricings[0].Price.Taxes
	taxes[0], taxes[3] = taxes[3], taxes[0]
	details := o.TravelerPricings[0].FareDetailsBySegment
	details[0], details[3] = details[3], details[0]
	o.ValidatingAirlineCodes = []string{"F9", "F9"}

	out, err := Normalize(shuffled)
	require.NoError(t, err)
	assert.Equal(t, string(canonical), string(out))
}

func TestCanonicalize_Amounts(t *testing.T) {
	p := fixture(t)
	price := &p.Offers[0].Price
	price.Base = codec.NewAmount(8, 0, "EUR")
	price.Fees = append(price.Fees, domain.Fee{Amount: codec.NewAmount(15, 1, "EUR"), Type: "BAGGAGE"})

	out := Canonicalize(p)

	got := out.Offers[0].Price
	assert.Equal(t, "8.00", got.Base.String())
	require.Len(t, got.Fees, 4)
	assert.Equal(t, domain.FeeType("BAGGAGE"), got.Fees[3].Type)
	assert.Equal(t, "1.50", got.Fees[3].Amount.String())

	// input untouched
	assert.Equal(t, "8", p.Offers[0].Price.Base.String())
}

func TestCanonicalize_UnknownFareDetailsLast(t *testing.T) {
	p := fixture(t)
	tp := &p.Offers[0].TravelerPricings[0]
	tp.FareDetailsBySegment = append([]domain.FareDetail{{SegmentID: "99"}}, tp.FareDetailsBySegment...)

	out := Canonicalize(p)
	ids := make([]string, 0)
	for _, fd := range out.Offers[0].TravelerPricings[0].FareDetailsBySegment {
		ids = append(ids, fd.SegmentID)
	}
	assert.Equal(t, []string{"23", "24", "63", "64", "99"}, ids)
}
