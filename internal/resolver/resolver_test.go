package resolver

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/offercheck/internal/domain"
	"github.com/Domenick1991/offercheck/internal/schema"
)

func decodeFixture(t *testing.T, edit func(string) string) *domain.Payload {
	t.Helper()
	raw, err := os.ReadFile("../engine/testdata/offers.json")
	require.NoError(t, err)
	doc := string(raw)
	if edit != nil {
		doc = edit(doc)
	}
	payload, violations, err := schema.Decode([]byte(doc))
	require.NoError(t, err)
	require.Empty(t, violations)
	return payload
}

func TestResolve_Fixture(t *testing.T) {
	payload := decodeFixture(t, nil)

	res, violations := Resolve(payload)
	assert.Empty(t, violations)

	for i, want := range []string{"23", "24", "63", "64"} {
		seg, ok := res.FareSegment(0, 0, i)
		require.True(t, ok, want)
		assert.Equal(t, want, seg.ID)
	}
	seg, ok := res.Segment(0, "63")
	require.True(t, ok)
	assert.Equal(t, "ONT", seg.Departure.IATACode)

	ref, ok := res.FareSegmentRef(0, 0, 3)
	require.True(t, ok)
	assert.Equal(t, SegmentRef{Itinerary: 1, Segment: 1}, ref)

	traveler, ok := res.PricedTraveler(0, 0)
	require.True(t, ok)
	assert.Equal(t, "GONZALES", traveler.Name.LastName)
}

func TestResolve_DanglingSegment(t *testing.T) {
	payload := decodeFixture(t, func(doc string) string {
		return strings.Replace(doc, `"segmentId": "64"`, `"segmentId": "99"`, 1)
	})

	res, violations := Resolve(payload)
	require.Len(t, violations, 1)
	assert.Equal(t, domain.RuleDanglingReference, violations[0].RuleID)
	assert.Equal(t, "flightOffers[0].travelerPricings[0].fareDetailsBySegment[3].segmentId", violations[0].Path)

	_, ok := res.FareSegment(0, 0, 3)
	assert.False(t, ok)
	_, ok = res.FareSegment(0, 0, 2)
	assert.True(t, ok)
}

func TestResolve_DanglingTraveler(t *testing.T) {
	payload := decodeFixture(t, func(doc string) string {
		return strings.Replace(doc, `"travelerId": "1"`, `"travelerId": "7"`, 1)
	})

	_, violations := Resolve(payload)
	require.Len(t, violations, 1)
	assert.Equal(t, domain.RuleDanglingReference, violations[0].RuleID)
	assert.Equal(t, "flightOffers[0].travelerPricings[0].travelerId", violations[0].Path)
}

func TestResolve_DuplicateSegmentKeepsResolving(t *testing.T) {
	payload := decodeFixture(t, func(doc string) string {
		return strings.Replace(doc, `"id": "24"`, `"id": "23"`, 1)
	})

	res, violations := Resolve(payload)

	var dup, dangling int
	for _, v := range violations {
		switch v.RuleID {
		case domain.RuleDuplicateSegmentID:
			dup++
			assert.Equal(t, "flightOffers[0].itineraries[0].segments[1].id", v.Path)
		case domain.RuleDanglingReference:
			dangling++
		}
	}
	assert.Equal(t, 1, dup)
	// fare detail for "24" no longer has a declaration
	assert.Equal(t, 1, dangling)

	seg, ok := res.FareSegment(0, 0, 0)
	require.True(t, ok)
	assert.Equal(t, "JFK", seg.Departure.IATACode, "first declaration wins")
	_, ok = res.FareSegment(0, 0, 2)
	assert.True(t, ok)
	_, ok = res.FareSegment(0, 0, 3)
	assert.True(t, ok)
}

func TestResolve_DuplicateTraveler(t *testing.T) {
	payload := decodeFixture(t, nil)
	second := payload.Travelers[0]
	second.Position = 1
	second.Name.FirstName = "ANA"
	payload.Travelers = append(payload.Travelers, second)

	res, violations := Resolve(payload)
	require.Len(t, violations, 1)
	assert.Equal(t, domain.RuleDuplicateTravelerID, violations[0].RuleID)
	assert.Equal(t, "travelers[1].id", violations[0].Path)

	traveler, ok := res.PricedTraveler(0, 0)
	require.True(t, ok)
	assert.Equal(t, "JORGE", traveler.Name.FirstName)
}

func TestResolve_DoesNotMutate(t *testing.T) {
	payload := decodeFixture(t, nil)
	before := payload.Offers[0].TravelerPricings[0].FareDetailsBySegment[0]

	Resolve(payload)

	assert.Equal(t, before, payload.Offers[0].TravelerPricings[0].FareDetailsBySegment[0])
	_, ok := (&Resolution{}).Segment(3, "23")
	assert.False(t, ok)
}
