package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusValid, StatusOf(nil))
	assert.Equal(t, StatusValidWithWarnings, StatusOf([]Violation{
		Warnf(RuleCurrencyMismatch, "flightOffers[0]", "billing currency differs"),
	}))
	assert.Equal(t, StatusInvalid, StatusOf([]Violation{
		Warnf(RuleCurrencyMismatch, "flightOffers[0]", "billing currency differs"),
		Errorf(RuleDanglingReference, "flightOffers[0].travelerPricings[0]", "unknown traveler %q", "9"),
	}))
}

func TestReport_Count(t *testing.T) {
	r := Report{Violations: []Violation{
		Errorf(RuleDanglingReference, "a", "x"),
		Errorf(RuleDanglingReference, "b", "y"),
		Errorf(RuleSegmentCoverage, "c", "z"),
	}}
	assert.Equal(t, 2, r.Count(RuleDanglingReference))
	assert.Equal(t, 0, r.Count(RulePriceMismatch))
}

func TestEnums_Recognized(t *testing.T) {
	assert.True(t, CabinBusiness.Recognized())
	assert.False(t, Cabin("ULTRA_FIRST").Recognized())
	assert.True(t, DocumentPassport.Recognized())
	assert.False(t, DocumentType("DRIVING_LICENSE").Recognized())
	assert.True(t, FeeFormOfPayment.Recognized())
	assert.False(t, FeeType("BAGGAGE").Recognized())
	assert.True(t, TravelerHeldInfant.Recognized())
	assert.True(t, PurposeStandard.Recognized())
}

func TestFlightOffer_SegmentIDs(t *testing.T) {
	offer := FlightOffer{Itineraries: []Itinerary{
		{Segments: []Segment{{ID: "23"}, {ID: "24"}}},
		{Segments: []Segment{{ID: "63"}, {ID: "64"}}},
	}}
	assert.Equal(t, []string{"23", "24", "63", "64"}, offer.SegmentIDs())
}
