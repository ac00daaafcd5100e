package domain

import "github.com/Domenick1991/offercheck/internal/codec"

// Payload is one search response: the offers plus the travelers they are
// priced for. Offers and travelers that failed to parse are absent; their
// failures are carried in the report instead.
type Payload struct {
	Offers    []FlightOffer
	Travelers []Traveler
}

type FlightOffer struct {
	// Position is the index of the offer in the source document.
	Position int

	Type                   string
	ID                     string
	Source                 string
	InstantTicketing       *bool
	NonHomogeneous         *bool
	OneWay                 *bool
	LastTicketingDate      *codec.Date
	NumberOfBookableSeats  *int
	Itineraries            []Itinerary
	Price                  Price
	PricingOptions         *PricingOptions
	ValidatingAirlineCodes []string
	TravelerPricings       []TravelerPricing
}

type Itinerary struct {
	DurationMinutes *int
	Segments        []Segment
}

type Endpoint struct {
	IATACode string
	Terminal string
	At       codec.LocalTime
}

type Segment struct {
	ID               string
	Departure        Endpoint
	Arrival          Endpoint
	CarrierCode      string
	Number           string
	AircraftCode     string
	OperatingCarrier string
	DurationMinutes  int
	NumberOfStops    int
	Co2Emissions     []Co2Emission
}

type Co2Emission struct {
	Weight     int
	WeightUnit WeightUnit
	Cabin      Cabin
}

type Fee struct {
	Amount codec.Amount
	Type   FeeType
}

type Tax struct {
	Amount codec.Amount
	Code   string
}

// Price is shared by the offer level (fees, grand total) and the traveler
// level (taxes, refundable taxes).
type Price struct {
	Currency        string
	Total           codec.Amount
	Base            codec.Amount
	GrandTotal      *codec.Amount
	Fees            []Fee
	Taxes           []Tax
	RefundableTaxes *codec.Amount
	BillingCurrency string
}

type PricingOptions struct {
	FareType                []FareType
	IncludedCheckedBagsOnly bool
}

type TravelerPricing struct {
	TravelerID           string
	FareOption           string
	TravelerType         TravelerType
	Price                Price
	FareDetailsBySegment []FareDetail
}

// FareDetail points at a Segment of the same offer through SegmentID.
// The link is resolved by lookup, never by ownership.
type FareDetail struct {
	SegmentID   string
	Cabin       Cabin
	FareBasis   string
	BrandedFare string
	Class       string
}

// SegmentIDs lists the segment ids of every itinerary in declaration order.
func (o *FlightOffer) SegmentIDs() []string {
	ids := make([]string, 0)
	for _, it := range o.Itineraries {
		for _, s := range it.Segments {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
