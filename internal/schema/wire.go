package schema

// Wire types mirror the upstream JSON contract. Field declaration order is
// the key order of canonical output.

type Payload struct {
	FlightOffers []FlightOffer `json:"flightOffers"`
	Travelers    []Traveler    `json:"travelers"`
}

type FlightOffer struct {
	Type                     string            `json:"type"`
	ID                       string            `json:"id"`
	Source                   string            `json:"source"`
	InstantTicketingRequired *bool             `json:"instantTicketingRequired,omitempty"`
	NonHomogeneous           *bool             `json:"nonHomogeneous,omitempty"`
	OneWay                   *bool             `json:"oneWay,omitempty"`
	LastTicketingDate        string            `json:"lastTicketingDate,omitempty"`
	NumberOfBookableSeats    *int              `json:"numberOfBookableSeats,omitempty"`
	Itineraries              []Itinerary       `json:"itineraries"`
	Price                    Price             `json:"price"`
	PricingOptions           *PricingOptions   `json:"pricingOptions,omitempty"`
	ValidatingAirlineCodes   []string          `json:"validatingAirlineCodes"`
	TravelerPricings         []TravelerPricing `json:"travelerPricings"`
}

type Itinerary struct {
	Duration string    `json:"duration,omitempty"`
	Segments []Segment `json:"segments"`
}

type Endpoint struct {
	IATACode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

type Segment struct {
	Departure     Endpoint      `json:"departure"`
	Arrival       Endpoint      `json:"arrival"`
	CarrierCode   string        `json:"carrierCode"`
	Number        string        `json:"number"`
	Aircraft      *Aircraft     `json:"aircraft,omitempty"`
	Operating     *Operating    `json:"operating,omitempty"`
	Duration      string        `json:"duration"`
	ID            string        `json:"id"`
	NumberOfStops int           `json:"numberOfStops"`
	Co2Emissions  []Co2Emission `json:"co2Emissions,omitempty"`
}

type Aircraft struct {
	Code string `json:"code"`
}

type Operating struct {
	CarrierCode string `json:"carrierCode"`
}

type Co2Emission struct {
	Weight     int    `json:"weight"`
	WeightUnit string `json:"weightUnit"`
	Cabin      string `json:"cabin"`
}

type Price struct {
	Currency        string `json:"currency"`
	Total           string `json:"total"`
	Base            string `json:"base"`
	Fees            []Fee  `json:"fees,omitempty"`
	GrandTotal      string `json:"grandTotal,omitempty"`
	Taxes           []Tax  `json:"taxes,omitempty"`
	RefundableTaxes string `json:"refundableTaxes,omitempty"`
	BillingCurrency string `json:"billingCurrency,omitempty"`
}

type Fee struct {
	Amount string `json:"amount"`
	Type   string `json:"type"`
}

type Tax struct {
	Amount string `json:"amount"`
	Code   string `json:"code"`
}

type PricingOptions struct {
	FareType                []string `json:"fareType"`
	IncludedCheckedBagsOnly bool     `json:"includedCheckedBagsOnly"`
}

type TravelerPricing struct {
	TravelerID           string       `json:"travelerId"`
	FareOption           string       `json:"fareOption"`
	TravelerType         string       `json:"travelerType"`
	Price                Price        `json:"price"`
	FareDetailsBySegment []FareDetail `json:"fareDetailsBySegment"`
}

type FareDetail struct {
	SegmentID   string `json:"segmentId"`
	Cabin       string `json:"cabin"`
	FareBasis   string `json:"fareBasis"`
	BrandedFare string `json:"brandedFare,omitempty"`
	Class       string `json:"class"`
}

type Traveler struct {
	ID          string     `json:"id"`
	DateOfBirth string     `json:"dateOfBirth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Name        Name       `json:"name"`
	Documents   []Document `json:"documents,omitempty"`
	Contact     *Contact   `json:"contact,omitempty"`
}

type Name struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Document struct {
	Number           string `json:"number"`
	IssuanceDate     string `json:"issuanceDate,omitempty"`
	ExpiryDate       string `json:"expiryDate,omitempty"`
	IssuanceCountry  string `json:"issuanceCountry,omitempty"`
	IssuanceLocation string `json:"issuanceLocation,omitempty"`
	Nationality      string `json:"nationality,omitempty"`
	BirthPlace       string `json:"birthPlace,omitempty"`
	DocumentType     string `json:"documentType"`
	Holder           bool   `json:"holder"`
}

type Contact struct {
	Purpose      string  `json:"purpose,omitempty"`
	Phones       []Phone `json:"phones,omitempty"`
	EmailAddress string  `json:"emailAddress,omitempty"`
}

type Phone struct {
	DeviceType         string `json:"deviceType,omitempty"`
	CountryCallingCode string `json:"countryCallingCode,omitempty"`
	Number             string `json:"number"`
}
