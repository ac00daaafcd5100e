package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Domenick1991/offercheck/internal/codec"
	"github.com/Domenick1991/offercheck/internal/domain"
)

var (
	// ErrMalformedDocument means the input is not a search response at all;
	// no report can be produced for it.
	ErrMalformedDocument = errors.New("malformed document")

	ErrMissingField   = errors.New("missing required field")
	ErrMalformedField = errors.New("malformed field")
)

const RuleMalformedField = "MalformedField"

// ParseError locates a primitive that could not be parsed. It aborts the
// construction of the offer or traveler that contains it.
type ParseError struct {
	Path  string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Kind is the report rule id for this failure.
func (e *ParseError) Kind() string {
	if kind := codec.Kind(e.Err); kind != "" {
		return kind
	}
	if errors.Is(e.Err, ErrMissingField) {
		return domain.RuleMissingField
	}
	return RuleMalformedField
}

func (e *ParseError) Violation() domain.Violation {
	return domain.Errorf(e.Kind(), e.Path, "%v", e.Err)
}

type envelope struct {
	FlightOffers []json.RawMessage `json:"flightOffers"`
	Travelers    []json.RawMessage `json:"travelers"`
}

// Decode builds the typed model from raw JSON. Offers and travelers that
// fail to parse are left out of the payload and reported as violations;
// an error is returned only when the input is not a search response.
func Decode(raw []byte) (*domain.Payload, []domain.Violation, error) {
	var env envelope
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&env); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, nil, fmt.Errorf("%w: trailing data after document", ErrMalformedDocument)
	}
	if env.FlightOffers == nil && env.Travelers == nil {
		return nil, nil, fmt.Errorf("%w: neither flightOffers nor travelers present", ErrMalformedDocument)
	}

	payload := &domain.Payload{
		Offers:    make([]domain.FlightOffer, 0, len(env.FlightOffers)),
		Travelers: make([]domain.Traveler, 0, len(env.Travelers)),
	}
	violations := make([]domain.Violation, 0)

	for i, item := range env.FlightOffers {
		var w FlightOffer
		if err := json.Unmarshal(item, &w); err != nil {
			violations = append(violations, (&ParseError{Path: domain.OfferPath(i), Err: fmt.Errorf("%w: %v", ErrMalformedField, err)}).Violation())
			continue
		}
		offer, err := decodeOffer(i, w)
		if err != nil {
			violations = append(violations, toViolation(err))
			continue
		}
		payload.Offers = append(payload.Offers, offer)
	}

	for i, item := range env.Travelers {
		var w Traveler
		if err := json.Unmarshal(item, &w); err != nil {
			violations = append(violations, (&ParseError{Path: domain.TravelerPath(i), Err: fmt.Errorf("%w: %v", ErrMalformedField, err)}).Violation())
			continue
		}
		traveler, err := decodeTraveler(i, w)
		if err != nil {
			violations = append(violations, toViolation(err))
			continue
		}
		payload.Travelers = append(payload.Travelers, traveler)
	}

	return payload, violations, nil
}

func toViolation(err error) domain.Violation {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Violation()
	}
	return domain.Errorf(RuleMalformedField, "", "%v", err)
}

func fail(path, value string, err error) error {
	return &ParseError{Path: path, Value: value, Err: err}
}

func requireField(path, value string) error {
	if value == "" {
		return fail(path, value, ErrMissingField)
	}
	return nil
}

func decodeOffer(pos int, w FlightOffer) (domain.FlightOffer, error) {
	path := domain.OfferPath(pos)
	offer := domain.FlightOffer{
		Position:              pos,
		Type:                  w.Type,
		ID:                    w.ID,
		Source:                w.Source,
		InstantTicketing:      w.InstantTicketingRequired,
		NonHomogeneous:        w.NonHomogeneous,
		OneWay:                w.OneWay,
		NumberOfBookableSeats: w.NumberOfBookableSeats,
	}
	if err := requireField(path+".id", w.ID); err != nil {
		return domain.FlightOffer{}, err
	}

	if w.LastTicketingDate != "" {
		d, err := codec.ParseDate(w.LastTicketingDate)
		if err != nil {
			return domain.FlightOffer{}, fail(path+".lastTicketingDate", w.LastTicketingDate, err)
		}
		offer.LastTicketingDate = &d
	}

	if len(w.Itineraries) == 0 {
		return domain.FlightOffer{}, fail(path+".itineraries", "", ErrMissingField)
	}
	for i, wi := range w.Itineraries {
		it, err := decodeItinerary(pos, i, wi)
		if err != nil {
			return domain.FlightOffer{}, err
		}
		offer.Itineraries = append(offer.Itineraries, it)
	}

	price, err := decodePrice(path+".price", w.Price)
	if err != nil {
		return domain.FlightOffer{}, err
	}
	offer.Price = price

	if w.PricingOptions != nil {
		opts := &domain.PricingOptions{IncludedCheckedBagsOnly: w.PricingOptions.IncludedCheckedBagsOnly}
		for _, ft := range w.PricingOptions.FareType {
			opts.FareType = append(opts.FareType, domain.FareType(ft))
		}
		offer.PricingOptions = opts
	}

	for i, code := range w.ValidatingAirlineCodes {
		c, err := codec.ParseCarrier(code)
		if err != nil {
			return domain.FlightOffer{}, fail(fmt.Sprintf("%s.validatingAirlineCodes[%d]", path, i), code, err)
		}
		offer.ValidatingAirlineCodes = append(offer.ValidatingAirlineCodes, c)
	}

	for i, wp := range w.TravelerPricings {
		tp, err := decodeTravelerPricing(domain.TravelerPricingPath(pos, i), wp)
		if err != nil {
			return domain.FlightOffer{}, err
		}
		offer.TravelerPricings = append(offer.TravelerPricings, tp)
	}

	return offer, nil
}

func decodeItinerary(offer, idx int, w Itinerary) (domain.Itinerary, error) {
	path := fmt.Sprintf("%s.itineraries[%d]", domain.OfferPath(offer), idx)
	var it domain.Itinerary
	if w.Duration != "" {
		minutes, err := codec.ParseDuration(w.Duration)
		if err != nil {
			return domain.Itinerary{}, fail(path+".duration", w.Duration, err)
		}
		it.DurationMinutes = &minutes
	}
	if len(w.Segments) == 0 {
		return domain.Itinerary{}, fail(path+".segments", "", ErrMissingField)
	}
	for i, ws := range w.Segments {
		seg, err := decodeSegment(domain.SegmentPath(offer, idx, i), ws)
		if err != nil {
			return domain.Itinerary{}, err
		}
		it.Segments = append(it.Segments, seg)
	}
	return it, nil
}

func decodeSegment(path string, w Segment) (domain.Segment, error) {
	if err := requireField(path+".id", w.ID); err != nil {
		return domain.Segment{}, err
	}
	seg := domain.Segment{
		ID:            w.ID,
		Number:        w.Number,
		NumberOfStops: w.NumberOfStops,
		Departure:     domain.Endpoint{Terminal: w.Departure.Terminal},
		Arrival:       domain.Endpoint{Terminal: w.Arrival.Terminal},
	}

	var err error
	if seg.Departure.IATACode, err = codec.ParseAirport(w.Departure.IATACode); err != nil {
		return domain.Segment{}, fail(path+".departure.iataCode", w.Departure.IATACode, err)
	}
	if seg.Arrival.IATACode, err = codec.ParseAirport(w.Arrival.IATACode); err != nil {
		return domain.Segment{}, fail(path+".arrival.iataCode", w.Arrival.IATACode, err)
	}
	if _, err = codec.ParseLocalTime(w.Departure.At); err != nil {
		return domain.Segment{}, fail(path+".departure.at", w.Departure.At, err)
	}
	if seg.Departure.At, seg.Arrival.At, err = codec.ParseInterval(w.Departure.At, w.Arrival.At); err != nil {
		return domain.Segment{}, fail(path+".arrival.at", w.Arrival.At, err)
	}
	if seg.CarrierCode, err = codec.ParseCarrier(w.CarrierCode); err != nil {
		return domain.Segment{}, fail(path+".carrierCode", w.CarrierCode, err)
	}
	if w.Aircraft != nil {
		if seg.AircraftCode, err = codec.ParseAircraft(w.Aircraft.Code); err != nil {
			return domain.Segment{}, fail(path+".aircraft.code", w.Aircraft.Code, err)
		}
	}
	if w.Operating != nil && w.Operating.CarrierCode != "" {
		if seg.OperatingCarrier, err = codec.ParseCarrier(w.Operating.CarrierCode); err != nil {
			return domain.Segment{}, fail(path+".operating.carrierCode", w.Operating.CarrierCode, err)
		}
	}
	if seg.DurationMinutes, err = codec.ParseDuration(w.Duration); err != nil {
		return domain.Segment{}, fail(path+".duration", w.Duration, err)
	}

	for _, e := range w.Co2Emissions {
		seg.Co2Emissions = append(seg.Co2Emissions, domain.Co2Emission{
			Weight:     e.Weight,
			WeightUnit: domain.WeightUnit(e.WeightUnit),
			Cabin:      domain.Cabin(e.Cabin),
		})
	}
	return seg, nil
}

func decodePrice(path string, w Price) (domain.Price, error) {
	currency, err := codec.ParseCurrency(w.Currency)
	if err != nil {
		return domain.Price{}, fail(path+".currency", w.Currency, err)
	}
	price := domain.Price{Currency: currency}

	if err := requireField(path+".total", w.Total); err != nil {
		return domain.Price{}, err
	}
	if price.Total, err = codec.ParseAmount(w.Total, currency, false); err != nil {
		return domain.Price{}, fail(path+".total", w.Total, err)
	}
	if err := requireField(path+".base", w.Base); err != nil {
		return domain.Price{}, err
	}
	if price.Base, err = codec.ParseAmount(w.Base, currency, false); err != nil {
		return domain.Price{}, fail(path+".base", w.Base, err)
	}
	if w.GrandTotal != "" {
		gt, err := codec.ParseAmount(w.GrandTotal, currency, false)
		if err != nil {
			return domain.Price{}, fail(path+".grandTotal", w.GrandTotal, err)
		}
		price.GrandTotal = &gt
	}
	if w.RefundableTaxes != "" {
		rt, err := codec.ParseAmount(w.RefundableTaxes, currency, false)
		if err != nil {
			return domain.Price{}, fail(path+".refundableTaxes", w.RefundableTaxes, err)
		}
		price.RefundableTaxes = &rt
	}
	if w.BillingCurrency != "" {
		if price.BillingCurrency, err = codec.ParseCurrency(w.BillingCurrency); err != nil {
			return domain.Price{}, fail(path+".billingCurrency", w.BillingCurrency, err)
		}
	}

	// fees may be negative (rebates); taxes may not
	for i, f := range w.Fees {
		amount, err := codec.ParseAmount(f.Amount, currency, true)
		if err != nil {
			return domain.Price{}, fail(fmt.Sprintf("%s.fees[%d].amount", path, i), f.Amount, err)
		}
		price.Fees = append(price.Fees, domain.Fee{Amount: amount, Type: domain.FeeType(f.Type)})
	}
	for i, t := range w.Taxes {
		amount, err := codec.ParseAmount(t.Amount, currency, false)
		if err != nil {
			return domain.Price{}, fail(fmt.Sprintf("%s.taxes[%d].amount", path, i), t.Amount, err)
		}
		price.Taxes = append(price.Taxes, domain.Tax{Amount: amount, Code: t.Code})
	}
	return price, nil
}

func decodeTravelerPricing(path string, w TravelerPricing) (domain.TravelerPricing, error) {
	if err := requireField(path+".travelerId", w.TravelerID); err != nil {
		return domain.TravelerPricing{}, err
	}
	price, err := decodePrice(path+".price", w.Price)
	if err != nil {
		return domain.TravelerPricing{}, err
	}
	tp := domain.TravelerPricing{
		TravelerID:   w.TravelerID,
		FareOption:   w.FareOption,
		TravelerType: domain.TravelerType(w.TravelerType),
		Price:        price,
	}
	for i, fd := range w.FareDetailsBySegment {
		if err := requireField(fmt.Sprintf("%s.fareDetailsBySegment[%d].segmentId", path, i), fd.SegmentID); err != nil {
			return domain.TravelerPricing{}, err
		}
		tp.FareDetailsBySegment = append(tp.FareDetailsBySegment, domain.FareDetail{
			SegmentID:   fd.SegmentID,
			Cabin:       domain.Cabin(fd.Cabin),
			FareBasis:   fd.FareBasis,
			BrandedFare: fd.BrandedFare,
			Class:       fd.Class,
		})
	}
	return tp, nil
}

func decodeTraveler(pos int, w Traveler) (domain.Traveler, error) {
	path := domain.TravelerPath(pos)
	if err := requireField(path+".id", w.ID); err != nil {
		return domain.Traveler{}, err
	}
	traveler := domain.Traveler{
		Position: pos,
		ID:       w.ID,
		Gender:   domain.Gender(w.Gender),
		Name:     domain.Name{FirstName: w.Name.FirstName, LastName: w.Name.LastName},
	}
	if w.DateOfBirth != "" {
		dob, err := codec.ParseDate(w.DateOfBirth)
		if err != nil {
			return domain.Traveler{}, fail(path+".dateOfBirth", w.DateOfBirth, err)
		}
		traveler.DateOfBirth = dob
	}

	for i, wd := range w.Documents {
		doc, err := decodeDocument(domain.DocumentPath(pos, i), wd)
		if err != nil {
			return domain.Traveler{}, err
		}
		traveler.Documents = append(traveler.Documents, doc)
	}

	if w.Contact != nil {
		contact := &domain.Contact{Purpose: domain.ContactPurpose(w.Contact.Purpose), EmailAddress: w.Contact.EmailAddress}
		for _, p := range w.Contact.Phones {
			contact.Phones = append(contact.Phones, domain.Phone{
				DeviceType:         domain.DeviceType(p.DeviceType),
				CountryCallingCode: p.CountryCallingCode,
				Number:             p.Number,
			})
		}
		traveler.Contact = contact
	}
	return traveler, nil
}

func decodeDocument(path string, w Document) (domain.Document, error) {
	if err := requireField(path+".documentType", w.DocumentType); err != nil {
		return domain.Document{}, err
	}
	doc := domain.Document{
		Number:           w.Number,
		IssuanceLocation: w.IssuanceLocation,
		BirthPlace:       w.BirthPlace,
		DocumentType:     domain.DocumentType(w.DocumentType),
		Holder:           w.Holder,
	}

	var err error
	if w.IssuanceDate != "" {
		d, err := codec.ParseDate(w.IssuanceDate)
		if err != nil {
			return domain.Document{}, fail(path+".issuanceDate", w.IssuanceDate, err)
		}
		doc.IssuanceDate = &d
	}
	if w.ExpiryDate != "" {
		d, err := codec.ParseDate(w.ExpiryDate)
		if err != nil {
			return domain.Document{}, fail(path+".expiryDate", w.ExpiryDate, err)
		}
		doc.ExpiryDate = &d
	}
	if w.IssuanceCountry != "" {
		if doc.IssuanceCountry, err = codec.ParseCountry(w.IssuanceCountry); err != nil {
			return domain.Document{}, fail(path+".issuanceCountry", w.IssuanceCountry, err)
		}
	}
	if w.Nationality != "" {
		if doc.Nationality, err = codec.ParseCountry(w.Nationality); err != nil {
			return domain.Document{}, fail(path+".nationality", w.Nationality, err)
		}
	}
	return doc, nil
}
