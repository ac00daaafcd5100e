package schema

import (
	"bytes"
	"encoding/json"

	"github.com/Domenick1991/offercheck/internal/codec"
	"github.com/Domenick1991/offercheck/internal/domain"
)

// Marshal writes the payload in wire form, keeping the order of every
// slice as given. Output is compact JSON without HTML escaping.
func Marshal(p *domain.Payload) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(FromDomain(p)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func FromDomain(p *domain.Payload) Payload {
	out := Payload{
		FlightOffers: make([]FlightOffer, 0, len(p.Offers)),
		Travelers:    make([]Traveler, 0, len(p.Travelers)),
	}
	for _, o := range p.Offers {
		out.FlightOffers = append(out.FlightOffers, encodeOffer(o))
	}
	for _, t := range p.Travelers {
		out.Travelers = append(out.Travelers, encodeTraveler(t))
	}
	return out
}

func encodeOffer(o domain.FlightOffer) FlightOffer {
	w := FlightOffer{
		Type:                     o.Type,
		ID:                       o.ID,
		Source:                   o.Source,
		InstantTicketingRequired: o.InstantTicketing,
		NonHomogeneous:           o.NonHomogeneous,
		OneWay:                   o.OneWay,
		NumberOfBookableSeats:    o.NumberOfBookableSeats,
		Itineraries:              make([]Itinerary, 0, len(o.Itineraries)),
		Price:                    encodePrice(o.Price),
		ValidatingAirlineCodes:   append([]string{}, o.ValidatingAirlineCodes...),
		TravelerPricings:         make([]TravelerPricing, 0, len(o.TravelerPricings)),
	}
	if o.LastTicketingDate != nil {
		w.LastTicketingDate = o.LastTicketingDate.String()
	}
	for _, it := range o.Itineraries {
		wi := Itinerary{Segments: make([]Segment, 0, len(it.Segments))}
		if it.DurationMinutes != nil {
			wi.Duration = codec.FormatDuration(*it.DurationMinutes)
		}
		for _, s := range it.Segments {
			wi.Segments = append(wi.Segments, encodeSegment(s))
		}
		w.Itineraries = append(w.Itineraries, wi)
	}
	if o.PricingOptions != nil {
		opts := &PricingOptions{
			FareType:                make([]string, 0, len(o.PricingOptions.FareType)),
			IncludedCheckedBagsOnly: o.PricingOptions.IncludedCheckedBagsOnly,
		}
		for _, ft := range o.PricingOptions.FareType {
			opts.FareType = append(opts.FareType, string(ft))
		}
		w.PricingOptions = opts
	}
	for _, tp := range o.TravelerPricings {
		wp := TravelerPricing{
			TravelerID:           tp.TravelerID,
			FareOption:           tp.FareOption,
			TravelerType:         string(tp.TravelerType),
			Price:                encodePrice(tp.Price),
			FareDetailsBySegment: make([]FareDetail, 0, len(tp.FareDetailsBySegment)),
		}
		for _, fd := range tp.FareDetailsBySegment {
			wp.FareDetailsBySegment = append(wp.FareDetailsBySegment, FareDetail{
				SegmentID:   fd.SegmentID,
				Cabin:       string(fd.Cabin),
				FareBasis:   fd.FareBasis,
				BrandedFare: fd.BrandedFare,
				Class:       fd.Class,
			})
		}
		w.TravelerPricings = append(w.TravelerPricings, wp)
	}
	return w
}

func encodeSegment(s domain.Segment) Segment {
	w := Segment{
		Departure:     Endpoint{IATACode: s.Departure.IATACode, Terminal: s.Departure.Terminal, At: s.Departure.At.String()},
		Arrival:       Endpoint{IATACode: s.Arrival.IATACode, Terminal: s.Arrival.Terminal, At: s.Arrival.At.String()},
		CarrierCode:   s.CarrierCode,
		Number:        s.Number,
		Duration:      codec.FormatDuration(s.DurationMinutes),
		ID:            s.ID,
		NumberOfStops: s.NumberOfStops,
	}
	if s.AircraftCode != "" {
		w.Aircraft = &Aircraft{Code: s.AircraftCode}
	}
	if s.OperatingCarrier != "" {
		w.Operating = &Operating{CarrierCode: s.OperatingCarrier}
	}
	for _, e := range s.Co2Emissions {
		w.Co2Emissions = append(w.Co2Emissions, Co2Emission{Weight: e.Weight, WeightUnit: string(e.WeightUnit), Cabin: string(e.Cabin)})
	}
	return w
}

func encodePrice(p domain.Price) Price {
	w := Price{
		Currency:        p.Currency,
		Total:           p.Total.String(),
		Base:            p.Base.String(),
		BillingCurrency: p.BillingCurrency,
	}
	if p.GrandTotal != nil {
		w.GrandTotal = p.GrandTotal.String()
	}
	if p.RefundableTaxes != nil {
		w.RefundableTaxes = p.RefundableTaxes.String()
	}
	for _, f := range p.Fees {
		w.Fees = append(w.Fees, Fee{Amount: f.Amount.String(), Type: string(f.Type)})
	}
	for _, t := range p.Taxes {
		w.Taxes = append(w.Taxes, Tax{Amount: t.Amount.String(), Code: t.Code})
	}
	return w
}

func encodeTraveler(t domain.Traveler) Traveler {
	w := Traveler{
		ID:     t.ID,
		Gender: string(t.Gender),
		Name:   Name{FirstName: t.Name.FirstName, LastName: t.Name.LastName},
	}
	if !t.DateOfBirth.IsZero() {
		w.DateOfBirth = t.DateOfBirth.String()
	}
	for _, d := range t.Documents {
		wd := Document{
			Number:           d.Number,
			IssuanceCountry:  d.IssuanceCountry,
			IssuanceLocation: d.IssuanceLocation,
			Nationality:      d.Nationality,
			BirthPlace:       d.BirthPlace,
			DocumentType:     string(d.DocumentType),
			Holder:           d.Holder,
		}
		if d.IssuanceDate != nil {
			wd.IssuanceDate = d.IssuanceDate.String()
		}
		if d.ExpiryDate != nil {
			wd.ExpiryDate = d.ExpiryDate.String()
		}
		w.Documents = append(w.Documents, wd)
	}
	if t.Contact != nil {
		c := &Contact{Purpose: string(t.Contact.Purpose), EmailAddress: t.Contact.EmailAddress}
		for _, p := range t.Contact.Phones {
			c.Phones = append(c.Phones, Phone{DeviceType: string(p.DeviceType), CountryCallingCode: p.CountryCallingCode, Number: p.Number})
		}
		w.Contact = c
	}
	return w
}
