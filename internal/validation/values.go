package validation

import (
	"fmt"
	"strings"

	"github.com/Domenick1991/offercheck/internal/domain"
)

type recognizer interface {
	~string
	Recognized() bool
}

func checkValue[T recognizer](out []domain.Violation, path, field string, v T) []domain.Violation {
	if v == "" || v.Recognized() {
		return out
	}
	return append(out, domain.Warnf(domain.RuleUnrecognizedValue, path, "unrecognized %s %q", field, string(v)))
}

// UnrecognizedValues warns about enumeration values outside the known set.
// The values themselves are kept.
type UnrecognizedValues struct{}

func (UnrecognizedValues) ID() string { return domain.RuleUnrecognizedValue }

func (UnrecognizedValues) Check(in *Input) []domain.Violation {
	out := make([]domain.Violation, 0)
	for _, offer := range in.Payload.Offers {
		for it, itin := range offer.Itineraries {
			for s, seg := range itin.Segments {
				for e, co2 := range seg.Co2Emissions {
					path := fmt.Sprintf("%s.co2Emissions[%d]", domain.SegmentPath(offer.Position, it, s), e)
					out = checkValue(out, path+".weightUnit", "weight unit", co2.WeightUnit)
					out = checkValue(out, path+".cabin", "cabin", co2.Cabin)
				}
			}
		}
		for i, f := range offer.Price.Fees {
			out = checkValue(out, fmt.Sprintf("%s.price.fees[%d].type", domain.OfferPath(offer.Position), i), "fee type", f.Type)
		}
		if offer.PricingOptions != nil {
			for i, ft := range offer.PricingOptions.FareType {
				out = checkValue(out, fmt.Sprintf("%s.pricingOptions.fareType[%d]", domain.OfferPath(offer.Position), i), "fare type", ft)
			}
		}
		for p, tp := range offer.TravelerPricings {
			out = checkValue(out, domain.TravelerPricingPath(offer.Position, p)+".travelerType", "traveler type", tp.TravelerType)
			for d, fd := range tp.FareDetailsBySegment {
				out = checkValue(out, domain.FareDetailPath(offer.Position, p, d)+".cabin", "cabin", fd.Cabin)
			}
		}
	}
	for _, t := range in.Payload.Travelers {
		path := domain.TravelerPath(t.Position)
		out = checkValue(out, path+".gender", "gender", t.Gender)
		for i, doc := range t.Documents {
			out = checkValue(out, domain.DocumentPath(t.Position, i)+".documentType", "document type", doc.DocumentType)
		}
		if t.Contact != nil {
			out = checkValue(out, path+".contact.purpose", "contact purpose", t.Contact.Purpose)
			for i, p := range t.Contact.Phones {
				out = checkValue(out, fmt.Sprintf("%s.contact.phones[%d].deviceType", path, i), "device type", p.DeviceType)
			}
		}
	}
	return out
}

// brandCabins maps branded fare prefixes to the cabin they are sold in.
// Longer prefixes come first.
var brandCabins = []struct {
	prefix string
	cabin  domain.Cabin
}{
	{"PREMIUM", domain.CabinPremiumEconomy},
	{"PREM", domain.CabinPremiumEconomy},
	{"ECO", domain.CabinEconomy},
	{"BUS", domain.CabinBusiness},
	{"FIRST", domain.CabinFirst},
}

// CabinBrand warns when a branded fare names a different cabin than the
// fare detail declares. It is not part of the default rule set.
type CabinBrand struct{}

func (CabinBrand) ID() string { return domain.RuleCabinBrandMismatch }

func (r CabinBrand) Check(in *Input) []domain.Violation {
	out := make([]domain.Violation, 0)
	for oi, offer := range in.Payload.Offers {
		for p, tp := range offer.TravelerPricings {
			who := tp.TravelerID
			if t, ok := in.Resolution.PricedTraveler(oi, p); ok {
				who = strings.TrimSpace(t.Name.FirstName + " " + t.Name.LastName)
			}
			for d, fd := range tp.FareDetailsBySegment {
				cabin, ok := brandCabin(fd.BrandedFare)
				if !ok || fd.Cabin == "" || cabin == fd.Cabin {
					continue
				}
				where := fd.SegmentID
				if seg, ok := in.Resolution.FareSegment(oi, p, d); ok {
					where = seg.Departure.IATACode + "-" + seg.Arrival.IATACode
				}
				out = append(out, domain.Warnf(r.ID(), domain.FareDetailPath(offer.Position, p, d)+".brandedFare",
					"branded fare %q implies %s but cabin is %s for %s on %s", fd.BrandedFare, cabin, fd.Cabin, who, where))
			}
		}
	}
	return out
}

func brandCabin(brand string) (domain.Cabin, bool) {
	brand = strings.ToUpper(brand)
	for _, bc := range brandCabins {
		if strings.HasPrefix(brand, bc.prefix) {
			return bc.cabin, true
		}
	}
	return "", false
}
