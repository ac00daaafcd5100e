// Package normalize produces the canonical form of a payload. Running it
// on its own output yields identical bytes.
package normalize

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/Domenick1991/offercheck/internal/codec"
	"github.com/Domenick1991/offercheck/internal/domain"
	"github.com/Domenick1991/offercheck/internal/schema"
)

// Normalize returns the canonical wire bytes of p.
func Normalize(p *domain.Payload) ([]byte, error) {
	return schema.Marshal(Canonicalize(p))
}

// Canonicalize returns a sorted copy of p with canonical amounts. Offers
// and travelers keep their order; p is left untouched.
func Canonicalize(p *domain.Payload) *domain.Payload {
	out := &domain.Payload{
		Offers:    make([]domain.FlightOffer, 0, len(p.Offers)),
		Travelers: make([]domain.Traveler, 0, len(p.Travelers)),
	}
	for _, o := range p.Offers {
		out.Offers = append(out.Offers, offer(o))
	}
	for _, t := range p.Travelers {
		out.Travelers = append(out.Travelers, traveler(t))
	}
	return out
}

func offer(o domain.FlightOffer) domain.FlightOffer {
	o.Itineraries = lo.Map(o.Itineraries, func(it domain.Itinerary, _ int) domain.Itinerary {
		segs := slices.Clone(it.Segments)
		slices.SortStableFunc(segs, func(a, b domain.Segment) int {
			return a.Departure.At.Time().Compare(b.Departure.At.Time())
		})
		for i := range segs {
			segs[i].Co2Emissions = slices.Clone(segs[i].Co2Emissions)
		}
		it.Segments = segs
		return it
	})

	codes := lo.Uniq(o.ValidatingAirlineCodes)
	slices.Sort(codes)
	o.ValidatingAirlineCodes = codes

	if o.PricingOptions != nil {
		opts := *o.PricingOptions
		opts.FareType = slices.Clone(opts.FareType)
		o.PricingOptions = &opts
	}

	o.Price = price(o.Price)

	rank := make(map[string]int)
	for _, id := range o.SegmentIDs() {
		if _, ok := rank[id]; !ok {
			rank[id] = len(rank)
		}
	}
	o.TravelerPricings = lo.Map(o.TravelerPricings, func(tp domain.TravelerPricing, _ int) domain.TravelerPricing {
		tp.Price = price(tp.Price)
		details := slices.Clone(tp.FareDetailsBySegment)
		slices.SortStableFunc(details, func(a, b domain.FareDetail) int {
			ra, okA := rank[a.SegmentID]
			rb, okB := rank[b.SegmentID]
			switch {
			case okA && okB:
				return cmp.Compare(ra, rb)
			case okA:
				return -1
			case okB:
				return 1
			default:
				return cmp.Compare(a.SegmentID, b.SegmentID)
			}
		})
		tp.FareDetailsBySegment = details
		return tp
	})
	return o
}

func price(p domain.Price) domain.Price {
	p.Total = p.Total.Canonical()
	p.Base = p.Base.Canonical()
	p.GrandTotal = canonicalPtr(p.GrandTotal)
	p.RefundableTaxes = canonicalPtr(p.RefundableTaxes)

	p.Fees = lo.Map(p.Fees, func(f domain.Fee, _ int) domain.Fee {
		f.Amount = f.Amount.Canonical()
		return f
	})
	slices.SortStableFunc(p.Fees, compareFees)

	p.Taxes = lo.Map(p.Taxes, func(t domain.Tax, _ int) domain.Tax {
		t.Amount = t.Amount.Canonical()
		return t
	})
	slices.SortStableFunc(p.Taxes, func(a, b domain.Tax) int {
		if c := cmp.Compare(a.Code, b.Code); c != 0 {
			return c
		}
		return a.Amount.Cmp(b.Amount)
	})
	return p
}

func canonicalPtr(a *codec.Amount) *codec.Amount {
	if a == nil {
		return nil
	}
	c := a.Canonical()
	return &c
}

func compareFees(a, b domain.Fee) int {
	ra, rb := feeRank(a.Type), feeRank(b.Type)
	if c := cmp.Compare(ra, rb); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	return a.Amount.Cmp(b.Amount)
}

func feeRank(t domain.FeeType) int {
	if i := slices.Index(domain.FeeTypeOrder, t); i >= 0 {
		return i
	}
	return len(domain.FeeTypeOrder)
}

func traveler(t domain.Traveler) domain.Traveler {
	docs := slices.Clone(t.Documents)
	slices.SortStableFunc(docs, func(a, b domain.Document) int {
		if c := cmp.Compare(a.DocumentType, b.DocumentType); c != 0 {
			return c
		}
		return cmp.Compare(a.Number, b.Number)
	})
	t.Documents = docs
	if t.Contact != nil {
		c := *t.Contact
		c.Phones = slices.Clone(c.Phones)
		t.Contact = &c
	}
	return t
}
