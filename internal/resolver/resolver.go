// Package resolver links the weak references of a payload: fare details
// point at segments of their offer by segmentId, traveler pricings point
// at travelers by travelerId.
package resolver

import (
	"fmt"

	"github.com/Domenick1991/offercheck/internal/domain"
)

// SegmentRef locates a segment inside its offer.
type SegmentRef struct {
	Itinerary int
	Segment   int
}

type detailKey struct {
	offer, pricing, detail int
}

type pricingKey struct {
	offer, pricing int
}

// Resolution is the index built over one payload. Offer arguments are
// indexes into Payload.Offers, not source positions.
type Resolution struct {
	payload   *domain.Payload
	segments  []map[string]SegmentRef
	travelers map[string]int

	fareLinks     map[detailKey]SegmentRef
	travelerLinks map[pricingKey]int
}

// Resolve runs both passes. Pass one declares identifiers, keeping the
// first declaration of a duplicated id; pass two looks up every reference.
// The payload is only read.
func Resolve(p *domain.Payload) (*Resolution, []domain.Violation) {
	r := &Resolution{
		payload:       p,
		segments:      make([]map[string]SegmentRef, len(p.Offers)),
		travelers:     make(map[string]int, len(p.Travelers)),
		fareLinks:     make(map[detailKey]SegmentRef),
		travelerLinks: make(map[pricingKey]int),
	}
	violations := make([]domain.Violation, 0)

	for i := range p.Offers {
		offer := &p.Offers[i]
		declared := make(map[string]SegmentRef)
		for it, itin := range offer.Itineraries {
			for s, seg := range itin.Segments {
				if first, ok := declared[seg.ID]; ok {
					violations = append(violations, domain.Errorf(domain.RuleDuplicateSegmentID,
						domain.SegmentPath(offer.Position, it, s)+".id",
						"segment id %q already declared at %s", seg.ID,
						domain.SegmentPath(offer.Position, first.Itinerary, first.Segment)))
					continue
				}
				declared[seg.ID] = SegmentRef{Itinerary: it, Segment: s}
			}
		}
		r.segments[i] = declared
	}

	for i, t := range p.Travelers {
		if _, ok := r.travelers[t.ID]; ok {
			violations = append(violations, domain.Errorf(domain.RuleDuplicateTravelerID,
				domain.TravelerPath(t.Position)+".id", "traveler id %q already declared", t.ID))
			continue
		}
		r.travelers[t.ID] = i
	}

	for i := range p.Offers {
		offer := &p.Offers[i]
		for pi, tp := range offer.TravelerPricings {
			if idx, ok := r.travelers[tp.TravelerID]; ok {
				r.travelerLinks[pricingKey{i, pi}] = idx
			} else {
				violations = append(violations, domain.Errorf(domain.RuleDanglingReference,
					domain.TravelerPricingPath(offer.Position, pi)+".travelerId",
					"no traveler with id %q", tp.TravelerID))
			}
			for di, fd := range tp.FareDetailsBySegment {
				if ref, ok := r.segments[i][fd.SegmentID]; ok {
					r.fareLinks[detailKey{i, pi, di}] = ref
					continue
				}
				violations = append(violations, domain.Errorf(domain.RuleDanglingReference,
					domain.FareDetailPath(offer.Position, pi, di)+".segmentId",
					"no segment with id %q in offer %s", fd.SegmentID, describe(offer)))
			}
		}
	}

	return r, violations
}

func describe(o *domain.FlightOffer) string {
	if o.ID == "" {
		return fmt.Sprintf("#%d", o.Position)
	}
	return fmt.Sprintf("%q", o.ID)
}

// Segment looks up a declared segment id of the offer at index offer.
func (r *Resolution) Segment(offer int, id string) (*domain.Segment, bool) {
	if offer < 0 || offer >= len(r.segments) {
		return nil, false
	}
	ref, ok := r.segments[offer][id]
	if !ok {
		return nil, false
	}
	return r.segmentAt(offer, ref), true
}

// FareSegment returns the segment a fare detail refers to.
func (r *Resolution) FareSegment(offer, pricing, detail int) (*domain.Segment, bool) {
	ref, ok := r.fareLinks[detailKey{offer, pricing, detail}]
	if !ok {
		return nil, false
	}
	return r.segmentAt(offer, ref), true
}

// FareSegmentRef is FareSegment returning the position instead.
func (r *Resolution) FareSegmentRef(offer, pricing, detail int) (SegmentRef, bool) {
	ref, ok := r.fareLinks[detailKey{offer, pricing, detail}]
	return ref, ok
}

// PricedTraveler returns the traveler a traveler pricing refers to.
func (r *Resolution) PricedTraveler(offer, pricing int) (*domain.Traveler, bool) {
	idx, ok := r.travelerLinks[pricingKey{offer, pricing}]
	if !ok {
		return nil, false
	}
	return &r.payload.Travelers[idx], true
}

func (r *Resolution) segmentAt(offer int, ref SegmentRef) *domain.Segment {
	return &r.payload.Offers[offer].Itineraries[ref.Itinerary].Segments[ref.Segment]
}
