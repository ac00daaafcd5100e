package validation

import (
	"fmt"
	"time"

	"github.com/Domenick1991/offercheck/internal/codec"
	"github.com/Domenick1991/offercheck/internal/domain"
	"github.com/Domenick1991/offercheck/internal/resolver"
)

// SegmentCoverage requires every declared segment of an offer to be priced
// by exactly one fare detail in each traveler pricing. Fare details are
// counted through the resolved links, so dangling ones and later
// declarations of a duplicated id are left to the resolver.
type SegmentCoverage struct{}

func (SegmentCoverage) ID() string { return domain.RuleSegmentCoverage }

func (r SegmentCoverage) Check(in *Input) []domain.Violation {
	out := make([]domain.Violation, 0)
	for oi := range in.Payload.Offers {
		offer := &in.Payload.Offers[oi]
		for pi, tp := range offer.TravelerPricings {
			path := domain.TravelerPricingPath(offer.Position, pi) + ".fareDetailsBySegment"
			covered := make(map[resolver.SegmentRef]int, len(tp.FareDetailsBySegment))
			for di := range tp.FareDetailsBySegment {
				if ref, ok := in.Resolution.FareSegmentRef(oi, pi, di); ok {
					covered[ref]++
				}
			}
			for it := range offer.Itineraries {
				for s := range offer.Itineraries[it].Segments {
					seg := &offer.Itineraries[it].Segments[s]
					if declared, ok := in.Resolution.Segment(oi, seg.ID); !ok || declared != seg {
						continue
					}
					switch n := covered[resolver.SegmentRef{Itinerary: it, Segment: s}]; {
					case n == 0:
						out = append(out, domain.Errorf(r.ID(), path, "segment %q has no fare detail", seg.ID))
					case n > 1:
						out = append(out, domain.Errorf(r.ID(), path, "segment %q has %d fare details", seg.ID, n))
					}
				}
			}
		}
	}
	return out
}

// Chronology requires arrival after departure within a segment, and each
// segment of an itinerary to depart no earlier than the previous arrival.
type Chronology struct{}

func (Chronology) ID() string { return domain.RuleChronologyViolation }

func (r Chronology) Check(in *Input) []domain.Violation {
	out := make([]domain.Violation, 0)
	for _, offer := range in.Payload.Offers {
		for it, itin := range offer.Itineraries {
			for s, seg := range itin.Segments {
				path := domain.SegmentPath(offer.Position, it, s)
				if !seg.Arrival.At.After(seg.Departure.At) {
					out = append(out, domain.Errorf(r.ID(), path+".arrival.at",
						"arrival %s is not after departure %s", seg.Arrival.At, seg.Departure.At))
				}
				if s == 0 {
					continue
				}
				prev := itin.Segments[s-1]
				if seg.Departure.At.Before(prev.Arrival.At) {
					out = append(out, domain.Errorf(r.ID(), path+".departure.at",
						"departure %s is before arrival %s of segment %q", seg.Departure.At, prev.Arrival.At, prev.ID))
				}
			}
		}
	}
	return out
}

// StopCount rejects numberOfStops other than zero: intermediate stops are
// modeled as separate segments.
type StopCount struct{}

func (StopCount) ID() string { return domain.RuleInconsistentStopCount }

func (r StopCount) Check(in *Input) []domain.Violation {
	out := make([]domain.Violation, 0)
	for _, offer := range in.Payload.Offers {
		for it, itin := range offer.Itineraries {
			for s, seg := range itin.Segments {
				if seg.NumberOfStops != 0 {
					out = append(out, domain.Errorf(r.ID(), domain.SegmentPath(offer.Position, it, s)+".numberOfStops",
						"segment %q declares %d stops", seg.ID, seg.NumberOfStops))
				}
			}
		}
	}
	return out
}

// zoneSpan bounds the offset between two local times of the same instant
// (UTC-12 to UTC+14).
const zoneSpan = 26 * time.Hour

// DurationConsistency compares declared durations with local timestamps.
// Timestamps carry no zone, so only differences beyond zoneSpan are
// reported.
type DurationConsistency struct{}

func (DurationConsistency) ID() string { return domain.RuleDurationMismatch }

func (r DurationConsistency) Check(in *Input) []domain.Violation {
	out := make([]domain.Violation, 0)
	for _, offer := range in.Payload.Offers {
		for it, itin := range offer.Itineraries {
			flown := 0
			for s, seg := range itin.Segments {
				path := domain.SegmentPath(offer.Position, it, s) + ".duration"
				flown += seg.DurationMinutes
				if seg.DurationMinutes <= 0 {
					out = append(out, domain.Warnf(r.ID(), path, "segment %q has no flight time", seg.ID))
					continue
				}
				if v, ok := r.compare(path, seg.DurationMinutes, seg.Departure.At, seg.Arrival.At); !ok {
					out = append(out, v)
				}
			}
			if itin.DurationMinutes == nil || len(itin.Segments) == 0 {
				continue
			}
			path := fmt.Sprintf("%s.itineraries[%d].duration", domain.OfferPath(offer.Position), it)
			declared := *itin.DurationMinutes
			if declared < flown {
				out = append(out, domain.Warnf(r.ID(), path,
					"itinerary duration %s is shorter than its flight time %s",
					codec.FormatDuration(declared), codec.FormatDuration(flown)))
				continue
			}
			first, last := itin.Segments[0], itin.Segments[len(itin.Segments)-1]
			if v, ok := r.compare(path, declared, first.Departure.At, last.Arrival.At); !ok {
				out = append(out, v)
			}
		}
	}
	return out
}

func (r DurationConsistency) compare(path string, minutes int, from, to codec.LocalTime) (domain.Violation, bool) {
	declared := time.Duration(minutes) * time.Minute
	diff := to.Sub(from) - declared
	if diff < 0 {
		diff = -diff
	}
	if diff <= zoneSpan {
		return domain.Violation{}, true
	}
	return domain.Warnf(r.ID(), path, "duration %s is inconsistent with local times %s and %s",
		codec.FormatDuration(minutes), from, to), false
}
