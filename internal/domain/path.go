package domain

import "fmt"

// Paths locate a field in the source document, e.g.
// "flightOffers[0].travelerPricings[0].fareDetailsBySegment[2].segmentId".

func OfferPath(offer int) string {
	return fmt.Sprintf("flightOffers[%d]", offer)
}

func SegmentPath(offer, itinerary, segment int) string {
	return fmt.Sprintf("flightOffers[%d].itineraries[%d].segments[%d]", offer, itinerary, segment)
}

func TravelerPricingPath(offer, pricing int) string {
	return fmt.Sprintf("flightOffers[%d].travelerPricings[%d]", offer, pricing)
}

func FareDetailPath(offer, pricing, detail int) string {
	return fmt.Sprintf("%s.fareDetailsBySegment[%d]", TravelerPricingPath(offer, pricing), detail)
}

func TravelerPath(traveler int) string {
	return fmt.Sprintf("travelers[%d]", traveler)
}

func DocumentPath(traveler, document int) string {
	return fmt.Sprintf("travelers[%d].documents[%d]", traveler, document)
}
