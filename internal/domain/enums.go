package domain

import "slices"

// Enumerations are typed strings. A value outside the known set is kept
// verbatim and reports Recognized() == false, so upstream additions pass
// through instead of failing the whole payload.

type Cabin string

const (
	CabinEconomy        Cabin = "ECONOMY"
	CabinPremiumEconomy Cabin = "PREMIUM_ECONOMY"
	CabinBusiness       Cabin = "BUSINESS"
	CabinFirst          Cabin = "FIRST"
)

func (c Cabin) Recognized() bool {
	return slices.Contains([]Cabin{CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst}, c)
}

type DocumentType string

const (
	DocumentPassport      DocumentType = "PASSPORT"
	DocumentIDCard        DocumentType = "ID_CARD"
	DocumentVisa          DocumentType = "VISA"
	DocumentKnownTraveler DocumentType = "KNOWN_TRAVELER"
	DocumentRedress       DocumentType = "REDRESS"
)

func (d DocumentType) Recognized() bool {
	return slices.Contains([]DocumentType{DocumentPassport, DocumentIDCard, DocumentVisa, DocumentKnownTraveler, DocumentRedress}, d)
}

type TravelerType string

const (
	TravelerAdult        TravelerType = "ADULT"
	TravelerChild        TravelerType = "CHILD"
	TravelerSenior       TravelerType = "SENIOR"
	TravelerYoung        TravelerType = "YOUNG"
	TravelerHeldInfant   TravelerType = "HELD_INFANT"
	TravelerSeatedInfant TravelerType = "SEATED_INFANT"
	TravelerStudent      TravelerType = "STUDENT"
)

func (t TravelerType) Recognized() bool {
	return slices.Contains([]TravelerType{TravelerAdult, TravelerChild, TravelerSenior, TravelerYoung, TravelerHeldInfant, TravelerSeatedInfant, TravelerStudent}, t)
}

type FeeType string

const (
	FeeTicketing     FeeType = "TICKETING"
	FeeSupplier      FeeType = "SUPPLIER"
	FeeFormOfPayment FeeType = "FORM_OF_PAYMENT"
)

// FeeTypeOrder is the canonical ordering of fees; unknown types sort after.
var FeeTypeOrder = []FeeType{FeeTicketing, FeeSupplier, FeeFormOfPayment}

func (f FeeType) Recognized() bool {
	return slices.Contains(FeeTypeOrder, f)
}

type FareType string

const (
	FarePublished  FareType = "PUBLISHED"
	FareNegotiated FareType = "NEGOTIATED"
	FareCorporate  FareType = "CORPORATE"
)

func (f FareType) Recognized() bool {
	return slices.Contains([]FareType{FarePublished, FareNegotiated, FareCorporate}, f)
}

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

func (g Gender) Recognized() bool {
	return g == GenderMale || g == GenderFemale
}

type WeightUnit string

const (
	WeightKilograms WeightUnit = "KG"
	WeightPounds    WeightUnit = "LB"
)

func (w WeightUnit) Recognized() bool {
	return w == WeightKilograms || w == WeightPounds
}

type DeviceType string

const (
	DeviceMobile   DeviceType = "MOBILE"
	DeviceLandline DeviceType = "LANDLINE"
	DeviceFax      DeviceType = "FAX"
)

func (d DeviceType) Recognized() bool {
	return slices.Contains([]DeviceType{DeviceMobile, DeviceLandline, DeviceFax}, d)
}

type ContactPurpose string

const (
	PurposeStandard                    ContactPurpose = "STANDARD"
	PurposeInvoice                     ContactPurpose = "INVOICE"
	PurposeStandardWithoutTransmission ContactPurpose = "STANDARD_WITHOUT_TRANSMISSION"
)

func (p ContactPurpose) Recognized() bool {
	return slices.Contains([]ContactPurpose{PurposeStandard, PurposeInvoice, PurposeStandardWithoutTransmission}, p)
}
