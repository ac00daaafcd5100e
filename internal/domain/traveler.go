package domain

import "github.com/Domenick1991/offercheck/internal/codec"

type Traveler struct {
	Position int

	ID          string
	DateOfBirth codec.Date
	Gender      Gender
	Name        Name
	Documents   []Document
	Contact     *Contact
}

type Name struct {
	FirstName string
	LastName  string
}

type Document struct {
	Number           string
	IssuanceDate     *codec.Date
	ExpiryDate       *codec.Date
	IssuanceCountry  string
	IssuanceLocation string
	Nationality      string
	BirthPlace       string
	DocumentType     DocumentType
	Holder           bool
}

type Contact struct {
	Purpose      ContactPurpose
	Phones       []Phone
	EmailAddress string
}

type Phone struct {
	DeviceType         DeviceType
	CountryCallingCode string
	Number             string
}
