package domain

import "errors"

// Agency errors.
var (
	// ErrAgencyNotFound indicates no agency exists with the given id.
	ErrAgencyNotFound = errors.New("agency not found")

	// ErrInvalidAgency indicates the agency payload is incomplete.
	ErrInvalidAgency = errors.New("invalid agency")
)

// Phone errors.
var (
	ErrInvalidPhone     = errors.New("invalid phone format: ensure it includes area code (e.g. +52 55...)")
	ErrPhoneWrongRegion = errors.New("phone number does not belong to the configured region")
)

// Review errors.
var (
	// ErrInvalidRating is returned at ingestion; the scoring core itself
	// tolerates bad ratings.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
