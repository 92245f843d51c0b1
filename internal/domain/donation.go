package domain

import (
	"math"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DonationType enumerates the kinds of goods a donation can carry.
type DonationType string

const (
	DonationTypeMoney          DonationType = "money"
	DonationTypeFood           DonationType = "food"
	DonationTypeClothing       DonationType = "clothing"
	DonationTypeHouseholdItems DonationType = "household_items"
	DonationTypeToys           DonationType = "toys"
	DonationTypeBooks          DonationType = "books"
	DonationTypeOther          DonationType = "other"
)

var donationTypes = []DonationType{
	DonationTypeMoney,
	DonationTypeFood,
	DonationTypeClothing,
	DonationTypeHouseholdItems,
	DonationTypeToys,
	DonationTypeBooks,
	DonationTypeOther,
}

// DonationTypes returns every supported type in display order.
func DonationTypes() []DonationType {
	return slices.Clone(donationTypes)
}

// ParseDonationType converts raw input into a DonationType, rejecting unknown values.
func ParseDonationType(raw string) (DonationType, error) {
	t := DonationType(raw)
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

func (t DonationType) Valid() bool {
	return slices.Contains(donationTypes, t)
}

// Label renders the type for humans, e.g. "household_items" -> "Household Items".
func (t DonationType) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(t), "_", " "))
}

// Donation is a single recorded contribution. Quantity is a currency amount
// for money donations and a count or weight for everything else.
type Donation struct {
	ID        string       `json:"id"`
	DonorName string       `json:"donorName"`
	Type      DonationType `json:"type"`
	Quantity  float64      `json:"quantity"`
	Unit      string       `json:"unit"`
	Date      time.Time    `json:"date"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// DonationDraft carries the caller-supplied fields of a new donation.
type DonationDraft struct {
	DonorName string
	Type      DonationType
	Quantity  float64
	Unit      string
	Date      time.Time
	Notes     string
}

// Validate checks the draft against the record invariants.
func (d DonationDraft) Validate() error {
	if strings.TrimSpace(d.DonorName) == "" {
		return newValidationError("donorName", ErrEmptyField)
	}
	if !d.Type.Valid() {
		return newValidationError("type", ErrInvalidType)
	}
	if err := validateQuantity(d.Quantity); err != nil {
		return err
	}
	if strings.TrimSpace(d.Unit) == "" {
		return newValidationError("unit", ErrEmptyField)
	}
	if d.Date.IsZero() {
		return newValidationError("date", ErrInvalidDate)
	}
	return nil
}

// DonationPatch is a partial update: nil fields leave the stored value untouched.
type DonationPatch struct {
	DonorName *string
	Type      *DonationType
	Quantity  *float64
	Unit      *string
	Date      *time.Time
	Notes     *string
}

// Validate checks only the fields present in the patch.
func (p DonationPatch) Validate() error {
	if p.DonorName != nil && strings.TrimSpace(*p.DonorName) == "" {
		return newValidationError("donorName", ErrEmptyField)
	}
	if p.Type != nil && !p.Type.Valid() {
		return newValidationError("type", ErrInvalidType)
	}
	if p.Quantity != nil {
		if err := validateQuantity(*p.Quantity); err != nil {
			return err
		}
	}
	if p.Unit != nil && strings.TrimSpace(*p.Unit) == "" {
		return newValidationError("unit", ErrEmptyField)
	}
	if p.Date != nil && p.Date.IsZero() {
		return newValidationError("date", ErrInvalidDate)
	}
	return nil
}

// Apply returns a copy of d with the patch merged in. Timestamps are left to the caller.
func (p DonationPatch) Apply(d Donation) Donation {
	if p.DonorName != nil {
		d.DonorName = *p.DonorName
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Quantity != nil {
		d.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		d.Unit = *p.Unit
	}
	if p.Date != nil {
		d.Date = *p.Date
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
	return d
}

func validateQuantity(q float64) error {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return newValidationError("quantity", ErrInvalidQuantity)
	}
	if q < 0 {
		return newValidationError("quantity", ErrNegativeQuantity)
	}
	return nil
}
