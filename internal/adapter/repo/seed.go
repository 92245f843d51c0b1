package repo

import (
	"time"

	"donationtracker/internal/domain"
)

// SampleDonations returns the demo records a fresh service starts with.
func SampleDonations() []domain.DonationDraft {
	return []domain.DonationDraft{
		{
			DonorName: "John Smith",
			Type:      domain.DonationTypeMoney,
			Quantity:  100,
			Unit:      "dollars",
			Date:      time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
			Notes:     "Monthly donation",
		},
		{
			DonorName: "Seattle Food Bank",
			Type:      domain.DonationTypeFood,
			Quantity:  50,
			Unit:      "pounds",
			Date:      time.Date(2024, 1, 14, 10, 30, 0, 0, time.UTC),
			Notes:     "Canned goods and dry foods",
		},
		{
			DonorName: "Community Church",
			Type:      domain.DonationTypeClothing,
			Quantity:  25,
			Unit:      "bags",
			Date:      time.Date(2024, 1, 12, 14, 15, 0, 0, time.UTC),
			Notes:     "Winter coats and blankets",
		},
	}
}
