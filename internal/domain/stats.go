package domain

// RecentDonationsLimit caps Statistics.RecentDonations.
const RecentDonationsLimit = 5

// Statistics summarises the donation collection at a point in time.
type Statistics struct {
	TotalDonations    int                  `json:"totalDonations"`
	TotalMoneyDonated float64              `json:"totalMoneyDonated"`
	DonationsByType   map[DonationType]int `json:"donationsByType"`
	RecentDonations   []Donation           `json:"recentDonations"`
}

// ComputeStatistics derives Statistics from a list already ordered newest first.
func ComputeStatistics(donations []Donation) Statistics {
	stats := Statistics{
		TotalDonations:  len(donations),
		DonationsByType: make(map[DonationType]int),
	}
	for _, d := range donations {
		stats.DonationsByType[d.Type]++
		if d.Type == DonationTypeMoney {
			stats.TotalMoneyDonated += d.Quantity
		}
	}

	n := min(len(donations), RecentDonationsLimit)
	stats.RecentDonations = make([]Donation, n)
	copy(stats.RecentDonations, donations[:n])
	return stats
}
