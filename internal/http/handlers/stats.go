package handlers

import (
	"net/http"

	"donationtracker/internal/domain"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Donations.Stats(r.Context())
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, stats)
}

type donationTypeResponse struct {
	Value domain.DonationType `json:"value"`
	Label string              `json:"label"`
}

// DonationTypes lists the accepted type values with display labels.
func (a *App) DonationTypes(w http.ResponseWriter, _ *http.Request) {
	types := domain.DonationTypes()
	out := make([]donationTypeResponse, len(types))
	for i, t := range types {
		out[i] = donationTypeResponse{Value: t, Label: t.Label()}
	}
	a.json(w, http.StatusOK, out)
}
