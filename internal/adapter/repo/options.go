package repo

import (
	"fmt"
	"slices"
	"time"

	"donationtracker/internal/domain"
)

// Option configures a donation repository.
type Option func(*options)

type options struct {
	now  func() time.Time
	seed []domain.DonationDraft
}

func defaultOptions() options {
	return options{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithSeed creates the given drafts, in order, when the repository is built.
func WithSeed(drafts []domain.DonationDraft) Option {
	return func(o *options) {
		o.seed = append(o.seed, drafts...)
	}
}

func donationID(n uint64) string {
	return fmt.Sprintf("donation_%d", n)
}

// storedDonation pairs a record with its insertion sequence, which breaks
// createdAt ties so List stays deterministic.
type storedDonation struct {
	Donation domain.Donation `json:"donation"`
	Seq      uint64          `json:"seq"`
}

func sortNewestFirst(items []storedDonation) []domain.Donation {
	slices.SortFunc(items, func(a, b storedDonation) int {
		if c := b.Donation.CreatedAt.Compare(a.Donation.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.Seq > b.Seq:
			return -1
		case a.Seq < b.Seq:
			return 1
		}
		return 0
	})
	out := make([]domain.Donation, len(items))
	for i, item := range items {
		out[i] = item.Donation
	}
	return out
}

func newDonation(id string, draft domain.DonationDraft, now time.Time) domain.Donation {
	return domain.Donation{
		ID:        id,
		DonorName: draft.DonorName,
		Type:      draft.Type,
		Quantity:  draft.Quantity,
		Unit:      draft.Unit,
		Date:      draft.Date,
		Notes:     draft.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// mergePatch applies patch and advances updatedAt, never moving it backwards.
func mergePatch(current domain.Donation, patch domain.DonationPatch, now time.Time) domain.Donation {
	merged := patch.Apply(current)
	if now.Before(current.UpdatedAt) {
		now = current.UpdatedAt
	}
	merged.UpdatedAt = now
	return merged
}
