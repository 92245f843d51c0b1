package domain

import "context"

// DonationRepository owns the donation collection. Expected conditions such as
// a missing id are reported through the found/removed results, never as errors;
// returned values are copies the caller may freely mutate.
type DonationRepository interface {
	// List returns every donation, newest createdAt first.
	List(ctx context.Context) ([]Donation, error)
	GetByID(ctx context.Context, id string) (Donation, bool, error)
	Create(ctx context.Context, draft DonationDraft) (Donation, error)
	Update(ctx context.Context, id string, patch DonationPatch) (Donation, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
