package repo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"donationtracker/internal/domain"
)

// DonationRepositoryMemory implements domain.DonationRepository with a
// mutex-guarded map. State lives only as long as the process.
type DonationRepositoryMemory struct {
	mu      sync.RWMutex
	items   map[string]storedDonation
	lastSeq uint64
	now     func() time.Time
}

var _ domain.DonationRepository = (*DonationRepositoryMemory)(nil)

// NewDonationRepository creates an in-memory donation repo.
func NewDonationRepository(opts ...Option) (*DonationRepositoryMemory, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &DonationRepositoryMemory{
		items: make(map[string]storedDonation),
		now:   o.now,
	}
	for _, draft := range o.seed {
		if _, err := r.Create(context.Background(), draft); err != nil {
			return nil, fmt.Errorf("seed donation %q: %w", draft.DonorName, err)
		}
	}
	return r, nil
}

func (r *DonationRepositoryMemory) List(ctx context.Context) ([]domain.Donation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	items := make([]storedDonation, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	r.mu.RUnlock()
	return sortNewestFirst(items), nil
}

func (r *DonationRepositoryMemory) GetByID(ctx context.Context, id string) (domain.Donation, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Donation{}, false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	return item.Donation, ok, nil
}

func (r *DonationRepositoryMemory) Create(ctx context.Context, draft domain.DonationDraft) (domain.Donation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Donation{}, err
	}
	if err := draft.Validate(); err != nil {
		return domain.Donation{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSeq++
	d := newDonation(donationID(r.lastSeq), draft, r.now())
	r.items[d.ID] = storedDonation{Donation: d, Seq: r.lastSeq}
	return d, nil
}

func (r *DonationRepositoryMemory) Update(ctx context.Context, id string, patch domain.DonationPatch) (domain.Donation, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Donation{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return domain.Donation{}, false, nil
	}
	if err := patch.Validate(); err != nil {
		return domain.Donation{}, true, err
	}
	item.Donation = mergePatch(item.Donation, patch, r.now())
	r.items[id] = item
	return item.Donation, true, nil
}

func (r *DonationRepositoryMemory) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

// Close is a no-op; it lets callers treat every backend alike.
func (r *DonationRepositoryMemory) Close() error { return nil }
