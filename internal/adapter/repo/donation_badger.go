package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"donationtracker/internal/domain"
)

var (
	donationKeyPrefix = []byte("donation/")
	donationSeqKey    = []byte("seq/donation")
)

// DonationRepositoryBadger implements domain.DonationRepository on top of an
// in-memory Badger instance. Ids come from a Badger sequence so they are
// never handed out twice.
type DonationRepositoryBadger struct {
	db  *badger.DB
	seq *badger.Sequence
	now func() time.Time

	// serialises read-modify-write cycles so Update never hits txn conflicts
	mu sync.Mutex
}

var _ domain.DonationRepository = (*DonationRepositoryBadger)(nil)

// NewBadgerDonationRepository opens an in-memory Badger database for donations.
func NewBadgerDonationRepository(opts ...Option) (*DonationRepositoryBadger, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	bopts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	seq, err := db.GetSequence(donationSeqKey, 100)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("donation sequence: %w", err)
	}

	r := &DonationRepositoryBadger{db: db, seq: seq, now: o.now}
	for _, draft := range o.seed {
		if _, err := r.Create(context.Background(), draft); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("seed donation %q: %w", draft.DonorName, err)
		}
	}
	return r, nil
}

func donationKey(id string) []byte {
	return append(append([]byte{}, donationKeyPrefix...), id...)
}

func (r *DonationRepositoryBadger) List(ctx context.Context) ([]domain.Donation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var items []storedDonation
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(donationKeyPrefix); it.ValidForPrefix(donationKeyPrefix); it.Next() {
			var item storedDonation
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sortNewestFirst(items), nil
}

func (r *DonationRepositoryBadger) GetByID(ctx context.Context, id string) (domain.Donation, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Donation{}, false, err
	}
	var item storedDonation
	found := false
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		item, found, err = getStored(txn, id)
		return err
	})
	if err != nil {
		return domain.Donation{}, false, err
	}
	return item.Donation, found, nil
}

func (r *DonationRepositoryBadger) Create(ctx context.Context, draft domain.DonationDraft) (domain.Donation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Donation{}, err
	}
	if err := draft.Validate(); err != nil {
		return domain.Donation{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	n, err := r.seq.Next()
	if err != nil {
		return domain.Donation{}, fmt.Errorf("next donation id: %w", err)
	}
	seq := n + 1
	item := storedDonation{Donation: newDonation(donationID(seq), draft, r.now()), Seq: seq}
	if err := r.db.Update(func(txn *badger.Txn) error {
		return putStored(txn, item)
	}); err != nil {
		return domain.Donation{}, err
	}
	return item.Donation, nil
}

func (r *DonationRepositoryBadger) Update(ctx context.Context, id string, patch domain.DonationPatch) (domain.Donation, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Donation{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var updated domain.Donation
	found := false
	err := r.db.Update(func(txn *badger.Txn) error {
		item, ok, err := getStored(txn, id)
		if err != nil || !ok {
			return err
		}
		found = true
		if err := patch.Validate(); err != nil {
			return err
		}
		item.Donation = mergePatch(item.Donation, patch, r.now())
		updated = item.Donation
		return putStored(txn, item)
	})
	if err != nil {
		return domain.Donation{}, found, err
	}
	return updated, found, nil
}

func (r *DonationRepositoryBadger) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := false
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(donationKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		removed = true
		return txn.Delete(donationKey(id))
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// Close releases the id sequence and the database.
func (r *DonationRepositoryBadger) Close() error {
	return errors.Join(r.seq.Release(), r.db.Close())
}

func getStored(txn *badger.Txn, id string) (storedDonation, bool, error) {
	var item storedDonation
	entry, err := txn.Get(donationKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return item, false, nil
		}
		return item, false, err
	}
	if err := entry.Value(func(val []byte) error {
		return json.Unmarshal(val, &item)
	}); err != nil {
		return item, false, fmt.Errorf("decode donation %s: %w", id, err)
	}
	return item, true, nil
}

func putStored(txn *badger.Txn, item storedDonation) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode donation %s: %w", item.Donation.ID, err)
	}
	return txn.Set(donationKey(item.Donation.ID), data)
}
