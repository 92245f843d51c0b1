package repo

import (
	"fmt"
	"io"

	"donationtracker/internal/domain"
)

const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// ClosableDonationRepository is a repository that may hold resources until closed.
type ClosableDonationRepository interface {
	domain.DonationRepository
	io.Closer
}

// Open builds the repository selected by backend.
func Open(backend string, opts ...Option) (ClosableDonationRepository, error) {
	switch backend {
	case "", BackendMemory:
		return NewDonationRepository(opts...)
	case BackendBadger:
		return NewBadgerDonationRepository(opts...)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
