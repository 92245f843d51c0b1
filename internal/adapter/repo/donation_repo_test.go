package repo

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"donationtracker/internal/domain"
)

// stepClock advances by one second on every reading.
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newStepClock() *stepClock {
	return &stepClock{cur: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

func backends() map[string]func(t *testing.T, opts ...Option) ClosableDonationRepository {
	open := func(backend string) func(t *testing.T, opts ...Option) ClosableDonationRepository {
		return func(t *testing.T, opts ...Option) ClosableDonationRepository {
			t.Helper()
			r, err := Open(backend, opts...)
			require.NoError(t, err)
			t.Cleanup(func() { require.NoError(t, r.Close()) })
			return r
		}
	}
	return map[string]func(t *testing.T, opts ...Option) ClosableDonationRepository{
		BackendMemory: open(BackendMemory),
		BackendBadger: open(BackendBadger),
	}
}

func draft(name string, typ domain.DonationType, qty float64) domain.DonationDraft {
	return domain.DonationDraft{
		DonorName: name,
		Type:      typ,
		Quantity:  qty,
		Unit:      "units",
		Date:      time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := Open("postgres")
	require.Error(t, err)
}

func TestDonationRepositoryCreate(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := open(t, WithClock(newStepClock().Now))

			d, err := r.Create(ctx, domain.DonationDraft{
				DonorName: "John Smith",
				Type:      domain.DonationTypeMoney,
				Quantity:  100,
				Unit:      "dollars",
				Date:      time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
			})
			require.NoError(t, err)
			require.Equal(t, "donation_1", d.ID)
			require.Equal(t, 100.0, d.Quantity)
			require.True(t, d.CreatedAt.Equal(d.UpdatedAt))

			got, ok, err := r.GetByID(ctx, d.ID)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, d.ID, got.ID)
			require.Equal(t, d.DonorName, got.DonorName)
			require.True(t, d.CreatedAt.Equal(got.CreatedAt))
		})
	}
}

func TestDonationRepositoryRejectsNegativeQuantity(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := open(t)

			_, err := r.Create(ctx, draft("Neg", domain.DonationTypeFood, -1))
			require.ErrorIs(t, err, domain.ErrNegativeQuantity)

			list, err := r.List(ctx)
			require.NoError(t, err)
			require.Empty(t, list)

			d, err := r.Create(ctx, draft("Pos", domain.DonationTypeFood, 1))
			require.NoError(t, err)

			neg := -5.0
			_, found, err := r.Update(ctx, d.ID, domain.DonationPatch{Quantity: &neg})
			require.True(t, found)
			require.ErrorIs(t, err, domain.ErrNegativeQuantity)

			got, _, err := r.GetByID(ctx, d.ID)
			require.NoError(t, err)
			require.Equal(t, 1.0, got.Quantity)
			require.True(t, d.UpdatedAt.Equal(got.UpdatedAt))
		})
	}
}

func TestDonationRepositoryIDsAreNeverReused(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := open(t)

			seen := make(map[string]bool)
			for i := 0; i < 20; i++ {
				d, err := r.Create(ctx, draft(fmt.Sprintf("donor %d", i), domain.DonationTypeBooks, float64(i)))
				require.NoError(t, err)
				require.False(t, seen[d.ID], "duplicate id %s", d.ID)
				seen[d.ID] = true

				if i%3 == 0 {
					removed, err := r.Delete(ctx, d.ID)
					require.NoError(t, err)
					require.True(t, removed)
				}
			}
			require.Len(t, seen, 20)
		})
	}
}

func TestDonationRepositoryDeleteIsIdempotent(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := open(t)

			d, err := r.Create(ctx, draft("Once", domain.DonationTypeToys, 3))
			require.NoError(t, err)

			removed, err := r.Delete(ctx, d.ID)
			require.NoError(t, err)
			require.True(t, removed)

			for i := 0; i < 3; i++ {
				removed, err = r.Delete(ctx, d.ID)
				require.NoError(t, err)
				require.False(t, removed)
			}

			_, ok, err := r.GetByID(ctx, d.ID)
			require.NoError(t, err)
			require.False(t, ok)

			removed, err = r.Delete(ctx, "does-not-exist")
			require.NoError(t, err)
			require.False(t, removed)
		})
	}
}

func TestDonationRepositoryPartialUpdate(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := open(t, WithClock(newStepClock().Now))

			before, err := r.Create(ctx, domain.DonationDraft{
				DonorName: "Seattle Food Bank",
				Type:      domain.DonationTypeFood,
				Quantity:  50,
				Unit:      "pounds",
				Date:      time.Date(2024, 1, 14, 10, 30, 0, 0, time.UTC),
				Notes:     "Canned goods",
			})
			require.NoError(t, err)

			qty := 5.0
			after, found, err := r.Update(ctx, before.ID, domain.DonationPatch{Quantity: &qty})
			require.NoError(t, err)
			require.True(t, found)

			require.Equal(t, 5.0, after.Quantity)
			require.Equal(t, before.ID, after.ID)
			require.Equal(t, before.DonorName, after.DonorName)
			require.Equal(t, before.Type, after.Type)
			require.Equal(t, before.Unit, after.Unit)
			require.Equal(t, before.Notes, after.Notes)
			require.True(t, before.Date.Equal(after.Date))
			require.True(t, before.CreatedAt.Equal(after.CreatedAt))
			require.True(t, after.UpdatedAt.After(before.UpdatedAt))

			stored, _, err := r.GetByID(ctx, before.ID)
			require.NoError(t, err)
			require.Equal(t, 5.0, stored.Quantity)
		})
	}
}

func TestDonationRepositoryUpdateMissing(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := open(t)

			name := "ghost"
			_, found, err := r.Update(ctx, "donation_42", domain.DonationPatch{DonorName: &name})
			require.NoError(t, err)
			require.False(t, found)

			list, err := r.List(ctx)
			require.NoError(t, err)
			require.Empty(t, list)
		})
	}
}

func TestDonationRepositoryUpdatedAtNeverMovesBackwards(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			frozen := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
			calls := 0
			clock := func() time.Time {
				calls++
				// every later reading is earlier than the first one
				return frozen.Add(-time.Duration(calls-1) * time.Minute)
			}
			r := open(t, WithClock(clock))

			d, err := r.Create(ctx, draft("Clock", domain.DonationTypeOther, 1))
			require.NoError(t, err)

			unit := "boxes"
			updated, _, err := r.Update(ctx, d.ID, domain.DonationPatch{Unit: &unit})
			require.NoError(t, err)
			require.False(t, updated.UpdatedAt.Before(d.UpdatedAt))
			require.True(t, updated.CreatedAt.Equal(d.CreatedAt))
			require.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
		})
	}
}

func TestDonationRepositoryListOrdering(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			same := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
			r := open(t, WithClock(func() time.Time { return same }))

			for i := 1; i <= 4; i++ {
				_, err := r.Create(ctx, draft(fmt.Sprintf("donor %d", i), domain.DonationTypeFood, 1))
				require.NoError(t, err)
			}

			first, err := r.List(ctx)
			require.NoError(t, err)
			ids := make([]string, len(first))
			for i, d := range first {
				ids[i] = d.ID
			}
			require.Equal(t, []string{"donation_4", "donation_3", "donation_2", "donation_1"}, ids)

			for i := 0; i < 5; i++ {
				again, err := r.List(ctx)
				require.NoError(t, err)
				require.Equal(t, first, again)
			}
		})
	}
}

func TestDonationRepositoryListNewestFirst(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := open(t, WithClock(newStepClock().Now))

			for i := 0; i < 6; i++ {
				_, err := r.Create(ctx, draft(fmt.Sprintf("donor %d", i), domain.DonationTypeFood, 1))
				require.NoError(t, err)
			}

			list, err := r.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 6)
			for i := 1; i < len(list); i++ {
				require.True(t, list[i-1].CreatedAt.After(list[i].CreatedAt))
			}
		})
	}
}

func TestDonationRepositoryReturnsCopies(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := open(t)

			d, err := r.Create(ctx, draft("Original", domain.DonationTypeBooks, 2))
			require.NoError(t, err)
			d.DonorName = "mutated"

			list, err := r.List(ctx)
			require.NoError(t, err)
			list[0].Quantity = 999

			got, _, err := r.GetByID(ctx, d.ID)
			require.NoError(t, err)
			require.Equal(t, "Original", got.DonorName)
			require.Equal(t, 2.0, got.Quantity)
		})
	}
}

func TestDonationRepositorySeed(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			r := open(t, WithSeed(SampleDonations()))

			list, err := r.List(context.Background())
			require.NoError(t, err)
			require.Len(t, list, 3)

			john, ok, err := r.GetByID(context.Background(), "donation_1")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "John Smith", john.DonorName)
			require.Equal(t, domain.DonationTypeMoney, john.Type)
		})
	}
}

func TestDonationRepositoryConcurrentCreates(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := open(t)

			const workers, perWorker = 8, 25
			ids := make(chan string, workers*perWorker)
			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for i := 0; i < perWorker; i++ {
						d, err := r.Create(ctx, draft(fmt.Sprintf("w%d-%d", w, i), domain.DonationTypeMoney, 1))
						if err != nil {
							t.Error(err)
							return
						}
						ids <- d.ID
					}
				}(w)
			}
			wg.Wait()
			close(ids)

			seen := make(map[string]bool)
			for id := range ids {
				require.False(t, seen[id])
				seen[id] = true
			}
			require.Len(t, seen, workers*perWorker)

			list, err := r.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, workers*perWorker)
		})
	}
}

func TestDonationRepositoryCancelledContext(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			r := open(t)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := r.List(ctx)
			require.ErrorIs(t, err, context.Canceled)
			_, err = r.Create(ctx, draft("late", domain.DonationTypeFood, 1))
			require.ErrorIs(t, err, context.Canceled)
		})
	}
}
