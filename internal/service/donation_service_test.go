package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"donationtracker/internal/adapter/repo"
	"donationtracker/internal/domain"
	"donationtracker/internal/metrics"
)

func newService(t *testing.T) *DonationService {
	t.Helper()
	r, err := repo.NewDonationRepository()
	require.NoError(t, err)
	svc, err := New(Config{Repository: r})
	require.NoError(t, err)
	return svc
}

func create(t *testing.T, svc *DonationService, typ domain.DonationType, qty float64) domain.Donation {
	t.Helper()
	d, err := svc.Create(context.Background(), domain.DonationDraft{
		DonorName: fmt.Sprintf("%s donor", typ),
		Type:      typ,
		Quantity:  qty,
		Unit:      "units",
		Date:      time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return d
}

func TestNewRequiresRepository(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.Error(t, err)
}

func TestStatsThreeTypes(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	create(t, svc, domain.DonationTypeMoney, 100)
	create(t, svc, domain.DonationTypeFood, 50)
	create(t, svc, domain.DonationTypeClothing, 25)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalDonations)
	require.Equal(t, 100.0, stats.TotalMoneyDonated)
	require.Equal(t, map[domain.DonationType]int{
		domain.DonationTypeMoney:    1,
		domain.DonationTypeFood:     1,
		domain.DonationTypeClothing: 1,
	}, stats.DonationsByType)
}

func TestStatsConsistentWithList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newService(t)
	types := domain.DonationTypes()
	for i := 0; i < 12; i++ {
		create(t, svc, types[i%len(types)], float64(i*10))
	}
	list, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.Delete(ctx, list[3].ID)
	require.NoError(t, err)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	require.Equal(t, len(list), stats.TotalDonations)
	require.Equal(t, list[:domain.RecentDonationsLimit], stats.RecentDonations)

	sum := 0
	for _, n := range stats.DonationsByType {
		sum += n
	}
	require.Equal(t, stats.TotalDonations, sum)

	money := 0.0
	for _, d := range list {
		if d.Type == domain.DonationTypeMoney {
			money += d.Quantity
		}
	}
	require.Equal(t, money, stats.TotalMoneyDonated)
}

func TestStatsAreNeverStale(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newService(t)
	d := create(t, svc, domain.DonationTypeMoney, 10)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 10.0, stats.TotalMoneyDonated)

	qty := 40.0
	_, ok, err := svc.Update(ctx, d.ID, domain.DonationPatch{Quantity: &qty})
	require.NoError(t, err)
	require.True(t, ok)

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 40.0, stats.TotalMoneyDonated)

	food := domain.DonationTypeFood
	_, _, err = svc.Update(ctx, d.ID, domain.DonationPatch{Type: &food})
	require.NoError(t, err)

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.TotalMoneyDonated)
	require.Equal(t, map[domain.DonationType]int{domain.DonationTypeFood: 1}, stats.DonationsByType)
}

func TestMoneyTotalIgnoresOtherTypes(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	create(t, svc, domain.DonationTypeMoney, 12.5)
	create(t, svc, domain.DonationTypeFood, 1e6)
	create(t, svc, domain.DonationTypeBooks, 300)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12.5, stats.TotalMoneyDonated)
}

func TestMutationsAreCounted(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	counter := func(op string) float64 {
		mf, err := metrics.Registry.Gather()
		require.NoError(t, err)
		for _, family := range mf {
			if family.GetName() != "donation_tracker_donations_mutations_total" {
				continue
			}
			for _, m := range family.GetMetric() {
				for _, l := range m.GetLabel() {
					if l.GetName() == "op" && l.GetValue() == op {
						return m.GetCounter().GetValue()
					}
				}
			}
		}
		return 0
	}

	before := counter("delete")
	d := create(t, svc, domain.DonationTypeToys, 1)
	_, err := svc.Delete(ctx, d.ID)
	require.NoError(t, err)
	_, err = svc.Delete(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, before+1, counter("delete"))

	require.GreaterOrEqual(t, counter("create"), 1.0)
}

type failingRepo struct {
	domain.DonationRepository
}

var errBoom = errors.New("boom")

func (failingRepo) List(context.Context) ([]domain.Donation, error) { return nil, errBoom }

func TestStatsPropagatesRepositoryErrors(t *testing.T) {
	t.Parallel()

	svc, err := New(Config{Repository: failingRepo{}})
	require.NoError(t, err)

	_, err = svc.Stats(context.Background())
	require.ErrorIs(t, err, errBoom)
}
