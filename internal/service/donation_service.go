// Package service holds the donation use-cases shared by the HTTP facade.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"donationtracker/internal/domain"
	"donationtracker/internal/metrics"
)

// Config holds the dependencies of a DonationService.
type Config struct {
	// Repository owns the donation records.
	Repository domain.DonationRepository

	// Logger receives mutation audit lines. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

func (c *Config) validate() error {
	if c.Repository == nil {
		return errors.New("donation repository is required")
	}
	return nil
}

// DonationService wraps a repository with statistics, logging and metrics.
type DonationService struct {
	repo   domain.DonationRepository
	logger zerolog.Logger
}

// New creates a DonationService.
func New(cfg Config) (*DonationService, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "donations").Logger()
	}
	return &DonationService{repo: cfg.Repository, logger: logger}, nil
}

func (s *DonationService) List(ctx context.Context) ([]domain.Donation, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return list, nil
}

func (s *DonationService) Get(ctx context.Context, id string) (domain.Donation, bool, error) {
	d, ok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Donation{}, false, fmt.Errorf("get donation %s: %w", id, err)
	}
	return d, ok, nil
}

func (s *DonationService) Create(ctx context.Context, draft domain.DonationDraft) (domain.Donation, error) {
	d, err := s.repo.Create(ctx, draft)
	if err != nil {
		return domain.Donation{}, fmt.Errorf("create donation: %w", err)
	}
	metrics.RecordDonationMutation("create")
	s.logger.Info().Str("id", d.ID).Str("type", string(d.Type)).Float64("quantity", d.Quantity).Msg("donation created")
	return d, nil
}

func (s *DonationService) Update(ctx context.Context, id string, patch domain.DonationPatch) (domain.Donation, bool, error) {
	d, ok, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Donation{}, ok, fmt.Errorf("update donation %s: %w", id, err)
	}
	if !ok {
		return domain.Donation{}, false, nil
	}
	metrics.RecordDonationMutation("update")
	s.logger.Info().Str("id", d.ID).Msg("donation updated")
	return d, true, nil
}

func (s *DonationService) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete donation %s: %w", id, err)
	}
	if removed {
		metrics.RecordDonationMutation("delete")
		s.logger.Info().Str("id", id).Msg("donation deleted")
	}
	return removed, nil
}

// Stats is recomputed from the repository on every call.
func (s *DonationService) Stats(ctx context.Context) (domain.Statistics, error) {
	list, err := s.List(ctx)
	if err != nil {
		return domain.Statistics{}, err
	}
	return domain.ComputeStatistics(list), nil
}
