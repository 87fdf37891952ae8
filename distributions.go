package main

import (
	"context"
	"fmt"
	"log/slog"
)

const eventDistributionCreated = "distribution.created"

type DistributionService struct {
	store     Store
	publisher EventPublisher
	log       *slog.Logger
}

func NewDistributionService(store Store, publisher EventPublisher, logger *slog.Logger) *DistributionService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &DistributionService{store: store, publisher: publisher, log: logger}
}

// Create stores the distribution as given; amounts and shares are not cross-checked.
func (s *DistributionService) Create(ctx context.Context, d Distribution) (Distribution, error) {
	created, err := s.store.CreateDistribution(ctx, d)
	if err != nil {
		return Distribution{}, fmt.Errorf("failed to save distribution: %w", err)
	}

	event := DistributionEvent{
		Type:           eventDistributionCreated,
		DistributionID: created.Id,
		UserID:         created.UserId,
		Amount:         created.Amount,
		Friends:        len(created.Friends),
	}
	if err := s.publisher.Publish(event); err != nil {
		s.log.WarnContext(ctx, "failed to publish distribution event", "distribution_id", created.Id, "error", err)
	}

	return created, nil
}

// ListByUser returns the user's distributions in the order the store yields them.
func (s *DistributionService) ListByUser(ctx context.Context, userID int) ([]Distribution, error) {
	distributions, err := s.store.ListDistributions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch distributions: %w", err)
	}
	if distributions == nil {
		distributions = []Distribution{}
	}
	return distributions, nil
}
