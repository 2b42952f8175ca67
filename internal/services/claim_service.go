package services

import (
	"context"
	"fmt"
	"log/slog"

	"foodshare/internal/amqp"
	"foodshare/internal/core"
	"foodshare/internal/log"
	"foodshare/internal/storage"
)

// ClaimService orchestrates claim writes across SQLite and AMQP: the
// claim is saved locally first, then an event is published for the
// report worker. A publish failure never fails the request.
type ClaimService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewClaimService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *ClaimService {
	return &ClaimService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateClaim saves a claim locally and publishes a claim event.
func (s *ClaimService) CreateClaim(ctx context.Context, c core.Claim) (int64, error) {
	id, err := s.storage.CreateClaim(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("save claim: %w", err)
	}

	// Version 1 for a new claim
	if err := s.publishClaimEvent(ctx, id, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish claim event",
			log.FieldComponent, log.ComponentClaims,
			log.FieldClaimID, id, log.FieldError, err)
	}

	return id, nil
}

// ResolveClaim updates a claim's status and publishes a follow-up event
// so the report row gets refreshed.
func (s *ClaimService) ResolveClaim(ctx context.Context, id int64, status core.ClaimStatus) error {
	if err := s.storage.UpdateClaimStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update claim: %w", err)
	}

	if err := s.publishClaimEvent(ctx, id, 2); err != nil {
		slog.ErrorContext(ctx, "Failed to publish claim event",
			log.FieldComponent, log.ComponentClaims,
			log.FieldClaimID, id, log.FieldError, err)
	}

	return nil
}

func (s *ClaimService) publishClaimEvent(ctx context.Context, id, version int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping claim event")
		return nil
	}
	return s.amqpClient.PublishClaimEvent(ctx, id, version)
}

// Close closes both storage and AMQP connections
func (s *ClaimService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close claim service: %v", errs)
	}

	return nil
}
