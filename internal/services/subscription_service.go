package services

import (
	"context"
	"errors"
	"textcompare-api/internal/models"
	apierrors "textcompare-api/internal/pkg/errors"
	"textcompare-api/internal/repository"
	"time"

	"github.com/google/uuid"
)

// SubscriptionService is the subscription gate. It is consulted both at
// authorization time and again before every billable operation, since a
// subscription may lapse between token issuance and token use.
type SubscriptionService interface {
	// Gate returns nil when the key's subscription admits requests now,
	// ErrSubscriptionExpired otherwise.
	Gate(ctx context.Context, apiKeyID uuid.UUID) error

	// Status returns the key's current subscription for read-only queries.
	Status(ctx context.Context, apiKeyID uuid.UUID) (*models.Subscription, error)
}

type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	now              func() time.Time
}

func NewSubscriptionService(subscriptionRepo repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		now:              time.Now,
	}
}

func (s *subscriptionService) Gate(ctx context.Context, apiKeyID uuid.UUID) error {
	subscription, err := s.subscriptionRepo.GetByAPIKeyID(ctx, apiKeyID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return apierrors.ErrSubscriptionExpired
		}
		return err
	}

	if !subscription.IsActiveAt(s.now()) {
		return apierrors.ErrSubscriptionExpired
	}

	return nil
}

func (s *subscriptionService) Status(ctx context.Context, apiKeyID uuid.UUID) (*models.Subscription, error) {
	subscription, err := s.subscriptionRepo.GetByAPIKeyID(ctx, apiKeyID)
	if errors.Is(err, repository.ErrSubscriptionNotFound) {
		return nil, apierrors.ErrNotFound
	}
	return subscription, err
}
