package repository

import (
	"context"
	"errors"
	"textcompare-api/internal/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	GetByAPIKeyID(ctx context.Context, apiKeyID uuid.UUID) (*models.Subscription, error)
	Renew(ctx context.Context, apiKeyID uuid.UUID, planType models.SubscriptionPlan, endDate time.Time) error
}

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{
		db: db,
	}
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	if err := r.db.WithContext(ctx).Create(subscription).Error; err != nil {
		return err
	}
	return nil
}

// GetByAPIKeyID returns the most recent subscription for the key. Whether it
// currently admits requests is the gate's call, not a query condition, so a
// lapsed subscription is still readable for status endpoints.
func (r *subscriptionRepository) GetByAPIKeyID(ctx context.Context, apiKeyID uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription

	err := r.db.WithContext(ctx).
		Where("api_key_id = ?", apiKeyID).
		Order("created_at DESC").
		First(&subscription).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}

	return &subscription, err
}

func (r *subscriptionRepository) Renew(ctx context.Context, apiKeyID uuid.UUID, planType models.SubscriptionPlan, endDate time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("api_key_id = ?", apiKeyID).
		Updates(map[string]interface{}{
			"plan_type":  planType,
			"end_date":   endDate,
			"status":     "active",
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}
