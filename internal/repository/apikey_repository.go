package repository

import (
	"context"
	"textcompare-api/internal/models"
	"textcompare-api/internal/pkg/errors"
	"time"

	"gorm.io/gorm"
)

type APIKeyRepository interface {
	Create(ctx context.Context, apiKey *models.APIKey) error
	GetByKey(ctx context.Context, key string) (*models.APIKey, error)
	Deactivate(ctx context.Context, key string) error

	// ConditionalDebit atomically subtracts cost from the balance, but only if
	// the pre-debit balance covers both the cost and the low-water mark. It
	// returns the post-debit balance, ErrQuotaExhausted when the condition
	// fails, or ErrCredentialNotFound for an unknown or inactive key.
	ConditionalDebit(ctx context.Context, key string, cost, lowWaterMark int) (int, error)

	// Credit raises the balance by tokens, capped at the token limit, and
	// optionally installs a new limit. The single UPDATE serializes with
	// concurrent debits at the storage layer.
	Credit(ctx context.Context, key string, tokens int, newLimit *int) error
}

type apiKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Create(ctx context.Context, apiKey *models.APIKey) error {
	result := r.db.WithContext(ctx).Create(apiKey)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to create API key")
	}
	return nil
}

func (r *apiKeyRepository) GetByKey(ctx context.Context, key string) (*models.APIKey, error) {
	var apiKey models.APIKey
	result := r.db.WithContext(ctx).First(&apiKey, "key = ?", key)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrCredentialNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get API key by key")
	}

	return &apiKey, nil
}

func (r *apiKeyRepository) Deactivate(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("key = ?", key).
		Updates(map[string]interface{}{
			"status":     models.APIKeyInactive,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to deactivate API key")
	}

	if result.RowsAffected == 0 {
		return errors.ErrCredentialNotFound
	}

	return nil
}

func (r *apiKeyRepository) ConditionalDebit(ctx context.Context, key string, cost, lowWaterMark int) (int, error) {
	result := r.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("key = ? AND status = ? AND tokens_remaining >= ? AND tokens_remaining >= ?",
			key, models.APIKeyActive, cost, lowWaterMark).
		UpdateColumn("tokens_remaining", gorm.Expr("tokens_remaining - ?", cost))

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to debit tokens")
	}

	if result.RowsAffected == 0 {
		// Distinguish an unknown key from an insufficient balance.
		apiKey, err := r.GetByKey(ctx, key)
		if err != nil {
			return 0, err
		}
		if apiKey.Status != models.APIKeyActive {
			return 0, errors.ErrCredentialNotFound
		}
		return apiKey.TokensRemaining, errors.ErrQuotaExhausted
	}

	apiKey, err := r.GetByKey(ctx, key)
	if err != nil {
		return 0, err
	}
	return apiKey.TokensRemaining, nil
}

func (r *apiKeyRepository) Credit(ctx context.Context, key string, tokens int, newLimit *int) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if newLimit != nil {
		updates["token_limit"] = *newLimit
		updates["tokens_remaining"] = gorm.Expr("LEAST(tokens_remaining + ?, ?)", tokens, *newLimit)
	} else {
		updates["tokens_remaining"] = gorm.Expr("LEAST(tokens_remaining + ?, token_limit)", tokens)
	}

	result := r.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("key = ?", key).
		Updates(updates)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to credit tokens")
	}

	if result.RowsAffected == 0 {
		return errors.ErrCredentialNotFound
	}

	return nil
}
