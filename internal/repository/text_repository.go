package repository

import (
	"context"
	"textcompare-api/internal/models"
	"textcompare-api/internal/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TextRepository interface {
	Create(ctx context.Context, text *models.ReferenceText) error

	// GetByIDForKey resolves a reference text only when it is owned by the
	// given API key, so one key can never read another key's documents.
	GetByIDForKey(ctx context.Context, id, apiKeyID uuid.UUID) (*models.ReferenceText, error)
}

type textRepository struct {
	db *gorm.DB
}

func NewTextRepository(db *gorm.DB) TextRepository {
	return &textRepository{db: db}
}

func (r *textRepository) Create(ctx context.Context, text *models.ReferenceText) error {
	result := r.db.WithContext(ctx).Create(text)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to create reference text")
	}
	return nil
}

func (r *textRepository) GetByIDForKey(ctx context.Context, id, apiKeyID uuid.UUID) (*models.ReferenceText, error) {
	var text models.ReferenceText
	result := r.db.WithContext(ctx).First(&text, "id = ? AND api_key_id = ?", id, apiKeyID)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrTextNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get reference text")
	}

	return &text, nil
}
