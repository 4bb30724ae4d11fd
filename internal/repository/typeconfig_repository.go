package repository

import (
	"context"
	"textcompare-api/internal/models"
	"textcompare-api/internal/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TypeConfigRepository interface {
	Create(ctx context.Context, cfg *models.TypeConfig) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TypeConfig, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type typeConfigRepository struct {
	db *gorm.DB
}

func NewTypeConfigRepository(db *gorm.DB) TypeConfigRepository {
	return &typeConfigRepository{db: db}
}

func (r *typeConfigRepository) Create(ctx context.Context, cfg *models.TypeConfig) error {
	result := r.db.WithContext(ctx).Create(cfg)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to create type config")
	}
	return nil
}

func (r *typeConfigRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TypeConfig, error) {
	var cfg models.TypeConfig
	result := r.db.WithContext(ctx).First(&cfg, "id = ?", id)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get type config by id")
	}

	return &cfg, nil
}

func (r *typeConfigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TypeConfig{}, "id = ?", id)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete type config")
	}

	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}

	return nil
}
