package repository

import (
	"textcompare-api/internal/models"
	"time"

	"gorm.io/gorm"
)

type UsageRepository interface {
	AppendLog(log *models.UsageLog) error
	GetCurrentUsage(apiKeyID string, periodStart, periodEnd time.Time) (*models.APIUsage, error)
	IncrementUsage(apiKeyID string) error
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) AppendLog(log *models.UsageLog) error {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}
	return r.db.Create(log).Error
}

func (r *usageRepository) GetCurrentUsage(apiKeyID string, periodStart, periodEnd time.Time) (*models.APIUsage, error) {
	var usage models.APIUsage
	err := r.db.Where("api_key_id = ? AND period_start = ? AND period_end = ?",
		apiKeyID, periodStart, periodEnd).First(&usage).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return &usage, err
}

func (r *usageRepository) IncrementUsage(apiKeyID string) error {
	now := time.Now()
	periodStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0).Add(-time.Second)

	return r.db.Transaction(func(tx *gorm.DB) error {
		var usage models.APIUsage
		err := tx.Where("api_key_id = ? AND period_start = ? AND period_end = ?",
			apiKeyID, periodStart, periodEnd).First(&usage).Error

		if err == gorm.ErrRecordNotFound {
			usage = models.APIUsage{
				APIKeyID:     apiKeyID,
				RequestCount: 1,
				PeriodStart:  periodStart,
				PeriodEnd:    periodEnd,
			}
			return tx.Create(&usage).Error
		}

		if err != nil {
			return err
		}

		usage.RequestCount++
		return tx.Save(&usage).Error
	})
}
