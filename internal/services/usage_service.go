package services

import (
	"textcompare-api/internal/logger"
	"textcompare-api/internal/models"
	"textcompare-api/internal/repository"
	"time"

	"github.com/sirupsen/logrus"
)

type UsageService interface {
	// RecordOperation appends one usage-log row and bumps the period counter.
	// Bookkeeping failures are logged, never surfaced to the caller.
	RecordOperation(apiKeyID, action string, statusCode int, detail string)

	GetCurrentUsage(apiKeyID string) (*UsageStats, error)
}

type UsageStats struct {
	CurrentCount int
	PeriodEnd    time.Time
}

type usageService struct {
	repo repository.UsageRepository
}

func NewUsageService(repo repository.UsageRepository) UsageService {
	return &usageService{repo: repo}
}

func (s *usageService) RecordOperation(apiKeyID, action string, statusCode int, detail string) {
	status := models.StatusSuccess
	if statusCode >= 400 {
		status = models.StatusError
	}

	err := s.repo.AppendLog(&models.UsageLog{
		APIKeyID:   apiKeyID,
		Action:     action,
		StatusCode: statusCode,
		Status:     status,
		Detail:     detail,
		Timestamp:  time.Now(),
	})
	if err != nil {
		logger.Logger.WithFields(logrus.Fields{
			"error":   err,
			"api_key": apiKeyID,
			"action":  action,
		}).Error("Failed to append usage log")
	}

	if statusCode < 400 {
		if err := s.repo.IncrementUsage(apiKeyID); err != nil {
			logger.Logger.WithFields(logrus.Fields{
				"error":   err,
				"api_key": apiKeyID,
			}).Error("Failed to increment usage counter")
		}
	}
}

func (s *usageService) GetCurrentUsage(apiKeyID string) (*UsageStats, error) {
	now := time.Now()
	periodStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0).Add(-time.Second)

	usage, err := s.repo.GetCurrentUsage(apiKeyID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	count := 0
	if usage != nil {
		count = usage.RequestCount
	}

	return &UsageStats{
		CurrentCount: count,
		PeriodEnd:    periodEnd,
	}, nil
}
