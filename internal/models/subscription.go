package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionPlan string

const (
	FreePlan       SubscriptionPlan = "FREE"
	ProPlan        SubscriptionPlan = "PRO"
	EnterprisePlan SubscriptionPlan = "ENTERPRISE"
)

type Subscription struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	APIKeyID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"api_key_id"`
	PlanType  SubscriptionPlan `gorm:"type:varchar(20);not null" json:"plan_type"`
	StartDate time.Time        `gorm:"not null" json:"start_date"`
	EndDate   *time.Time       `gorm:"default:null" json:"end_date"`
	Status    string           `gorm:"type:varchar(50);not null" json:"status"`
	CreatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
	APIKey    APIKey           `gorm:"foreignKey:APIKeyID" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// IsActiveAt reports whether the subscription admits requests at the given
// instant. The date window governs: a stored "active" status never extends
// access past EndDate, and a future StartDate blocks it. A nil EndDate means
// open-ended.
func (s *Subscription) IsActiveAt(now time.Time) bool {
	if s.Status != "active" {
		return false
	}
	if now.Before(s.StartDate) {
		return false
	}
	if s.EndDate != nil && !now.Before(*s.EndDate) {
		return false
	}
	return true
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}

	return nil
}

func (s *Subscription) BeforeUpdate(tx *gorm.DB) error {
	s.UpdatedAt = time.Now()
	return nil
}
