package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type APIKeyStatus string

const (
	APIKeyActive   APIKeyStatus = "active"
	APIKeyInactive APIKeyStatus = "inactive"
)

// APIKey is the caller credential. SecretKey is write-once: it is handed out
// when the key is created and never serialized again. LLMAPIKey is the
// upstream provider credential billed against this key.
type APIKey struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Key             string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"key"`
	SecretKey       string         `gorm:"type:varchar(255);not null" json:"-"`
	TypeConfigID    uuid.UUID      `gorm:"type:uuid;not null" json:"type_config_id"`
	LLMAPIKey       string         `gorm:"type:varchar(255);not null" json:"-"`
	TokensRemaining int            `gorm:"not null;default:10000" json:"tokens_remaining"`
	TokenLimit      int            `gorm:"not null;default:10000" json:"token_limit"`
	Status          APIKeyStatus   `gorm:"type:varchar(10);not null;default:'active'" json:"status"`
	CreatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	TypeConfig      TypeConfig     `gorm:"foreignKey:TypeConfigID" json:"-"`
}

func (APIKey) TableName() string {
	return "api_keys"
}

func (k *APIKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}

	now := time.Now()
	if k.CreatedAt.IsZero() {
		k.CreatedAt = now
	}
	if k.UpdatedAt.IsZero() {
		k.UpdatedAt = now
	}

	return nil
}

func (k *APIKey) BeforeUpdate(tx *gorm.DB) error {
	k.UpdatedAt = time.Now()
	return nil
}
