package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderMock   Provider = "mock"
)

// TypeConfig bundles the prompt/model/provider parameters driving a
// comparison. Handlers never hand one to a request directly: callers copy the
// value so an in-flight comparison is never affected by an edit.
type TypeConfig struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Scale        string         `gorm:"type:varchar(50);not null" json:"scale"`
	SystemPrompt string         `gorm:"type:text;not null" json:"system_prompt"`
	UserPrompt   string         `gorm:"type:text;not null" json:"user_prompt"`
	Model        string         `gorm:"type:varchar(100);not null" json:"model"`
	Provider     Provider       `gorm:"type:varchar(20);not null" json:"provider"`
	Description  string         `gorm:"type:text" json:"description"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TypeConfig) TableName() string {
	return "type_configs"
}

func (c *TypeConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	return nil
}

func (c *TypeConfig) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	return nil
}
