package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferenceText is an uploaded reference document, owned by the API key that
// uploaded it. Comparisons may only target texts owned by the calling key.
type ReferenceText struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	APIKeyID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"api_key_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ReferenceText) TableName() string {
	return "reference_texts"
}

func (t *ReferenceText) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return nil
}
