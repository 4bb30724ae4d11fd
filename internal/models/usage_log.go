package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// UsageLog records one billable or administrative action against an API key.
type UsageLog struct {
	gorm.Model
	APIKeyID   string    `gorm:"index" json:"apiKeyId"`
	Action     string    `json:"action"`
	StatusCode int       `json:"statusCode"`
	Status     string    `json:"status"`
	Detail     string    `json:"detail"`
	Timestamp  time.Time `json:"timestamp"`
}

// APIUsage aggregates request counts per API key and billing period.
type APIUsage struct {
	ID           uint   `gorm:"primarykey"`
	APIKeyID     string `gorm:"index"`
	RequestCount int
	PeriodStart  time.Time `gorm:"index"`
	PeriodEnd    time.Time `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
