package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	AlertLowStock   = "low_stock"
	AlertOutOfStock = "out_of_stock"

	AlertPriorityHigh     = "high"
	AlertPriorityCritical = "critical"
)

// StockAlert is derived state produced by the status evaluator. At most one
// unresolved alert exists per (tenant, product, type) — enforced by a
// partial unique index and by the evaluator's create-if-absent path.
type StockAlert struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Type       string    `gorm:"type:varchar(20);not null"`
	Priority   string    `gorm:"type:varchar(20);not null"`
	Message    string    `gorm:"not null"`
	Resolved   bool      `gorm:"not null;default:false"`
	ResolvedAt *time.Time
	CreatedAt  time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (StockAlert) TableName() string { return "stock_alerts" }
