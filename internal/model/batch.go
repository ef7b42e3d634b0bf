package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	BatchStatusActive   = "active"
	BatchStatusDepleted = "depleted"
)

// Batch is a receipt lot of a product with its own availability, cost and
// expiry. QuantityAvailable only decreases after receipt; hitting zero flips
// the batch to depleted and it is never reactivated.
type Batch struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	LotNumber         string          `gorm:"not null"`
	QuantityReceived  int             `gorm:"not null"`
	QuantityAvailable int             `gorm:"not null"`
	ExpiryDate        time.Time       `gorm:"not null;index"`
	CostPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status            string          `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (Batch) TableName() string { return "batches" }
