package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditPayment is one partial payment against a credit sale. The sum of
// payments for a sale never exceeds the sale total.
type CreditPayment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method     string          `gorm:"type:varchar(20);not null"`
	ReceivedBy string          `gorm:"not null"`
	CreatedAt  time.Time
}
