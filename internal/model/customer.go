package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer holds loyalty counters updated best-effort by the async worker.
// Outstanding credit is NOT kept here — it is folded from credit sales at
// query time.
type Customer struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"not null"`
	Phone         *string
	LoyaltyPoints int             `gorm:"not null;default:0"`
	LifetimeTotal decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
