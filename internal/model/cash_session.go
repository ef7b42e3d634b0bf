package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// Payment methods accepted at the point of sale.
const (
	PayCash        = "cash"
	PayCard        = "card"
	PayTransfer    = "transfer"
	PayMobileMoney = "mobile_money"
)

// CashSession is one tenant's drawer lifecycle: open → closed (terminal).
// The per-method totals, expected balance and difference are computed once
// at close and never recomputed afterwards.
type CashSession struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index"`
	OpenedBy       string    `gorm:"not null"`
	ClosedBy       *string
	OpeningBalance decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Withdrawals    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Deposits       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// Populated only at close.
	CashTotal        *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CardTotal        *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TransferTotal    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MobileMoneyTotal *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreditTotal      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ExpectedBalance  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ActualBalance    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Difference       *decimal.Decimal `gorm:"type:decimal(12,2)"`

	Status   string `gorm:"type:varchar(20);not null;default:'open'"`
	OpenedAt time.Time
	ClosedAt *time.Time
}

func (CashSession) TableName() string { return "cash_sessions" }
