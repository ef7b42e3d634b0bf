package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement types. Sign of the applied delta is recoverable from the
// before/after snapshots; Quantity stores the magnitude.
const (
	MovementPurchase   = "purchase"
	MovementSale       = "sale"
	MovementReturnIn   = "return_in"
	MovementReturnOut  = "return_out"
	MovementAdjustment = "adjustment"
	MovementExpired    = "expired"
	MovementTransfer   = "transfer"
	MovementLoss       = "loss"
)

// Origin module tags recorded on every movement for audit trails.
const (
	OriginStock    = "stock"
	OriginSales    = "sales"
	OriginPurchase = "purchases"
	OriginTransfer = "transfers"
)

// StockMovement is the immutable, append-only record behind every balance
// change. Movements are NEVER updated or deleted — corrections create
// inverse entries.
type StockMovement struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	WarehouseID   *uuid.UUID `gorm:"type:uuid;index"`
	BatchID       *uuid.UUID `gorm:"type:uuid;index"`
	Type          string     `gorm:"type:varchar(20);not null"`
	Quantity      int        `gorm:"not null"` // magnitude of the applied delta
	BalanceBefore int        `gorm:"not null"`
	BalanceAfter  int        `gorm:"not null"`
	OriginModule  string     `gorm:"type:varchar(20);not null"`
	Reference     *uuid.UUID `gorm:"type:uuid"` // sale, transfer or session id
	Reason        string
	Performer     string `gorm:"not null"`
	CreatedAt     time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (StockMovement) TableName() string { return "stock_movements" }

// Delta reconstructs the signed quantity applied by this movement.
func (m *StockMovement) Delta() int { return m.BalanceAfter - m.BalanceBefore }
