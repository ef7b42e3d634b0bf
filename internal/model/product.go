package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock status values derived from quantity vs. min threshold.
const (
	StockStatusInStock    = "in_stock"
	StockStatusLowStock   = "low_stock"
	StockStatusOutOfStock = "out_of_stock"
)

// DefaultMinThreshold applies when a product is created without one.
const DefaultMinThreshold = 5

// Product is the tenant-scoped catalog entry carrying the global balance.
// Quantity is mutated exclusively through the stock ledger — every change
// is paired with a StockMovement inside the same transaction.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index:idx_products_tenant"`
	Barcode      string    `gorm:"index;not null"`
	Name         string    `gorm:"index;not null"`
	Description  *string
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity     int             `gorm:"not null;default:0"`
	MinThreshold int             `gorm:"not null;default:5"`
	MaxThreshold *int
	// Regulated products (controlled substances etc.) must be sold through
	// the batch-tracked path.
	Regulated bool   `gorm:"not null;default:false"`
	Status    string `gorm:"type:varchar(20);not null;default:'in_stock'"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
