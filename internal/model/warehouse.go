package model

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a tenant-scoped physical location.
type Warehouse struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	Location  *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WarehouseStock is the per-(warehouse, product) balance projection.
// Rows are created on the first movement referencing the pair and adjusted
// thereafter, always inside the movement's own transaction.
type WarehouseStock struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_warehouse_product"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_warehouse_product"`
	Quantity    int       `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID"`
	Product   *Product   `gorm:"foreignKey:ProductID"`
}

func (WarehouseStock) TableName() string { return "warehouse_stocks" }
