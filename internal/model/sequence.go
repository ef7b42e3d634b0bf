package model

import "github.com/google/uuid"

// TenantSequence is a named per-tenant counter bumped with an atomic
// upsert-returning statement. Used for sale numbering — deriving the next
// number from a row count races under concurrent writers.
type TenantSequence struct {
	TenantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"primaryKey"`
	Value    int64     `gorm:"not null;default:0"`
}

func (TenantSequence) TableName() string { return "tenant_sequences" }

// SeqSaleNumber is the sequence name for sale numbering.
const SeqSaleNumber = "sale_number"
