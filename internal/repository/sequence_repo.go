package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SequenceRepository issues monotonic per-tenant numbers. NextTx MUST run
// inside the transaction of the row that consumes the number, and MUST be
// a single atomic statement — "count rows + 1" races under concurrent
// writers from the same tenant.
type SequenceRepository interface {
	NextTx(tx *gorm.DB, tenantID uuid.UUID, name string) (int64, error)
}

type sequenceRepo struct{ db *gorm.DB }

func NewSequenceRepository(db *gorm.DB) SequenceRepository { return &sequenceRepo{db: db} }

func (r *sequenceRepo) NextTx(tx *gorm.DB, tenantID uuid.UUID, name string) (int64, error) {
	var value int64
	err := tx.Raw(`
		INSERT INTO tenant_sequences (tenant_id, name, value)
		VALUES (?, ?, 1)
		ON CONFLICT (tenant_id, name)
		DO UPDATE SET value = tenant_sequences.value + 1
		RETURNING value`, tenantID, name).Scan(&value).Error
	return value, err
}
