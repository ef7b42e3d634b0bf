package repository

import (
	"context"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BatchRepository interface {
	CreateTx(tx *gorm.DB, b *model.Batch) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Batch, error)
	FindByIDForUpdateTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Batch, error)
	// UpdateAvailableTx writes the new availability and status together —
	// the depletion flip must land in the same statement as the decrement.
	UpdateAvailableTx(tx *gorm.DB, tenantID, id uuid.UUID, available int, status string) error
	// ListActiveFEFO returns a product's active batches nearest expiry
	// first, for callers picking batches first-expire-first-out.
	ListActiveFEFO(ctx context.Context, tenantID, productID uuid.UUID) ([]model.Batch, error)
	ListExpired(ctx context.Context, tenantID uuid.UUID) ([]model.Batch, error)
}

type batchRepo struct{ db *gorm.DB }

func NewBatchRepository(db *gorm.DB) BatchRepository { return &batchRepo{db: db} }

func (r *batchRepo) CreateTx(tx *gorm.DB, b *model.Batch) error {
	return tx.Create(b).Error
}

func (r *batchRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Batch, error) {
	var b model.Batch
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&b, "id = ?", id).Error
	return &b, err
}

func (r *batchRepo) FindByIDForUpdateTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Batch, error) {
	var b model.Batch
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ?", tenantID).
		First(&b, "id = ?", id).Error
	return &b, err
}

func (r *batchRepo) UpdateAvailableTx(tx *gorm.DB, tenantID, id uuid.UUID, available int, status string) error {
	return tx.Model(&model.Batch{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(map[string]interface{}{
			"quantity_available": available,
			"status":             status,
		}).Error
}

func (r *batchRepo) ListActiveFEFO(ctx context.Context, tenantID, productID uuid.UUID) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND status = ?", tenantID, productID, model.BatchStatusActive).
		Order("expiry_date ASC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) ListExpired(ctx context.Context, tenantID uuid.UUID) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND expiry_date < NOW()", tenantID, model.BatchStatusActive).
		Order("expiry_date ASC").
		Find(&batches).Error
	return batches, err
}
