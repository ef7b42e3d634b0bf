package repository

import (
	"context"
	"time"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertRepository interface {
	// FindUnresolvedTx looks up the open alert for (product, type), if any.
	FindUnresolvedTx(tx *gorm.DB, tenantID, productID uuid.UUID, alertType string) (*model.StockAlert, error)
	CreateTx(tx *gorm.DB, a *model.StockAlert) error
	ResolveTx(tx *gorm.DB, tenantID, productID uuid.UUID, alertType string) error
	ListUnresolved(ctx context.Context, tenantID uuid.UUID) ([]model.StockAlert, error)
}

type alertRepo struct{ db *gorm.DB }

func NewAlertRepository(db *gorm.DB) AlertRepository { return &alertRepo{db: db} }

func (r *alertRepo) FindUnresolvedTx(tx *gorm.DB, tenantID, productID uuid.UUID, alertType string) (*model.StockAlert, error) {
	var a model.StockAlert
	err := tx.Where("tenant_id = ? AND product_id = ? AND type = ? AND resolved = false",
		tenantID, productID, alertType).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *alertRepo) CreateTx(tx *gorm.DB, a *model.StockAlert) error {
	return tx.Create(a).Error
}

func (r *alertRepo) ResolveTx(tx *gorm.DB, tenantID, productID uuid.UUID, alertType string) error {
	now := time.Now()
	return tx.Model(&model.StockAlert{}).
		Where("tenant_id = ? AND product_id = ? AND type = ? AND resolved = false",
			tenantID, productID, alertType).
		Updates(map[string]interface{}{"resolved": true, "resolved_at": now}).Error
}

func (r *alertRepo) ListUnresolved(ctx context.Context, tenantID uuid.UUID) ([]model.StockAlert, error) {
	var alerts []model.StockAlert
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("tenant_id = ? AND resolved = false", tenantID).
		Order("created_at DESC").
		Find(&alerts).Error
	return alerts, err
}
