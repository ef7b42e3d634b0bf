package repository

import (
	"context"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreditPaymentRepository interface {
	CreateTx(tx *gorm.DB, p *model.CreditPayment) error
	ListBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]model.CreditPayment, error)
}

type creditPaymentRepo struct{ db *gorm.DB }

func NewCreditPaymentRepository(db *gorm.DB) CreditPaymentRepository {
	return &creditPaymentRepo{db: db}
}

func (r *creditPaymentRepo) CreateTx(tx *gorm.DB, p *model.CreditPayment) error {
	return tx.Create(p).Error
}

func (r *creditPaymentRepo) ListBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]model.CreditPayment, error) {
	var payments []model.CreditPayment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sale_id = ?", tenantID, saleID).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}
