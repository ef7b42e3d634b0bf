package repository

import (
	"context"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository interface {
	CreateTx(tx *gorm.DB, s *model.CashSession) error
	FindOpen(ctx context.Context, tenantID uuid.UUID) (*model.CashSession, error)
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.CashSession, error)
	FindByIDForUpdateTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.CashSession, error)
	// AddWithdrawalTx / AddDepositTx increment the running counters
	// atomically in SQL rather than read-modify-write in Go.
	AddWithdrawalTx(tx *gorm.DB, tenantID, id uuid.UUID, amount decimal.Decimal) error
	AddDepositTx(tx *gorm.DB, tenantID, id uuid.UUID, amount decimal.Decimal) error
	UpdateTx(tx *gorm.DB, s *model.CashSession) error
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) CreateTx(tx *gorm.DB, s *model.CashSession) error {
	return tx.Create(s).Error
}

func (r *sessionRepo) FindOpen(ctx context.Context, tenantID uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, model.SessionOpen).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *sessionRepo) FindByIDForUpdateTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ?", tenantID).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *sessionRepo) AddWithdrawalTx(tx *gorm.DB, tenantID, id uuid.UUID, amount decimal.Decimal) error {
	return tx.Model(&model.CashSession{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("withdrawals", gorm.Expr("withdrawals + ?", amount)).Error
}

func (r *sessionRepo) AddDepositTx(tx *gorm.DB, tenantID, id uuid.UUID, amount decimal.Decimal) error {
	return tx.Model(&model.CashSession{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("deposits", gorm.Expr("deposits + ?", amount)).Error
}

func (r *sessionRepo) UpdateTx(tx *gorm.DB, s *model.CashSession) error {
	return tx.Save(s).Error
}
