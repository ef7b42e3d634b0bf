package repository

import (
	"context"
	"time"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/dto"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleTotals is the per-payment-method breakdown of a time window, split
// by credit flag. Used by the session close reconciliation.
type SaleTotals struct {
	ByMethod map[string]decimal.Decimal
	Credit   decimal.Decimal
}

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Sale, error)
	FindByIDForUpdateTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Sale, error)
	UpdatePaidAmountTx(tx *gorm.DB, tenantID, id uuid.UUID, paid decimal.Decimal) error
	List(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error)
	ListCreditByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]model.Sale, error)
	// TotalsSinceTx buckets completed sales recorded in [since, now) by
	// payment method; credit sales count toward Credit instead of their
	// nominal method.
	TotalsSinceTx(tx *gorm.DB, tenantID uuid.UUID, since time.Time) (*SaleTotals, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("tenant_id = ?", tenantID).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) FindByIDForUpdateTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ?", tenantID).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) UpdatePaidAmountTx(tx *gorm.DB, tenantID, id uuid.UUID, paid decimal.Decimal) error {
	return tx.Model(&model.Sale{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("paid_amount", paid).Error
}

func (r *saleRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Preload("Items.Product").
		Where("tenant_id = ?", tenantID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Credit != nil {
		q = q.Where("is_credit = ?", *filter.Credit)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}

	var sales []model.Sale
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) ListCreditByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ? AND is_credit = true AND status = ?",
			tenantID, customerID, model.SaleCompleted).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

// TotalsSinceTx runs inside the session-close transaction so the bucketed
// totals and the state flip commit from one snapshot.
func (r *saleRepo) TotalsSinceTx(tx *gorm.DB, tenantID uuid.UUID, since time.Time) (*SaleTotals, error) {
	type row struct {
		PaymentMethod string
		IsCredit      bool
		Total         decimal.Decimal
	}
	var rows []row
	err := tx.Model(&model.Sale{}).
		Select("payment_method, is_credit, SUM(total) AS total").
		Where("tenant_id = ? AND status = ? AND created_at >= ?", tenantID, model.SaleCompleted, since).
		Group("payment_method, is_credit").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := &SaleTotals{ByMethod: map[string]decimal.Decimal{}, Credit: decimal.Zero}
	for _, r := range rows {
		if r.IsCredit {
			totals.Credit = totals.Credit.Add(r.Total)
			continue
		}
		totals.ByMethod[r.PaymentMethod] = totals.ByMethod[r.PaymentMethod].Add(r.Total)
	}
	return totals, nil
}
