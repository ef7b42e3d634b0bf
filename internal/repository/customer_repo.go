package repository

import (
	"context"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Customer, error)
	// AddLoyalty is the best-effort counter bump applied by the async
	// worker — it runs outside any ledger transaction.
	AddLoyalty(ctx context.Context, tenantID, id uuid.UUID, points int, amount decimal.Decimal) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *customerRepo) AddLoyalty(ctx context.Context, tenantID, id uuid.UUID, points int, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(map[string]interface{}{
			"loyalty_points": gorm.Expr("loyalty_points + ?", points),
			"lifetime_total": gorm.Expr("lifetime_total + ?", amount),
		}).Error
}
