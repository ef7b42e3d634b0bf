package repository

import (
	"context"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository is the data access contract for products. Services
// depend on this interface, not the concrete GORM implementation, enabling
// unit testing via in-memory fakes.
//
// Quantity and status writes exist only as *Tx variants: balances change
// exclusively inside a ledger transaction.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Product, error)
	FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*model.Product, error)

	// FindByIDForUpdateTx takes a row lock so concurrent movements on the
	// same product serialize instead of both reading the same balance.
	FindByIDForUpdateTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Product, error)
	UpdateQuantityTx(tx *gorm.DB, tenantID, id uuid.UUID, quantity int) error
	UpdateStatusTx(tx *gorm.DB, tenantID, id uuid.UUID, status string) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND barcode = ? AND active = true", tenantID, barcode).
		First(&p).Error
	return &p, err
}

func (r *productRepo) FindByIDForUpdateTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ?", tenantID).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) UpdateQuantityTx(tx *gorm.DB, tenantID, id uuid.UUID, quantity int) error {
	return tx.Model(&model.Product{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("quantity", quantity).Error
}

func (r *productRepo) UpdateStatusTx(tx *gorm.DB, tenantID, id uuid.UUID, status string) error {
	return tx.Model(&model.Product{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("status", status).Error
}
