package repository

import (
	"context"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WarehouseRepository interface {
	Create(ctx context.Context, w *model.Warehouse) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Warehouse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Warehouse, error)
}

// WarehouseStockRepository mutates the (warehouse, product) balance
// projection. Only the stock ledger calls UpsertDeltaTx.
type WarehouseStockRepository interface {
	// UpsertDeltaTx creates the pair row at the delta, or atomically adds
	// the delta to the existing row.
	UpsertDeltaTx(tx *gorm.DB, tenantID, warehouseID, productID uuid.UUID, delta int) error
	Find(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*model.WarehouseStock, error)
	// FindTx reads the pair row inside a transaction, for availability
	// checks that must hold until commit.
	FindTx(tx *gorm.DB, tenantID, warehouseID, productID uuid.UUID) (*model.WarehouseStock, error)
	ListByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) ([]model.WarehouseStock, error)
}

type warehouseRepo struct{ db *gorm.DB }

func NewWarehouseRepository(db *gorm.DB) WarehouseRepository { return &warehouseRepo{db: db} }

func (r *warehouseRepo) Create(ctx context.Context, w *model.Warehouse) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *warehouseRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Warehouse, error) {
	var w model.Warehouse
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&w, "id = ?", id).Error
	return &w, err
}

func (r *warehouseRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.Warehouse, error) {
	var ws []model.Warehouse
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = true", tenantID).
		Order("name ASC").Find(&ws).Error
	return ws, err
}

type warehouseStockRepo struct{ db *gorm.DB }

func NewWarehouseStockRepository(db *gorm.DB) WarehouseStockRepository {
	return &warehouseStockRepo{db: db}
}

func (r *warehouseStockRepo) UpsertDeltaTx(tx *gorm.DB, tenantID, warehouseID, productID uuid.UUID, delta int) error {
	row := model.WarehouseStock{
		TenantID:    tenantID,
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    delta,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "warehouse_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"quantity": gorm.Expr("warehouse_stocks.quantity + ?", delta)}),
	}).Create(&row).Error
}

func (r *warehouseStockRepo) Find(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*model.WarehouseStock, error) {
	var ws model.WarehouseStock
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND warehouse_id = ? AND product_id = ?", tenantID, warehouseID, productID).
		First(&ws).Error
	return &ws, err
}

func (r *warehouseStockRepo) FindTx(tx *gorm.DB, tenantID, warehouseID, productID uuid.UUID) (*model.WarehouseStock, error) {
	var ws model.WarehouseStock
	err := tx.
		Where("tenant_id = ? AND warehouse_id = ? AND product_id = ?", tenantID, warehouseID, productID).
		First(&ws).Error
	return &ws, err
}

func (r *warehouseStockRepo) ListByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) ([]model.WarehouseStock, error) {
	var rows []model.WarehouseStock
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID).
		Find(&rows).Error
	return rows, err
}
