package infra

import (
	"fmt"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial unique indexes, mostly).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates / updates all tables and applies schema patches.
// Exposed separately so integration tests can migrate their own database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Warehouse{},
		&model.WarehouseStock{},
		&model.Batch{},
		&model.StockMovement{},
		&model.StockAlert{},
		&model.CashSession{},
		&model.Sale{},
		&model.SaleItem{},
		&model.CreditPayment{},
		&model.Customer{},
		&model.User{},
		&model.TenantSequence{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot produce.
// The partial unique indexes back two invariants the services also enforce:
// at most one open cash session per tenant, and at most one unresolved alert
// per tenant/product/type. Each statement is guarded by an existence check so
// re-running on an already-patched database is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"one open cash session per tenant", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uq_cash_sessions_open') THEN
    CREATE UNIQUE INDEX uq_cash_sessions_open
        ON cash_sessions (tenant_id)
        WHERE status = 'open';
  END IF;
END $$`},
		{"one unresolved alert per tenant/product/type", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uq_stock_alerts_unresolved') THEN
    CREATE UNIQUE INDEX uq_stock_alerts_unresolved
        ON stock_alerts (tenant_id, product_id, type)
        WHERE resolved = false;
  END IF;
END $$`},
		{"movement listing index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_stock_movements_tenant_product') THEN
    CREATE INDEX idx_stock_movements_tenant_product
        ON stock_movements (tenant_id, product_id, created_at DESC);
  END IF;
END $$`},
		{"fefo batch scan index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_batches_fefo') THEN
    CREATE INDEX idx_batches_fefo
        ON batches (tenant_id, product_id, expiry_date)
        WHERE status = 'active';
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", p.descr, err)
		}
	}
	return nil
}
