package service

import (
	"context"
	"sort"
	"time"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/dto"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/repository"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository fakes. One shared memState backs all of them so a
// multi-repo transaction sees a single consistent world, and memTxRunner
// can snapshot/restore the whole world to emulate rollback.

type memState struct {
	products   map[uuid.UUID]model.Product
	warehouses map[uuid.UUID]model.Warehouse
	whStocks   map[[2]uuid.UUID]model.WarehouseStock // [warehouseID, productID]
	batches    map[uuid.UUID]model.Batch
	movements  []model.StockMovement
	alerts     []model.StockAlert
	sessions   map[uuid.UUID]model.CashSession
	sales      map[uuid.UUID]model.Sale
	payments   []model.CreditPayment
	seqs       map[string]int64
}

func newMemState() *memState {
	return &memState{
		products:   map[uuid.UUID]model.Product{},
		warehouses: map[uuid.UUID]model.Warehouse{},
		whStocks:   map[[2]uuid.UUID]model.WarehouseStock{},
		batches:    map[uuid.UUID]model.Batch{},
		sessions:   map[uuid.UUID]model.CashSession{},
		sales:      map[uuid.UUID]model.Sale{},
		seqs:       map[string]int64{},
	}
}

func (st *memState) clone() *memState {
	c := newMemState()
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range st.whStocks {
		c.whStocks[k] = v
	}
	for k, v := range st.batches {
		c.batches[k] = v
	}
	c.movements = append([]model.StockMovement(nil), st.movements...)
	c.alerts = append([]model.StockAlert(nil), st.alerts...)
	for k, v := range st.sessions {
		c.sessions[k] = v
	}
	for k, v := range st.sales {
		v.Items = append([]model.SaleItem(nil), v.Items...)
		c.sales[k] = v
	}
	c.payments = append([]model.CreditPayment(nil), st.payments...)
	for k, v := range st.seqs {
		c.seqs[k] = v
	}
	return c
}

// memTxRunner emulates transactional semantics: any error from fn restores
// the pre-transaction snapshot.
type memTxRunner struct{ st *memState }

func (r *memTxRunner) Do(_ context.Context, fn func(tx *gorm.DB) error) error {
	snap := r.st.clone()
	if err := fn(nil); err != nil {
		*r.st = *snap
		return err
	}
	return nil
}

// ── dispatcher ────────────────────────────────────────────────────────────────

// recordingDispatcher captures enqueued jobs instead of pushing to Redis.
type recordingDispatcher struct {
	alerts  []worker.StockAlertJob
	loyalty []worker.LoyaltyJob
}

func (d *recordingDispatcher) EnqueueStockAlert(_ context.Context, job worker.StockAlertJob) error {
	d.alerts = append(d.alerts, job)
	return nil
}

func (d *recordingDispatcher) EnqueueLoyalty(_ context.Context, job worker.LoyaltyJob) error {
	d.loyalty = append(d.loyalty, job)
	return nil
}

// ── products ──────────────────────────────────────────────────────────────────

type memProducts struct{ st *memState }

func (r *memProducts) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.st.products[p.ID] = *p
	return nil
}

func (r *memProducts) find(tenantID, id uuid.UUID) (*model.Product, error) {
	p, ok := r.st.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := p
	return &cp, nil
}

func (r *memProducts) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Product, error) {
	return r.find(tenantID, id)
}

func (r *memProducts) FindByBarcode(_ context.Context, tenantID uuid.UUID, barcode string) (*model.Product, error) {
	for _, p := range r.st.products {
		if p.TenantID == tenantID && p.Barcode == barcode && p.Active {
			cp := p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memProducts) FindByIDForUpdateTx(_ *gorm.DB, tenantID, id uuid.UUID) (*model.Product, error) {
	return r.find(tenantID, id)
}

func (r *memProducts) UpdateQuantityTx(_ *gorm.DB, tenantID, id uuid.UUID, quantity int) error {
	p, err := r.find(tenantID, id)
	if err != nil {
		return err
	}
	p.Quantity = quantity
	r.st.products[id] = *p
	return nil
}

func (r *memProducts) UpdateStatusTx(_ *gorm.DB, tenantID, id uuid.UUID, status string) error {
	p, err := r.find(tenantID, id)
	if err != nil {
		return err
	}
	p.Status = status
	r.st.products[id] = *p
	return nil
}

// ── warehouses ────────────────────────────────────────────────────────────────

type memWarehouses struct{ st *memState }

func (r *memWarehouses) Create(_ context.Context, w *model.Warehouse) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.st.warehouses[w.ID] = *w
	return nil
}

func (r *memWarehouses) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Warehouse, error) {
	w, ok := r.st.warehouses[id]
	if !ok || w.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := w
	return &cp, nil
}

func (r *memWarehouses) List(_ context.Context, tenantID uuid.UUID) ([]model.Warehouse, error) {
	var ws []model.Warehouse
	for _, w := range r.st.warehouses {
		if w.TenantID == tenantID && w.Active {
			ws = append(ws, w)
		}
	}
	sort.Slice(ws, func(i, j int) bool { return ws[i].Name < ws[j].Name })
	return ws, nil
}

type memWarehouseStocks struct{ st *memState }

func (r *memWarehouseStocks) UpsertDeltaTx(_ *gorm.DB, tenantID, warehouseID, productID uuid.UUID, delta int) error {
	key := [2]uuid.UUID{warehouseID, productID}
	row, ok := r.st.whStocks[key]
	if !ok {
		row = model.WarehouseStock{
			ID:          uuid.New(),
			TenantID:    tenantID,
			WarehouseID: warehouseID,
			ProductID:   productID,
		}
	}
	row.Quantity += delta
	r.st.whStocks[key] = row
	return nil
}

func (r *memWarehouseStocks) Find(_ context.Context, tenantID, warehouseID, productID uuid.UUID) (*model.WarehouseStock, error) {
	row, ok := r.st.whStocks[[2]uuid.UUID{warehouseID, productID}]
	if !ok || row.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := row
	return &cp, nil
}

func (r *memWarehouseStocks) FindTx(_ *gorm.DB, tenantID, warehouseID, productID uuid.UUID) (*model.WarehouseStock, error) {
	return r.Find(context.Background(), tenantID, warehouseID, productID)
}

func (r *memWarehouseStocks) ListByWarehouse(_ context.Context, tenantID, warehouseID uuid.UUID) ([]model.WarehouseStock, error) {
	var rows []model.WarehouseStock
	for _, row := range r.st.whStocks {
		if row.TenantID == tenantID && row.WarehouseID == warehouseID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ── batches ───────────────────────────────────────────────────────────────────

type memBatches struct{ st *memState }

func (r *memBatches) CreateTx(_ *gorm.DB, b *model.Batch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	r.st.batches[b.ID] = *b
	return nil
}

func (r *memBatches) find(tenantID, id uuid.UUID) (*model.Batch, error) {
	b, ok := r.st.batches[id]
	if !ok || b.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := b
	return &cp, nil
}

func (r *memBatches) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Batch, error) {
	return r.find(tenantID, id)
}

func (r *memBatches) FindByIDForUpdateTx(_ *gorm.DB, tenantID, id uuid.UUID) (*model.Batch, error) {
	return r.find(tenantID, id)
}

func (r *memBatches) UpdateAvailableTx(_ *gorm.DB, tenantID, id uuid.UUID, available int, status string) error {
	b, err := r.find(tenantID, id)
	if err != nil {
		return err
	}
	b.QuantityAvailable = available
	b.Status = status
	r.st.batches[id] = *b
	return nil
}

func (r *memBatches) ListActiveFEFO(_ context.Context, tenantID, productID uuid.UUID) ([]model.Batch, error) {
	var batches []model.Batch
	for _, b := range r.st.batches {
		if b.TenantID == tenantID && b.ProductID == productID && b.Status == model.BatchStatusActive {
			batches = append(batches, b)
		}
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].ExpiryDate.Before(batches[j].ExpiryDate) })
	return batches, nil
}

func (r *memBatches) ListExpired(_ context.Context, tenantID uuid.UUID) ([]model.Batch, error) {
	now := time.Now()
	var batches []model.Batch
	for _, b := range r.st.batches {
		if b.TenantID == tenantID && b.Status == model.BatchStatusActive && b.ExpiryDate.Before(now) {
			batches = append(batches, b)
		}
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].ExpiryDate.Before(batches[j].ExpiryDate) })
	return batches, nil
}

// ── movements ─────────────────────────────────────────────────────────────────

type memMovements struct{ st *memState }

func (r *memMovements) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.st.movements = append(r.st.movements, *m)
	return nil
}

func (r *memMovements) List(_ context.Context, tenantID uuid.UUID, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.st.movements {
		if m.TenantID != tenantID {
			continue
		}
		if filter.ProductID != "" && m.ProductID.String() != filter.ProductID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *memMovements) ListByProduct(_ context.Context, tenantID, productID uuid.UUID) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.st.movements {
		if m.TenantID == tenantID && m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ── alerts ────────────────────────────────────────────────────────────────────

type memAlerts struct{ st *memState }

func (r *memAlerts) FindUnresolvedTx(_ *gorm.DB, tenantID, productID uuid.UUID, alertType string) (*model.StockAlert, error) {
	for _, a := range r.st.alerts {
		if a.TenantID == tenantID && a.ProductID == productID && a.Type == alertType && !a.Resolved {
			cp := a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memAlerts) CreateTx(_ *gorm.DB, a *model.StockAlert) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	r.st.alerts = append(r.st.alerts, *a)
	return nil
}

func (r *memAlerts) ResolveTx(_ *gorm.DB, tenantID, productID uuid.UUID, alertType string) error {
	now := time.Now()
	for i := range r.st.alerts {
		a := &r.st.alerts[i]
		if a.TenantID == tenantID && a.ProductID == productID && a.Type == alertType && !a.Resolved {
			a.Resolved = true
			a.ResolvedAt = &now
		}
	}
	return nil
}

func (r *memAlerts) ListUnresolved(_ context.Context, tenantID uuid.UUID) ([]model.StockAlert, error) {
	var out []model.StockAlert
	for _, a := range r.st.alerts {
		if a.TenantID == tenantID && !a.Resolved {
			out = append(out, a)
		}
	}
	return out, nil
}

// ── sessions ──────────────────────────────────────────────────────────────────

type memSessions struct{ st *memState }

func (r *memSessions) CreateTx(_ *gorm.DB, s *model.CashSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.st.sessions[s.ID] = *s
	return nil
}

func (r *memSessions) FindOpen(_ context.Context, tenantID uuid.UUID) (*model.CashSession, error) {
	for _, s := range r.st.sessions {
		if s.TenantID == tenantID && s.Status == model.SessionOpen {
			cp := s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSessions) find(tenantID, id uuid.UUID) (*model.CashSession, error) {
	s, ok := r.st.sessions[id]
	if !ok || s.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := s
	return &cp, nil
}

func (r *memSessions) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.CashSession, error) {
	return r.find(tenantID, id)
}

func (r *memSessions) FindByIDForUpdateTx(_ *gorm.DB, tenantID, id uuid.UUID) (*model.CashSession, error) {
	return r.find(tenantID, id)
}

func (r *memSessions) AddWithdrawalTx(_ *gorm.DB, tenantID, id uuid.UUID, amount decimal.Decimal) error {
	s, err := r.find(tenantID, id)
	if err != nil {
		return err
	}
	s.Withdrawals = s.Withdrawals.Add(amount)
	r.st.sessions[id] = *s
	return nil
}

func (r *memSessions) AddDepositTx(_ *gorm.DB, tenantID, id uuid.UUID, amount decimal.Decimal) error {
	s, err := r.find(tenantID, id)
	if err != nil {
		return err
	}
	s.Deposits = s.Deposits.Add(amount)
	r.st.sessions[id] = *s
	return nil
}

func (r *memSessions) UpdateTx(_ *gorm.DB, s *model.CashSession) error {
	r.st.sessions[s.ID] = *s
	return nil
}

// ── sales ─────────────────────────────────────────────────────────────────────

type memSales struct{ st *memState }

func (r *memSales) DB() *gorm.DB { return nil }

func (r *memSales) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	s.CreatedAt = time.Now()
	cp := *s
	cp.Items = append([]model.SaleItem(nil), s.Items...)
	r.st.sales[s.ID] = cp
	return nil
}

func (r *memSales) find(tenantID, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.st.sales[id]
	if !ok || s.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := s
	cp.Items = append([]model.SaleItem(nil), s.Items...)
	return &cp, nil
}

func (r *memSales) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Sale, error) {
	return r.find(tenantID, id)
}

func (r *memSales) FindByIDForUpdateTx(_ *gorm.DB, tenantID, id uuid.UUID) (*model.Sale, error) {
	return r.find(tenantID, id)
}

func (r *memSales) UpdatePaidAmountTx(_ *gorm.DB, tenantID, id uuid.UUID, paid decimal.Decimal) error {
	s, err := r.find(tenantID, id)
	if err != nil {
		return err
	}
	s.PaidAmount = paid
	r.st.sales[id] = *s
	return nil
}

func (r *memSales) List(_ context.Context, tenantID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.st.sales {
		if s.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.Credit != nil && s.IsCredit != *filter.Credit {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *memSales) ListCreditByCustomer(_ context.Context, tenantID, customerID uuid.UUID) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.st.sales {
		if s.TenantID == tenantID && s.CustomerID != nil && *s.CustomerID == customerID &&
			s.IsCredit && s.Status == model.SaleCompleted {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memSales) TotalsSinceTx(_ *gorm.DB, tenantID uuid.UUID, since time.Time) (*repository.SaleTotals, error) {
	totals := &repository.SaleTotals{ByMethod: map[string]decimal.Decimal{}, Credit: decimal.Zero}
	for _, s := range r.st.sales {
		if s.TenantID != tenantID || s.Status != model.SaleCompleted || s.CreatedAt.Before(since) {
			continue
		}
		if s.IsCredit {
			totals.Credit = totals.Credit.Add(s.Total)
			continue
		}
		totals.ByMethod[s.PaymentMethod] = totals.ByMethod[s.PaymentMethod].Add(s.Total)
	}
	return totals, nil
}

// ── credit payments ───────────────────────────────────────────────────────────

type memCreditPayments struct{ st *memState }

func (r *memCreditPayments) CreateTx(_ *gorm.DB, p *model.CreditPayment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.st.payments = append(r.st.payments, *p)
	return nil
}

func (r *memCreditPayments) ListBySale(_ context.Context, tenantID, saleID uuid.UUID) ([]model.CreditPayment, error) {
	var out []model.CreditPayment
	for _, p := range r.st.payments {
		if p.TenantID == tenantID && p.SaleID == saleID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ── sequences ─────────────────────────────────────────────────────────────────

type memSequences struct{ st *memState }

func (r *memSequences) NextTx(_ *gorm.DB, tenantID uuid.UUID, name string) (int64, error) {
	key := tenantID.String() + "/" + name
	r.st.seqs[key]++
	return r.st.seqs[key], nil
}
