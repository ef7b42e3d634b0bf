package service

import (
	"context"
	"errors"
	"time"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/apperr"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/dto"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/repository"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementInput is the single entry point for changing a product balance.
// Quantity is signed: positive = entry, negative = exit.
type MovementInput struct {
	ProductID    uuid.UUID
	WarehouseID  *uuid.UUID
	BatchID      *uuid.UUID
	Quantity     int
	Type         string
	OriginModule string
	Reference    *uuid.UUID
	Reason       string
	Performer    string
}

// LedgerService owns all balance mutations. Nothing outside this service
// (and the batch/sale services calling RecordMovementTx inside their own
// transactions) writes quantities directly.
type LedgerService interface {
	RecordMovement(ctx context.Context, tenantID uuid.UUID, in MovementInput) (*model.StockMovement, error)
	// RecordMovementTx is for callers that already hold a transaction:
	// regulated/retail sales, batch receipts, transfers.
	RecordMovementTx(tx *gorm.DB, tenantID uuid.UUID, in MovementInput) (*model.StockMovement, error)

	Record(ctx context.Context, tenantID uuid.UUID, performer string, req dto.RecordMovementRequest) (*dto.MovementResponse, error)
	AdjustStock(ctx context.Context, tenantID uuid.UUID, performer string, req dto.AdjustStockRequest) (*dto.MovementResponse, error)
	TransferStock(ctx context.Context, tenantID uuid.UUID, performer string, req dto.TransferStockRequest) ([]dto.MovementResponse, error)

	ListMovements(ctx context.Context, tenantID uuid.UUID, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	ListAlerts(ctx context.Context, tenantID uuid.UUID) ([]dto.AlertResponse, error)
	StockStatus(ctx context.Context, tenantID, productID uuid.UUID) (*dto.StockStatusResponse, error)
}

type ledgerService struct {
	products        repository.ProductRepository
	warehouses      repository.WarehouseRepository
	warehouseStocks repository.WarehouseStockRepository
	movements       repository.MovementRepository
	alerts          repository.AlertRepository
	txr             repository.TxRunner
	evaluator       *statusEvaluator
	dispatcher      Dispatcher
}

func NewLedgerService(
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	warehouseStocks repository.WarehouseStockRepository,
	movements repository.MovementRepository,
	alerts repository.AlertRepository,
	txr repository.TxRunner,
	dispatcher Dispatcher,
) LedgerService {
	return &ledgerService{
		products:        products,
		warehouses:      warehouses,
		warehouseStocks: warehouseStocks,
		movements:       movements,
		alerts:          alerts,
		txr:             txr,
		evaluator:       &statusEvaluator{products: products, alerts: alerts},
		dispatcher:      dispatcher,
	}
}

// ── RecordMovement ────────────────────────────────────────────────────────────
// One atomic transaction:
//   1. read global balance under row lock (serializes concurrent writers)
//   2. persist new global balance
//   3. upsert the (warehouse, product) balance when a warehouse is given
//   4. append the immutable movement with both snapshots
//   5. re-evaluate stock status and reconcile alerts

func (s *ledgerService) RecordMovement(ctx context.Context, tenantID uuid.UUID, in MovementInput) (*model.StockMovement, error) {
	var mov *model.StockMovement
	err := s.txr.Do(ctx, func(tx *gorm.DB) error {
		var txErr error
		mov, txErr = s.RecordMovementTx(tx, tenantID, in)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	s.notifyIfUnhealthy(ctx, tenantID, in.ProductID)
	return mov, nil
}

func (s *ledgerService) RecordMovementTx(tx *gorm.DB, tenantID uuid.UUID, in MovementInput) (*model.StockMovement, error) {
	if in.Quantity == 0 {
		return nil, apperr.InvalidState("movement quantity must be non-zero")
	}

	p, err := s.products.FindByIDForUpdateTx(tx, tenantID, in.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %s not found", in.ProductID)
		}
		return nil, err
	}

	before := p.Quantity
	after := before + in.Quantity
	if after < 0 {
		return nil, apperr.InsufficientStock("product %s has %d units, %d requested", p.Name, before, -in.Quantity)
	}
	if err := s.products.UpdateQuantityTx(tx, tenantID, p.ID, after); err != nil {
		return nil, err
	}

	if in.WarehouseID != nil {
		if err := s.warehouseStocks.UpsertDeltaTx(tx, tenantID, *in.WarehouseID, p.ID, in.Quantity); err != nil {
			return nil, err
		}
	}

	qty := in.Quantity
	if qty < 0 {
		qty = -qty
	}
	mov := &model.StockMovement{
		TenantID:      tenantID,
		ProductID:     p.ID,
		WarehouseID:   in.WarehouseID,
		BatchID:       in.BatchID,
		Type:          in.Type,
		Quantity:      qty,
		BalanceBefore: before,
		BalanceAfter:  after,
		OriginModule:  in.OriginModule,
		Reference:     in.Reference,
		Reason:        in.Reason,
		Performer:     in.Performer,
	}
	if err := s.movements.CreateTx(tx, mov); err != nil {
		return nil, err
	}

	if _, err := s.evaluator.evaluateTx(tx, tenantID, p, after); err != nil {
		return nil, err
	}
	return mov, nil
}

// ── Record ────────────────────────────────────────────────────────────────────
// Record is the HTTP-facing variant of RecordMovement: it validates the
// request ids and tags the movement with the stock origin module.

func (s *ledgerService) Record(ctx context.Context, tenantID uuid.UUID, performer string, req dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperr.NotFound("invalid product id")
	}
	in := MovementInput{
		ProductID:    productID,
		Quantity:     req.Quantity,
		Type:         req.Type,
		OriginModule: model.OriginStock,
		Reason:       req.Reason,
		Performer:    performer,
	}
	if req.WarehouseID != nil {
		wid, err := uuid.Parse(*req.WarehouseID)
		if err != nil {
			return nil, apperr.NotFound("invalid warehouse id")
		}
		if _, err := s.warehouses.FindByID(ctx, tenantID, wid); err != nil {
			return nil, apperr.NotFound("warehouse %s not found", wid)
		}
		in.WarehouseID = &wid
	}
	if req.Reference != nil {
		ref, err := uuid.Parse(*req.Reference)
		if err != nil {
			return nil, apperr.NotFound("invalid reference id")
		}
		in.Reference = &ref
	}

	mov, err := s.RecordMovement(ctx, tenantID, in)
	if err != nil {
		return nil, err
	}
	return movementToResponse(mov), nil
}

// ── AdjustStock ───────────────────────────────────────────────────────────────

func (s *ledgerService) AdjustStock(ctx context.Context, tenantID uuid.UUID, performer string, req dto.AdjustStockRequest) (*dto.MovementResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperr.NotFound("invalid product id")
	}
	in := MovementInput{
		ProductID:    productID,
		Quantity:     req.Quantity,
		Type:         model.MovementAdjustment,
		OriginModule: model.OriginStock,
		Reason:       req.Reason,
		Performer:    performer,
	}
	if req.WarehouseID != nil {
		wid, err := uuid.Parse(*req.WarehouseID)
		if err != nil {
			return nil, apperr.NotFound("invalid warehouse id")
		}
		if _, err := s.warehouses.FindByID(ctx, tenantID, wid); err != nil {
			return nil, apperr.NotFound("warehouse %s not found", wid)
		}
		in.WarehouseID = &wid
	}

	mov, err := s.RecordMovement(ctx, tenantID, in)
	if err != nil {
		return nil, err
	}
	return movementToResponse(mov), nil
}

// ── TransferStock ─────────────────────────────────────────────────────────────
// Two movements in one transaction: transfer out of the source warehouse and
// into the destination. The global balance nets to zero; both warehouse
// projections move.

func (s *ledgerService) TransferStock(ctx context.Context, tenantID uuid.UUID, performer string, req dto.TransferStockRequest) ([]dto.MovementResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperr.NotFound("invalid product id")
	}
	fromID, err := uuid.Parse(req.FromWarehouseID)
	if err != nil {
		return nil, apperr.NotFound("invalid source warehouse id")
	}
	toID, err := uuid.Parse(req.ToWarehouseID)
	if err != nil {
		return nil, apperr.NotFound("invalid destination warehouse id")
	}
	if fromID == toID {
		return nil, apperr.InvalidState("source and destination warehouses are the same")
	}
	for _, wid := range []uuid.UUID{fromID, toID} {
		if _, err := s.warehouses.FindByID(ctx, tenantID, wid); err != nil {
			return nil, apperr.NotFound("warehouse %s not found", wid)
		}
	}

	var out, in *model.StockMovement
	err = s.txr.Do(ctx, func(tx *gorm.DB) error {
		// The product row lock serializes concurrent transfers; the source
		// availability is checked only after it is held.
		if _, txErr := s.products.FindByIDForUpdateTx(tx, tenantID, productID); txErr != nil {
			return apperr.NotFound("product %s not found", productID)
		}
		ws, txErr := s.warehouseStocks.FindTx(tx, tenantID, fromID, productID)
		if txErr != nil || ws.Quantity < req.Quantity {
			return apperr.InsufficientStock("source warehouse holds less than %d units", req.Quantity)
		}

		out, txErr = s.RecordMovementTx(tx, tenantID, MovementInput{
			ProductID:    productID,
			WarehouseID:  &fromID,
			Quantity:     -req.Quantity,
			Type:         model.MovementTransfer,
			OriginModule: model.OriginTransfer,
			Reason:       req.Reason,
			Performer:    performer,
		})
		if txErr != nil {
			return txErr
		}
		in, txErr = s.RecordMovementTx(tx, tenantID, MovementInput{
			ProductID:    productID,
			WarehouseID:  &toID,
			Quantity:     req.Quantity,
			Type:         model.MovementTransfer,
			OriginModule: model.OriginTransfer,
			Reason:       req.Reason,
			Performer:    performer,
		})
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return []dto.MovementResponse{*movementToResponse(out), *movementToResponse(in)}, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *ledgerService) ListMovements(ctx context.Context, tenantID uuid.UUID, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	movements, total, err := s.movements.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		data = append(data, *movementToResponse(&movements[i]))
	}
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return &dto.MovementListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *ledgerService) ListAlerts(ctx context.Context, tenantID uuid.UUID) ([]dto.AlertResponse, error) {
	alerts, err := s.alerts.ListUnresolved(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		name := ""
		if a.Product != nil {
			name = a.Product.Name
		}
		resp = append(resp, dto.AlertResponse{
			ID:        a.ID.String(),
			ProductID: a.ProductID.String(),
			Product:   name,
			Type:      a.Type,
			Priority:  a.Priority,
			Message:   a.Message,
			Resolved:  a.Resolved,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (s *ledgerService) StockStatus(ctx context.Context, tenantID, productID uuid.UUID) (*dto.StockStatusResponse, error) {
	p, err := s.products.FindByID(ctx, tenantID, productID)
	if err != nil {
		return nil, apperr.NotFound("product %s not found", productID)
	}
	return &dto.StockStatusResponse{
		ProductID:    p.ID.String(),
		Quantity:     p.Quantity,
		MinThreshold: p.MinThreshold,
		Status:       p.Status,
	}, nil
}

// notifyIfUnhealthy enqueues a best-effort alert notification after commit
// when the product ended in a non-normal state.
func (s *ledgerService) notifyIfUnhealthy(ctx context.Context, tenantID, productID uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	p, err := s.products.FindByID(ctx, tenantID, productID)
	if err != nil || p.Status == model.StockStatusInStock {
		return
	}
	_ = s.dispatcher.EnqueueStockAlert(ctx, worker.StockAlertJob{
		TenantID:  tenantID.String(),
		ProductID: p.ID.String(),
		Product:   p.Name,
		Status:    p.Status,
		Quantity:  p.Quantity,
	})
}

func movementToResponse(m *model.StockMovement) *dto.MovementResponse {
	resp := &dto.MovementResponse{
		ID:            m.ID.String(),
		ProductID:     m.ProductID.String(),
		Type:          m.Type,
		Quantity:      m.Quantity,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		OriginModule:  m.OriginModule,
		Reason:        m.Reason,
		Performer:     m.Performer,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
	if m.WarehouseID != nil {
		wid := m.WarehouseID.String()
		resp.WarehouseID = &wid
	}
	if m.BatchID != nil {
		bid := m.BatchID.String()
		resp.BatchID = &bid
	}
	return resp
}
