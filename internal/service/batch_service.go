package service

import (
	"context"
	"errors"
	"time"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/apperr"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/dto"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/model"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BatchService owns the receipt path — the only path that ever increases a
// batch's availability — and the expiry write-off.
type BatchService interface {
	CreateBatch(ctx context.Context, tenantID uuid.UUID, performer string, req dto.CreateBatchRequest) (*dto.BatchResponse, error)
	MarkExpired(ctx context.Context, tenantID uuid.UUID, performer string, batchID uuid.UUID) (*dto.BatchResponse, error)
	// ListFEFO returns a product's active batches nearest expiry first so
	// sale callers can pick first-expire-first-out.
	ListFEFO(ctx context.Context, tenantID, productID uuid.UUID) ([]dto.BatchResponse, error)
}

type batchService struct {
	batches repository.BatchRepository
	ledger  LedgerService
	txr     repository.TxRunner
}

func NewBatchService(batches repository.BatchRepository, ledger LedgerService, txr repository.TxRunner) BatchService {
	return &batchService{batches: batches, ledger: ledger, txr: txr}
}

// CreateBatch creates the lot and records its receipt movement in one
// transaction: global (and optional warehouse) balance up, status
// re-evaluated.
func (s *batchService) CreateBatch(ctx context.Context, tenantID uuid.UUID, performer string, req dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperr.NotFound("invalid product id")
	}
	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, apperr.InvalidState("invalid expiry date %q", req.ExpiryDate)
	}
	if !expiry.After(time.Now()) {
		return nil, apperr.InvalidState("batch is already expired")
	}

	var warehouseID *uuid.UUID
	if req.WarehouseID != nil {
		wid, err := uuid.Parse(*req.WarehouseID)
		if err != nil {
			return nil, apperr.NotFound("invalid warehouse id")
		}
		warehouseID = &wid
	}

	batch := &model.Batch{
		TenantID:          tenantID,
		ProductID:         productID,
		LotNumber:         req.LotNumber,
		QuantityReceived:  req.Quantity,
		QuantityAvailable: req.Quantity,
		ExpiryDate:        expiry,
		CostPrice:         req.CostPrice,
		SellPrice:         req.SellPrice,
		Status:            model.BatchStatusActive,
	}

	err = s.txr.Do(ctx, func(tx *gorm.DB) error {
		if err := s.batches.CreateTx(tx, batch); err != nil {
			return err
		}
		batchRef := batch.ID
		_, txErr := s.ledger.RecordMovementTx(tx, tenantID, MovementInput{
			ProductID:    productID,
			WarehouseID:  warehouseID,
			BatchID:      &batchRef,
			Quantity:     req.Quantity,
			Type:         model.MovementPurchase,
			OriginModule: model.OriginPurchase,
			Reference:    &batchRef,
			Reason:       "batch " + req.LotNumber + " received",
			Performer:    performer,
		})
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return batchToResponse(batch), nil
}

// MarkExpired writes off whatever availability the batch has left and
// depletes it permanently.
func (s *batchService) MarkExpired(ctx context.Context, tenantID uuid.UUID, performer string, batchID uuid.UUID) (*dto.BatchResponse, error) {
	var batch *model.Batch
	err := s.txr.Do(ctx, func(tx *gorm.DB) error {
		var txErr error
		batch, txErr = s.batches.FindByIDForUpdateTx(tx, tenantID, batchID)
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("batch %s not found", batchID)
			}
			return txErr
		}
		if batch.Status == model.BatchStatusDepleted {
			return apperr.InvalidState("batch %s is already depleted", batchID)
		}

		remaining := batch.QuantityAvailable
		if remaining > 0 {
			batchRef := batch.ID
			if _, txErr = s.ledger.RecordMovementTx(tx, tenantID, MovementInput{
				ProductID:    batch.ProductID,
				BatchID:      &batchRef,
				Quantity:     -remaining,
				Type:         model.MovementExpired,
				OriginModule: model.OriginStock,
				Reference:    &batchRef,
				Reason:       "batch " + batch.LotNumber + " expired",
				Performer:    performer,
			}); txErr != nil {
				return txErr
			}
		}

		batch.QuantityAvailable = 0
		batch.Status = model.BatchStatusDepleted
		return s.batches.UpdateAvailableTx(tx, tenantID, batch.ID, 0, model.BatchStatusDepleted)
	})
	if err != nil {
		return nil, err
	}
	return batchToResponse(batch), nil
}

func (s *batchService) ListFEFO(ctx context.Context, tenantID, productID uuid.UUID) ([]dto.BatchResponse, error) {
	batches, err := s.batches.ListActiveFEFO(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.BatchResponse, 0, len(batches))
	for i := range batches {
		resp = append(resp, *batchToResponse(&batches[i]))
	}
	return resp, nil
}

func batchToResponse(b *model.Batch) *dto.BatchResponse {
	return &dto.BatchResponse{
		ID:                b.ID.String(),
		ProductID:         b.ProductID.String(),
		LotNumber:         b.LotNumber,
		QuantityReceived:  b.QuantityReceived,
		QuantityAvailable: b.QuantityAvailable,
		ExpiryDate:        b.ExpiryDate.Format("2006-01-02"),
		CostPrice:         b.CostPrice,
		SellPrice:         b.SellPrice,
		Status:            b.Status,
	}
}
