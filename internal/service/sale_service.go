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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	// CreateSale is the retail variant: per line, one ledger movement with
	// a negative delta against the global balance.
	CreateSale(ctx context.Context, tenantID uuid.UUID, performer string, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	// CreateRegulatedSale is the batch-tracked variant: each line names the
	// batch it consumes; any shortage aborts the whole sale.
	CreateRegulatedSale(ctx context.Context, tenantID uuid.UUID, performer string, req dto.CreateRegulatedSaleRequest) (*dto.SaleResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	sales      repository.SaleRepository
	products   repository.ProductRepository
	batches    repository.BatchRepository
	sessions   repository.SessionRepository
	sequences  repository.SequenceRepository
	ledger     LedgerService
	txr        repository.TxRunner
	dispatcher Dispatcher
}

func NewSaleService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	batches repository.BatchRepository,
	sessions repository.SessionRepository,
	sequences repository.SequenceRepository,
	ledger LedgerService,
	txr repository.TxRunner,
	dispatcher Dispatcher,
) SaleService {
	return &saleService{
		sales:      sales,
		products:   products,
		batches:    batches,
		sessions:   sessions,
		sequences:  sequences,
		ledger:     ledger,
		txr:        txr,
		dispatcher: dispatcher,
	}
}

// resolvedLine carries a pre-flight-resolved sale line into the transaction.
type resolvedLine struct {
	productID uuid.UUID
	batchID   *uuid.UUID
	name      string
	price     decimal.Decimal
	quantity  int
	discount  decimal.Decimal
	subtotal  decimal.Decimal
}

// ── CreateSale ────────────────────────────────────────────────────────────────
// 1. validate session / payment / credit terms (pre-flight, outside tx)
// 2. resolve products and totals
// 3. one transaction: atomic sale number, sale + items, one ledger movement
//    per line
// 4. post-commit: best-effort loyalty + alert notifications

func (s *saleService) CreateSale(ctx context.Context, tenantID uuid.UUID, performer string, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	sessionID, customerID, err := s.resolveSaleRefs(ctx, tenantID, req.SessionID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	var lines []resolvedLine
	subtotal, discountTotal := decimal.Zero, decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apperr.NotFound("invalid product id %q", item.ProductID)
		}
		p, err := s.products.FindByID(ctx, tenantID, pid)
		if err != nil {
			return nil, apperr.NotFound("product %s not found", item.ProductID)
		}
		if !p.Active {
			return nil, apperr.InvalidState("product %s is inactive", p.Name)
		}
		if p.Regulated {
			return nil, apperr.PolicyViolation("product %s is regulated and must be sold batch-tracked", p.Name)
		}
		if p.Quantity < item.Quantity {
			return nil, apperr.InsufficientStock("product %s has %d units, %d requested", p.Name, p.Quantity, item.Quantity)
		}
		lineSubtotal := p.SellPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Sub(item.Discount)
		subtotal = subtotal.Add(lineSubtotal)
		discountTotal = discountTotal.Add(item.Discount)
		lines = append(lines, resolvedLine{
			productID: pid,
			name:      p.Name,
			price:     p.SellPrice,
			quantity:  item.Quantity,
			discount:  item.Discount,
			subtotal:  lineSubtotal,
		})
	}

	total := subtotal
	paid, err := s.checkPaymentTerms(req.IsCredit, customerID, req.PaidAmount, total)
	if err != nil {
		return nil, err
	}

	sale, err := s.commitSale(ctx, tenantID, performer, saleDraft{
		sessionID:     sessionID,
		customerID:    customerID,
		lines:         lines,
		subtotal:      subtotal,
		discountTotal: discountTotal,
		total:         total,
		paid:          paid,
		isCredit:      req.IsCredit,
		paymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, tenantID, sale, lines)
	return saleToResponse(sale, lines), nil
}

// ── CreateRegulatedSale ───────────────────────────────────────────────────────
// Batch selection (FEFO) happens before this call — each line names its
// batch. Inside the transaction every batch is re-read under a row lock; a
// shortage on ANY line aborts the whole sale with nothing committed.

func (s *saleService) CreateRegulatedSale(ctx context.Context, tenantID uuid.UUID, performer string, req dto.CreateRegulatedSaleRequest) (*dto.SaleResponse, error) {
	sessionID, customerID, err := s.resolveSaleRefs(ctx, tenantID, req.SessionID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	var lines []resolvedLine
	subtotal := decimal.Zero
	for _, item := range req.Items {
		bid, err := uuid.Parse(item.BatchID)
		if err != nil {
			return nil, apperr.NotFound("invalid batch id %q", item.BatchID)
		}
		batch, err := s.batches.FindByID(ctx, tenantID, bid)
		if err != nil {
			return nil, apperr.NotFound("batch %s not found", item.BatchID)
		}
		p, err := s.products.FindByID(ctx, tenantID, batch.ProductID)
		if err != nil {
			return nil, apperr.NotFound("product %s not found", batch.ProductID)
		}
		// Policy gate: the consumption engine itself stays policy-free.
		if p.Regulated && (req.PrescriptionRef == nil || *req.PrescriptionRef == "") {
			return nil, apperr.PolicyViolation("product %s requires a prescription reference", p.Name)
		}
		lineSubtotal := batch.SellPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineSubtotal)
		batchRef := bid
		lines = append(lines, resolvedLine{
			productID: batch.ProductID,
			batchID:   &batchRef,
			name:      p.Name,
			price:     batch.SellPrice,
			quantity:  item.Quantity,
			discount:  decimal.Zero,
			subtotal:  lineSubtotal,
		})
	}

	total := subtotal
	paid, err := s.checkPaymentTerms(req.IsCredit, customerID, req.PaidAmount, total)
	if err != nil {
		return nil, err
	}

	sale, err := s.commitSale(ctx, tenantID, performer, saleDraft{
		sessionID:     sessionID,
		customerID:    customerID,
		lines:         lines,
		subtotal:      subtotal,
		discountTotal: decimal.Zero,
		total:         total,
		paid:          paid,
		isCredit:      req.IsCredit,
		paymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, tenantID, sale, lines)
	return saleToResponse(sale, lines), nil
}

type saleDraft struct {
	sessionID     *uuid.UUID
	customerID    *uuid.UUID
	lines         []resolvedLine
	subtotal      decimal.Decimal
	discountTotal decimal.Decimal
	total         decimal.Decimal
	paid          decimal.Decimal
	isCredit      bool
	paymentMethod string
}

// commitSale is the shared ACID body of both variants.
func (s *saleService) commitSale(ctx context.Context, tenantID uuid.UUID, performer string, draft saleDraft) (*model.Sale, error) {
	var sale model.Sale
	err := s.txr.Do(ctx, func(tx *gorm.DB) error {
		number, err := s.sequences.NextTx(tx, tenantID, model.SeqSaleNumber)
		if err != nil {
			return apperr.Conflict("sale number generation failed").WithCause(err)
		}

		sale = model.Sale{
			TenantID:      tenantID,
			Number:        number,
			SessionID:     draft.sessionID,
			CustomerID:    draft.customerID,
			Subtotal:      draft.subtotal,
			DiscountTotal: draft.discountTotal,
			Total:         draft.total,
			PaidAmount:    draft.paid,
			IsCredit:      draft.isCredit,
			PaymentMethod: draft.paymentMethod,
			Status:        model.SaleCompleted,
			Performer:     performer,
		}
		for _, l := range draft.lines {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: l.productID,
				BatchID:   l.batchID,
				Quantity:  l.quantity,
				UnitPrice: l.price,
				Discount:  l.discount,
				Subtotal:  l.subtotal,
			})
		}
		if err := s.sales.CreateTx(tx, &sale); err != nil {
			return err
		}

		saleRef := sale.ID
		for _, l := range draft.lines {
			if l.batchID != nil {
				if err := s.consumeBatchTx(tx, tenantID, *l.batchID, l.quantity); err != nil {
					return err
				}
			}
			if _, err := s.ledger.RecordMovementTx(tx, tenantID, MovementInput{
				ProductID:    l.productID,
				BatchID:      l.batchID,
				Quantity:     -l.quantity,
				Type:         model.MovementSale,
				OriginModule: model.OriginSales,
				Reference:    &saleRef,
				Reason:       "sale",
				Performer:    performer,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// consumeBatchTx decrements a batch under a row lock, flipping it to
// depleted exactly when availability reaches zero. A depleted batch never
// comes back.
func (s *saleService) consumeBatchTx(tx *gorm.DB, tenantID, batchID uuid.UUID, quantity int) error {
	batch, err := s.batches.FindByIDForUpdateTx(tx, tenantID, batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("batch %s not found", batchID)
		}
		return err
	}
	if batch.Status != model.BatchStatusActive {
		return apperr.InvalidState("batch %s is depleted", batch.LotNumber)
	}
	if batch.QuantityAvailable < quantity {
		return apperr.InsufficientStock("batch %s has %d units, %d requested",
			batch.LotNumber, batch.QuantityAvailable, quantity)
	}

	remaining := batch.QuantityAvailable - quantity
	status := model.BatchStatusActive
	if remaining == 0 {
		status = model.BatchStatusDepleted
	}
	return s.batches.UpdateAvailableTx(tx, tenantID, batch.ID, remaining, status)
}

// resolveSaleRefs validates the optional session and customer references.
func (s *saleService) resolveSaleRefs(ctx context.Context, tenantID uuid.UUID, sessionID, customerID *string) (*uuid.UUID, *uuid.UUID, error) {
	var sid, cid *uuid.UUID
	if sessionID != nil {
		id, err := uuid.Parse(*sessionID)
		if err != nil {
			return nil, nil, apperr.NotFound("invalid session id")
		}
		session, err := s.sessions.FindByID(ctx, tenantID, id)
		if err != nil {
			return nil, nil, apperr.NotFound("cash session %s not found", id)
		}
		if session.Status != model.SessionOpen {
			return nil, nil, apperr.InvalidState("cash session %s is closed", id)
		}
		sid = &id
	}
	if customerID != nil {
		id, err := uuid.Parse(*customerID)
		if err != nil {
			return nil, nil, apperr.NotFound("invalid customer id")
		}
		cid = &id
	}
	return sid, cid, nil
}

// checkPaymentTerms returns the paid amount to record. Cash-and-carry sales
// settle in full; credit sales need a customer and a down payment below the
// total.
func (s *saleService) checkPaymentTerms(isCredit bool, customerID *uuid.UUID, paidAmount, total decimal.Decimal) (decimal.Decimal, error) {
	if !isCredit {
		return total, nil
	}
	if customerID == nil {
		return decimal.Zero, apperr.PolicyViolation("credit sales require a customer")
	}
	if paidAmount.GreaterThanOrEqual(total) {
		return decimal.Zero, apperr.PolicyViolation("credit sale down payment covers the total; record a cash sale instead")
	}
	return paidAmount, nil
}

// afterCommit fires best-effort side effects: loyalty counters and alert
// notifications. Failures are logged by the worker, never surfaced.
func (s *saleService) afterCommit(ctx context.Context, tenantID uuid.UUID, sale *model.Sale, lines []resolvedLine) {
	if s.dispatcher == nil {
		return
	}
	if sale.CustomerID != nil {
		_ = s.dispatcher.EnqueueLoyalty(ctx, worker.LoyaltyJob{
			TenantID:   tenantID.String(),
			CustomerID: sale.CustomerID.String(),
			SaleID:     sale.ID.String(),
			Amount:     sale.Total,
		})
	}
	seen := map[uuid.UUID]bool{}
	for _, l := range lines {
		if seen[l.productID] {
			continue
		}
		seen[l.productID] = true
		s.notifyIfUnhealthy(ctx, tenantID, l.productID)
	}
}

func (s *saleService) notifyIfUnhealthy(ctx context.Context, tenantID, productID uuid.UUID) {
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

func (s *saleService) List(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.sales.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i], nil))
	}
	return &dto.SaleListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func saleToResponse(sale *model.Sale, lines []resolvedLine) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for i, item := range sale.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		} else if lines != nil && i < len(lines) {
			name = lines[i].name
		}
		var bid *string
		if item.BatchID != nil {
			b := item.BatchID.String()
			bid = &b
		}
		items = append(items, dto.SaleItemResponse{
			ProductID: item.ProductID.String(),
			Product:   name,
			BatchID:   bid,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return &dto.SaleResponse{
		ID:            sale.ID.String(),
		Number:        sale.Number,
		Items:         items,
		Subtotal:      sale.Subtotal,
		DiscountTotal: sale.DiscountTotal,
		Total:         sale.Total,
		PaidAmount:    sale.PaidAmount,
		IsCredit:      sale.IsCredit,
		PaymentMethod: sale.PaymentMethod,
		Status:        sale.Status,
		CreatedAt:     sale.CreatedAt.Format(time.RFC3339),
	}
}
