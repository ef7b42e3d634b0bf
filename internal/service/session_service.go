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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SessionService drives the drawer state machine: none → open → closed.
// Closed is terminal — a new day means a brand-new session.
type SessionService interface {
	Open(ctx context.Context, tenantID uuid.UUID, performer string, req dto.OpenSessionRequest) (*dto.SessionResponse, error)
	RegisterWithdrawal(ctx context.Context, tenantID uuid.UUID, req dto.CashMovementRequest) (*dto.SessionResponse, error)
	RegisterDeposit(ctx context.Context, tenantID uuid.UUID, req dto.CashMovementRequest) (*dto.SessionResponse, error)
	Close(ctx context.Context, tenantID uuid.UUID, performer string, req dto.CloseSessionRequest) (*dto.SessionResponse, error)
	Current(ctx context.Context, tenantID uuid.UUID) (*dto.SessionResponse, error)
}

type sessionService struct {
	sessions repository.SessionRepository
	sales    repository.SaleRepository
	txr      repository.TxRunner
}

func NewSessionService(sessions repository.SessionRepository, sales repository.SaleRepository, txr repository.TxRunner) SessionService {
	return &sessionService{sessions: sessions, sales: sales, txr: txr}
}

// ── Open ──────────────────────────────────────────────────────────────────────

func (s *sessionService) Open(ctx context.Context, tenantID uuid.UUID, performer string, req dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if existing, err := s.sessions.FindOpen(ctx, tenantID); err == nil && existing != nil {
		return nil, apperr.InvalidState("a cash session is already open")
	}

	session := &model.CashSession{
		TenantID:       tenantID,
		OpenedBy:       performer,
		OpeningBalance: req.OpeningBalance,
		Withdrawals:    decimal.Zero,
		Deposits:       decimal.Zero,
		Status:         model.SessionOpen,
		OpenedAt:       time.Now(),
	}
	// The partial unique index on (tenant_id) WHERE status='open' backs
	// this guard against a concurrent double-open.
	err := s.txr.Do(ctx, func(tx *gorm.DB) error {
		return s.sessions.CreateTx(tx, session)
	})
	if err != nil {
		return nil, apperr.InvalidState("could not open cash session").WithCause(err)
	}
	return sessionToResponse(session), nil
}

// ── RegisterWithdrawal / RegisterDeposit ──────────────────────────────────────

func (s *sessionService) RegisterWithdrawal(ctx context.Context, tenantID uuid.UUID, req dto.CashMovementRequest) (*dto.SessionResponse, error) {
	return s.registerCashMovement(ctx, tenantID, req, s.sessions.AddWithdrawalTx)
}

func (s *sessionService) RegisterDeposit(ctx context.Context, tenantID uuid.UUID, req dto.CashMovementRequest) (*dto.SessionResponse, error) {
	return s.registerCashMovement(ctx, tenantID, req, s.sessions.AddDepositTx)
}

func (s *sessionService) registerCashMovement(
	ctx context.Context,
	tenantID uuid.UUID,
	req dto.CashMovementRequest,
	apply func(tx *gorm.DB, tenantID, id uuid.UUID, amount decimal.Decimal) error,
) (*dto.SessionResponse, error) {
	open, err := s.sessions.FindOpen(ctx, tenantID)
	if err != nil {
		return nil, apperr.InvalidState("no open cash session")
	}

	err = s.txr.Do(ctx, func(tx *gorm.DB) error {
		locked, txErr := s.sessions.FindByIDForUpdateTx(tx, tenantID, open.ID)
		if txErr != nil {
			return txErr
		}
		if locked.Status != model.SessionOpen {
			return apperr.InvalidState("cash session is closed")
		}
		return apply(tx, tenantID, locked.ID, req.Amount)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.sessions.FindByID(ctx, tenantID, open.ID)
	if err != nil {
		return nil, err
	}
	return sessionToResponse(updated), nil
}

// ── Close ─────────────────────────────────────────────────────────────────────
// Buckets the session's sales by payment method, splits out credit sales,
// and reconciles the drawer:
//
//	expected = opening + cash sales + deposits − withdrawals
//
// Deposits count toward the expectation: a drawer top-up raises what should
// physically be in the drawer exactly like a cash sale does.

func (s *sessionService) Close(ctx context.Context, tenantID uuid.UUID, performer string, req dto.CloseSessionRequest) (*dto.SessionResponse, error) {
	open, err := s.sessions.FindOpen(ctx, tenantID)
	if err != nil {
		return nil, apperr.InvalidState("no open cash session")
	}

	var session *model.CashSession
	err = s.txr.Do(ctx, func(tx *gorm.DB) error {
		locked, txErr := s.sessions.FindByIDForUpdateTx(tx, tenantID, open.ID)
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("cash session %s not found", open.ID)
			}
			return txErr
		}
		if locked.Status != model.SessionOpen {
			return apperr.InvalidState("cash session is already closed")
		}

		totals, txErr := s.sales.TotalsSinceTx(tx, tenantID, locked.OpenedAt)
		if txErr != nil {
			return txErr
		}
		cash := methodTotal(totals, model.PayCash)
		card := methodTotal(totals, model.PayCard)
		transfer := methodTotal(totals, model.PayTransfer)
		mobile := methodTotal(totals, model.PayMobileMoney)
		credit := totals.Credit

		expected := locked.OpeningBalance.Add(cash).Add(locked.Deposits).Sub(locked.Withdrawals)
		difference := req.ActualBalance.Sub(expected)
		now := time.Now()
		actual := req.ActualBalance

		locked.CashTotal = &cash
		locked.CardTotal = &card
		locked.TransferTotal = &transfer
		locked.MobileMoneyTotal = &mobile
		locked.CreditTotal = &credit
		locked.ExpectedBalance = &expected
		locked.ActualBalance = &actual
		locked.Difference = &difference
		locked.Status = model.SessionClosed
		locked.ClosedBy = &performer
		locked.ClosedAt = &now

		session = locked
		return s.sessions.UpdateTx(tx, locked)
	})
	if err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

// ── Current ───────────────────────────────────────────────────────────────────

func (s *sessionService) Current(ctx context.Context, tenantID uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.sessions.FindOpen(ctx, tenantID)
	if err != nil {
		return nil, apperr.NotFound("no open cash session")
	}
	return sessionToResponse(session), nil
}

func methodTotal(t *repository.SaleTotals, method string) decimal.Decimal {
	if v, ok := t.ByMethod[method]; ok {
		return v
	}
	return decimal.Zero
}

func sessionToResponse(s *model.CashSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:              s.ID.String(),
		Status:          s.Status,
		OpenedBy:        s.OpenedBy,
		ClosedBy:        s.ClosedBy,
		OpeningBalance:  s.OpeningBalance,
		Withdrawals:     s.Withdrawals,
		Deposits:        s.Deposits,
		ExpectedBalance: s.ExpectedBalance,
		ActualBalance:   s.ActualBalance,
		Difference:      s.Difference,
		OpenedAt:        s.OpenedAt.Format(time.RFC3339),
	}
	if s.CashTotal != nil {
		resp.Totals = &dto.MethodTotals{
			Cash:        *s.CashTotal,
			Card:        derefOrZero(s.CardTotal),
			Transfer:    derefOrZero(s.TransferTotal),
			MobileMoney: derefOrZero(s.MobileMoneyTotal),
			Credit:      derefOrZero(s.CreditTotal),
		}
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}

func derefOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
