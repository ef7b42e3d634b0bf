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

// CreditService tracks partial payments against credit sales. Customer
// aggregates are folded from the sales at query time — there is no running
// outstanding counter that could drift from the payment rows.
type CreditService interface {
	RegisterPayment(ctx context.Context, tenantID uuid.UUID, performer string, req dto.CreditPaymentRequest) (*dto.CreditPaymentResponse, error)
	CustomerBalance(ctx context.Context, tenantID, customerID uuid.UUID) (*dto.CustomerBalanceResponse, error)
}

type creditService struct {
	sales    repository.SaleRepository
	payments repository.CreditPaymentRepository
	txr      repository.TxRunner
}

func NewCreditService(sales repository.SaleRepository, payments repository.CreditPaymentRepository, txr repository.TxRunner) CreditService {
	return &creditService{sales: sales, payments: payments, txr: txr}
}

// RegisterPayment applies one payment in one transaction: the sale row is
// locked, the no-overpayment invariant checked against the locked balance,
// the payment row created, paidAmount bumped.
func (s *creditService) RegisterPayment(ctx context.Context, tenantID uuid.UUID, performer string, req dto.CreditPaymentRequest) (*dto.CreditPaymentResponse, error) {
	saleID, err := uuid.Parse(req.SaleID)
	if err != nil {
		return nil, apperr.NotFound("invalid sale id")
	}

	var payment model.CreditPayment
	var newPaid, outstanding decimal.Decimal
	err = s.txr.Do(ctx, func(tx *gorm.DB) error {
		sale, txErr := s.sales.FindByIDForUpdateTx(tx, tenantID, saleID)
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("sale %s not found", saleID)
			}
			return txErr
		}
		if !sale.IsCredit {
			return apperr.InvalidState("sale #%d is not a credit sale", sale.Number)
		}
		if sale.Status != model.SaleCompleted {
			return apperr.InvalidState("sale #%d is %s", sale.Number, sale.Status)
		}

		remaining := sale.Total.Sub(sale.PaidAmount)
		if req.Amount.GreaterThan(remaining) {
			return apperr.PolicyViolation("payment of %s exceeds outstanding balance %s",
				req.Amount.StringFixed(2), remaining.StringFixed(2))
		}

		payment = model.CreditPayment{
			TenantID:   tenantID,
			SaleID:     sale.ID,
			Amount:     req.Amount,
			Method:     req.Method,
			ReceivedBy: performer,
		}
		if txErr = s.payments.CreateTx(tx, &payment); txErr != nil {
			return txErr
		}

		newPaid = sale.PaidAmount.Add(req.Amount)
		outstanding = sale.Total.Sub(newPaid)
		return s.sales.UpdatePaidAmountTx(tx, tenantID, sale.ID, newPaid)
	})
	if err != nil {
		return nil, err
	}

	return &dto.CreditPaymentResponse{
		ID:          payment.ID.String(),
		SaleID:      payment.SaleID.String(),
		Amount:      payment.Amount,
		Method:      payment.Method,
		ReceivedBy:  payment.ReceivedBy,
		PaidAmount:  newPaid,
		Outstanding: outstanding,
		CreatedAt:   payment.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *creditService) CustomerBalance(ctx context.Context, tenantID, customerID uuid.UUID) (*dto.CustomerBalanceResponse, error) {
	sales, err := s.sales.ListCreditByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	resp := &dto.CustomerBalanceResponse{
		CustomerID:  customerID.String(),
		CreditSales: len(sales),
	}
	for _, sale := range sales {
		resp.TotalCredit = resp.TotalCredit.Add(sale.Total)
		resp.TotalPaid = resp.TotalPaid.Add(sale.PaidAmount)
	}
	resp.Outstanding = resp.TotalCredit.Sub(resp.TotalPaid)
	return resp, nil
}
