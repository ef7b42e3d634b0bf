package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenSessionRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"min=0"`
}

type CashMovementRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Reason string          `json:"reason" validate:"required,min=3"`
}

type CloseSessionRequest struct {
	ActualBalance decimal.Decimal `json:"actual_balance" validate:"min=0"`
	Notes         *string         `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// MethodTotals buckets sale amounts by payment method at close.
type MethodTotals struct {
	Cash        decimal.Decimal `json:"cash"`
	Card        decimal.Decimal `json:"card"`
	Transfer    decimal.Decimal `json:"transfer"`
	MobileMoney decimal.Decimal `json:"mobile_money"`
	Credit      decimal.Decimal `json:"credit"`
}

type SessionResponse struct {
	ID             string          `json:"id"`
	Status         string          `json:"status"`
	OpenedBy       string          `json:"opened_by"`
	ClosedBy       *string         `json:"closed_by,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Withdrawals    decimal.Decimal `json:"withdrawals"`
	Deposits       decimal.Decimal `json:"deposits"`

	Totals          *MethodTotals    `json:"totals,omitempty"`
	ExpectedBalance *decimal.Decimal `json:"expected_balance,omitempty"`
	ActualBalance   *decimal.Decimal `json:"actual_balance,omitempty"`
	Difference      *decimal.Decimal `json:"difference,omitempty"`

	OpenedAt string  `json:"opened_at"`
	ClosedAt *string `json:"closed_at,omitempty"`
}
