package dto

import "github.com/shopspring/decimal"

type CreditPaymentRequest struct {
	SaleID string          `json:"sale_id" validate:"required,uuid"`
	Amount decimal.Decimal `json:"amount"  validate:"required,gt=0"`
	Method string          `json:"method"  validate:"required,oneof=cash card transfer mobile_money"`
}

type CreditPaymentResponse struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"sale_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	ReceivedBy  string          `json:"received_by"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Outstanding decimal.Decimal `json:"outstanding"`
	CreatedAt   string          `json:"created_at"`
}

// CustomerBalanceResponse is folded from the customer's credit sales at
// query time — there is no running outstanding counter to drift.
type CustomerBalanceResponse struct {
	CustomerID  string          `json:"customer_id"`
	CreditSales int             `json:"credit_sales"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}
