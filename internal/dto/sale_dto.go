package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,gt=0"`
	Discount  decimal.Decimal `json:"discount"   validate:"min=0"`
}

type CreateSaleRequest struct {
	SessionID     *string           `json:"session_id"  validate:"omitempty,uuid"`
	CustomerID    *string           `json:"customer_id" validate:"omitempty,uuid"`
	Items         []SaleItemRequest `json:"items"       validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card transfer mobile_money"`
	PaidAmount    decimal.Decimal   `json:"paid_amount" validate:"min=0"`
	IsCredit      bool              `json:"is_credit"`
}

type RegulatedSaleItemRequest struct {
	BatchID  string `json:"batch_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type CreateRegulatedSaleRequest struct {
	SessionID     *string                    `json:"session_id"  validate:"omitempty,uuid"`
	CustomerID    *string                    `json:"customer_id" validate:"omitempty,uuid"`
	Items         []RegulatedSaleItemRequest `json:"items"       validate:"required,min=1,dive"`
	PaymentMethod string                     `json:"payment_method" validate:"required,oneof=cash card transfer mobile_money"`
	PaidAmount    decimal.Decimal            `json:"paid_amount" validate:"min=0"`
	IsCredit      bool                       `json:"is_credit"`
	// PrescriptionRef is the policy gate for regulated products; the sale
	// is rejected when any line's product requires it and it is empty.
	PrescriptionRef *string `json:"prescription_ref"`
}

type SaleFilter struct {
	Status string
	Credit *bool
	Page   int
	Limit  int
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product,omitempty"`
	BatchID   *string         `json:"batch_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	Number        int64              `json:"number"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	DiscountTotal decimal.Decimal    `json:"discount_total"`
	Total         decimal.Decimal    `json:"total"`
	PaidAmount    decimal.Decimal    `json:"paid_amount"`
	IsCredit      bool               `json:"is_credit"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	CreatedAt     string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
