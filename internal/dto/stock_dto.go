package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RecordMovementRequest struct {
	ProductID   string  `json:"product_id"   validate:"required,uuid"`
	WarehouseID *string `json:"warehouse_id" validate:"omitempty,uuid"`
	// Quantity is signed: positive = entry, negative = exit.
	Quantity  int     `json:"quantity"  validate:"required"`
	Type      string  `json:"type"      validate:"required,oneof=purchase sale return_in return_out adjustment expired transfer loss"`
	Reference *string `json:"reference" validate:"omitempty,uuid"`
	Reason    string  `json:"reason"    validate:"required,min=3"`
}

type AdjustStockRequest struct {
	ProductID   string  `json:"product_id"   validate:"required,uuid"`
	WarehouseID *string `json:"warehouse_id" validate:"omitempty,uuid"`
	Quantity    int     `json:"quantity"     validate:"required"`
	Reason      string  `json:"reason"       validate:"required,min=3"`
}

type TransferStockRequest struct {
	ProductID       string `json:"product_id"        validate:"required,uuid"`
	FromWarehouseID string `json:"from_warehouse_id" validate:"required,uuid"`
	ToWarehouseID   string `json:"to_warehouse_id"   validate:"required,uuid,nefield=FromWarehouseID"`
	Quantity        int    `json:"quantity"          validate:"required,gt=0"`
	Reason          string `json:"reason"            validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovementResponse struct {
	ID            string  `json:"id"`
	ProductID     string  `json:"product_id"`
	WarehouseID   *string `json:"warehouse_id,omitempty"`
	BatchID       *string `json:"batch_id,omitempty"`
	Type          string  `json:"type"`
	Quantity      int     `json:"quantity"`
	BalanceBefore int     `json:"balance_before"`
	BalanceAfter  int     `json:"balance_after"`
	OriginModule  string  `json:"origin_module"`
	Reason        string  `json:"reason"`
	Performer     string  `json:"performer"`
	CreatedAt     string  `json:"created_at"`
}

type AlertResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Product   string `json:"product,omitempty"`
	Type      string `json:"type"`
	Priority  string `json:"priority"`
	Message   string `json:"message"`
	Resolved  bool   `json:"resolved"`
	CreatedAt string `json:"created_at"`
}

type StockStatusResponse struct {
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	MinThreshold int    `json:"min_threshold"`
	Status       string `json:"status"`
}

type MovementFilter struct {
	ProductID string
	Type      string
	Page      int
	Limit     int
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type BatchResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	LotNumber         string          `json:"lot_number"`
	QuantityReceived  int             `json:"quantity_received"`
	QuantityAvailable int             `json:"quantity_available"`
	ExpiryDate        string          `json:"expiry_date"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellPrice         decimal.Decimal `json:"sell_price"`
	Status            string          `json:"status"`
}

type CreateBatchRequest struct {
	ProductID   string          `json:"product_id"   validate:"required,uuid"`
	WarehouseID *string         `json:"warehouse_id" validate:"omitempty,uuid"`
	LotNumber   string          `json:"lot_number"   validate:"required,min=1"`
	Quantity    int             `json:"quantity"     validate:"required,gt=0"`
	ExpiryDate  string          `json:"expiry_date"  validate:"required,datetime=2006-01-02"`
	CostPrice   decimal.Decimal `json:"cost_price"   validate:"min=0"`
	SellPrice   decimal.Decimal `json:"sell_price"   validate:"min=0"`
}
