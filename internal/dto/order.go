package dto

import (
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest defines the data needed to open an order.
type CreateOrderRequest struct {
	Name                 string          `json:"name" binding:"required"`
	Wilaya               string          `json:"wilaya"`
	Product              string          `json:"product"`
	ProductionDetails    string          `json:"productionDetails"`
	Total                decimal.Decimal `json:"total" binding:"decimalgte0"`
	Paid                 decimal.Decimal `json:"paid" binding:"decimalgte0"`
	Note                 string          `json:"note"`
	StatusID             *int            `json:"statusID"`
	StartDate            *time.Time      `json:"startDate"`
	ExpectedDeliveryDate *time.Time      `json:"expectedDeliveryDate"`
}

// UpdateOrderRequest carries the editable order fields. Nil fields are left unchanged.
type UpdateOrderRequest struct {
	Name                 *string          `json:"name"`
	Wilaya               *string          `json:"wilaya"`
	Product              *string          `json:"product"`
	ProductionDetails    *string          `json:"productionDetails"`
	Total                *decimal.Decimal `json:"total" binding:"omitempty,decimalgte0"`
	Note                 *string          `json:"note"`
	StartDate            *time.Time       `json:"startDate"`
	ExpectedDeliveryDate *time.Time       `json:"expectedDeliveryDate"`
	ActualDeliveryDate   *time.Time       `json:"actualDeliveryDate"`
	CompletionDate       *time.Time       `json:"completionDate"`
	Version              int64            `json:"version" binding:"required"`
}

// PaymentRequest records money received or paid.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"decimalgt0"`
}

// ChangeOrderStatusRequest moves an order to another status.
type ChangeOrderStatusRequest struct {
	StatusID int `json:"statusID" binding:"required"`
}

// CreateOrderStatusRequest adds a custom order status.
type CreateOrderStatusRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// ListOrdersParams defines query parameters for listing orders.
type ListOrdersParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
	StatusID  *int    `form:"statusID"`
	IsPaid    *bool   `form:"isPaid"`
	Search    string  `form:"q"`
}

// ListOrdersResponse wraps a page of orders.
type ListOrdersResponse struct {
	Orders    []domain.Order `json:"orders"`
	NextToken *string        `json:"nextToken,omitempty"`
}
