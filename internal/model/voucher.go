package model

import "time"

// DiscountType selects how a voucher discount is computed.
type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountFixed   DiscountType = "FIXED"
)

// Voucher is a checkout discount code.
type Voucher struct {
	ID                int64        `json:"id"`
	Code              string       `json:"code"`
	IsActive          bool         `json:"isActive"`
	StartDate         *time.Time   `json:"startDate"`
	EndDate           *time.Time   `json:"endDate"`
	UsageLimit        int          `json:"usageLimit"`
	UsedCount         int          `json:"usedCount"`
	DiscountType      DiscountType `json:"discountType"`
	DiscountValue     float64      `json:"discountValue"`
	MaxDiscountAmount *float64     `json:"maxDiscountAmount"`
	MinOrderValue     float64      `json:"minOrderValue"`
}

// ValidateVoucherRequest is the DTO for POST /api/vouchers/validate.
type ValidateVoucherRequest struct {
	Code        string   `json:"code" validate:"required,notblank,max=64"`
	TotalAmount *float64 `json:"totalAmount" validate:"required,finite,gte=0"`
}

// ValidatedVoucher is a voucher together with the discount it yields for an order.
type ValidatedVoucher struct {
	Voucher
	CalculatedDiscount float64 `json:"calculatedDiscount"`
}

// ValidateVoucherResponse is the API response for voucher validation.
type ValidateVoucherResponse struct {
	Valid   bool              `json:"valid"`
	Data    *ValidatedVoucher `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
}
