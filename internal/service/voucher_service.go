package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storyverse/rewards-api/internal/model"
)

// VoucherRepositoryInterface defines the interface for voucher data access.
type VoucherRepositoryInterface interface {
	GetByCode(ctx context.Context, code string) (*model.Voucher, error)
	HasUserUsed(ctx context.Context, voucherID int64, userID uuid.UUID) (bool, error)
}

// VoucherService validates vouchers against an order total. It never
// records usage; that happens when the order completes.
type VoucherService struct {
	vouchers VoucherRepositoryInterface
	now      func() time.Time
}

// NewVoucherService creates a new VoucherService.
func NewVoucherService(vouchers VoucherRepositoryInterface) *VoucherService {
	return NewVoucherServiceWithClock(vouchers, time.Now)
}

// NewVoucherServiceWithClock creates a VoucherService with a custom clock.
// Primarily used for testing.
func NewVoucherServiceWithClock(vouchers VoucherRepositoryInterface, now func() time.Time) *VoucherService {
	return &VoucherService{vouchers: vouchers, now: now}
}

// Validate checks whether code applies to an order of totalAmount and returns
// the discount it yields. userID may be uuid.Nil for an anonymous caller, in
// which case the per-user check is skipped.
func (s *VoucherService) Validate(ctx context.Context, userID uuid.UUID, code string, totalAmount float64) (*model.ValidatedVoucher, error) {
	code = normalizeCode(code)
	if code == "" || totalAmount < 0 {
		return nil, ErrInvalidRequest
	}

	v, err := s.vouchers.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	if v == nil {
		return nil, ErrVoucherNotFound
	}

	now := s.now()
	switch {
	case !v.IsActive:
		return nil, ErrVoucherInactive
	case v.StartDate != nil && now.Before(*v.StartDate):
		return nil, ErrVoucherNotStarted
	case v.EndDate != nil && now.After(*v.EndDate):
		return nil, ErrVoucherExpired
	case v.UsageLimit > 0 && v.UsedCount >= v.UsageLimit:
		return nil, ErrVoucherLimitReached
	}

	if userID != uuid.Nil {
		used, err := s.vouchers.HasUserUsed(ctx, v.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("check voucher usage: %w", err)
		}
		if used {
			return nil, ErrVoucherAlreadyUsed
		}
	}

	if decimal.NewFromFloat(totalAmount).LessThan(decimal.NewFromFloat(v.MinOrderValue)) {
		return nil, ErrMinOrderValueNotMet
	}

	return &model.ValidatedVoucher{
		Voucher:            *v,
		CalculatedDiscount: CalculateDiscount(v, totalAmount),
	}, nil
}

// CalculateDiscount returns the discount v grants on total, rounded to two
// decimals. Percent discounts are capped by MaxDiscountAmount when it is set
// and positive; no discount ever exceeds total.
func CalculateDiscount(v *model.Voucher, total float64) float64 {
	orderTotal := decimal.NewFromFloat(total)
	if orderTotal.IsNegative() {
		return 0
	}

	var discount decimal.Decimal
	switch v.DiscountType {
	case model.DiscountPercent:
		discount = orderTotal.Mul(decimal.NewFromFloat(v.DiscountValue)).Div(decimal.NewFromInt(100))
		if v.MaxDiscountAmount != nil && *v.MaxDiscountAmount > 0 {
			discount = decimal.Min(discount, decimal.NewFromFloat(*v.MaxDiscountAmount))
		}
	default:
		discount = decimal.NewFromFloat(v.DiscountValue)
	}

	discount = decimal.Max(decimal.Zero, decimal.Min(discount, orderTotal))
	return discount.Round(2).InexactFloat64()
}
