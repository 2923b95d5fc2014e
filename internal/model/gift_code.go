package model

import "time"

// GiftCode is a promotional code that credits coins, EXP and optionally a voucher.
type GiftCode struct {
	ID         int64
	Code       string
	IsActive   bool
	ExpiryDate *time.Time
	UsageLimit int // 0 means unlimited
	UsedCount  int
	CoinReward int64
	ExpReward  float64
	VoucherID  *int64
}

// Exhausted reports whether the code has no redemptions left.
func (g *GiftCode) Exhausted() bool {
	return g.UsageLimit > 0 && g.UsedCount >= g.UsageLimit
}

// ExpiredAt reports whether the code is past its expiry date at now.
func (g *GiftCode) ExpiredAt(now time.Time) bool {
	return g.ExpiryDate != nil && !now.Before(*g.ExpiryDate)
}

// RedeemGiftCodeRequest is the DTO for POST /api/gift-codes/redeem.
type RedeemGiftCodeRequest struct {
	Code string `json:"code" validate:"required,notblank,max=64"`
}

// RedeemGiftCodeResponse is returned after a successful redemption.
type RedeemGiftCodeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
