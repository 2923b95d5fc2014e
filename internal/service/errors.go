package service

import (
	"errors"

	"github.com/storyverse/rewards-api/internal/dailyreward"
	"github.com/storyverse/rewards-api/internal/leveling"
)

var (
	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthenticated is returned when an operation needs a user and none is present
	ErrUnauthenticated = errors.New("authentication required")

	// ErrUserNotFound is returned when the user row does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrAlreadyClaimedToday is returned when the daily reward was already claimed this calendar day
	ErrAlreadyClaimedToday = dailyreward.ErrAlreadyClaimed

	// ErrInvalidRewardType is returned for a daily reward that cannot be credited
	ErrInvalidRewardType = dailyreward.ErrInvalidRewardType

	// ErrInvalidAmount is returned for a negative or non-finite EXP amount
	ErrInvalidAmount = leveling.ErrInvalidAmount

	// ErrUnknownSource is returned for an EXP source other than recharge or reading
	ErrUnknownSource = leveling.ErrUnknownSource
)

var (
	// ErrGiftCodeNotFound is returned when no gift code matches
	ErrGiftCodeNotFound = errors.New("gift code not found")

	// ErrGiftCodeInactive is returned when the gift code has been disabled
	ErrGiftCodeInactive = errors.New("gift code is inactive")

	// ErrGiftCodeExpired is returned when the gift code is past its expiry date
	ErrGiftCodeExpired = errors.New("gift code has expired")

	// ErrGiftCodeLimitReached is returned when the gift code has no redemptions left
	ErrGiftCodeLimitReached = errors.New("gift code usage limit reached")

	// ErrGiftCodeAlreadyUsed is returned when the user already redeemed this gift code
	ErrGiftCodeAlreadyUsed = errors.New("gift code already used")
)

var (
	// ErrVoucherNotFound is returned when no voucher matches
	ErrVoucherNotFound = errors.New("voucher not found")

	// ErrVoucherInactive is returned when the voucher has been disabled
	ErrVoucherInactive = errors.New("voucher is inactive")

	// ErrVoucherNotStarted is returned before the voucher's start date
	ErrVoucherNotStarted = errors.New("voucher is not yet valid")

	// ErrVoucherExpired is returned after the voucher's end date
	ErrVoucherExpired = errors.New("voucher has expired")

	// ErrVoucherLimitReached is returned when the voucher has no uses left
	ErrVoucherLimitReached = errors.New("voucher usage limit reached")

	// ErrVoucherAlreadyUsed is returned when the caller already used the voucher
	ErrVoucherAlreadyUsed = errors.New("voucher already used")

	// ErrMinOrderValueNotMet is returned when the order total is below the voucher minimum
	ErrMinOrderValueNotMet = errors.New("order total is below the minimum order value")
)
