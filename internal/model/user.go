package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the progression state of an account.
type User struct {
	ID                   uuid.UUID
	Level                int
	Exp                  float64
	CoinBalance          int64
	ConsecutiveLoginDays int
	LastDailyLogin       *time.Time
}

// AddExpRequest is the DTO for POST /api/add-exp.
type AddExpRequest struct {
	Amount       *float64 `json:"amount" validate:"required,finite,gte=0"`
	Source       string   `json:"source" validate:"required,oneof=recharge reading"`
	CoinIncrease int64    `json:"coinIncrease" validate:"gte=0,lte=1000000000000"`
}

// AddExpResponse is the result of an EXP gain.
type AddExpResponse struct {
	Level           int     `json:"level"`
	Exp             float64 `json:"exp"`
	CoinBalance     int64   `json:"coinBalance"`
	LevelUpOccurred bool    `json:"levelUpOccurred"`
}

// ClaimRewardResponse is the result of a daily reward claim.
type ClaimRewardResponse struct {
	NewBalance          int64  `json:"newBalance"`
	NextLoginDays       int    `json:"nextLoginDays"`
	RewardAmount        int64  `json:"rewardAmount"`
	NotificationMessage string `json:"notificationMessage"`
}

// ProgressResponse is the API response DTO for GET /api/users/me/progress.
type ProgressResponse struct {
	Level                int        `json:"level"`
	Exp                  float64    `json:"exp"`
	CoinBalance          int64      `json:"coinBalance"`
	ConsecutiveLoginDays int        `json:"consecutiveLoginDays"`
	LastDailyLogin       *time.Time `json:"lastDailyLogin"`
}
