package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/storyverse/rewards-api/internal/handler/middleware"
	"github.com/storyverse/rewards-api/internal/model"
	"github.com/storyverse/rewards-api/internal/service"
	apivalidator "github.com/storyverse/rewards-api/internal/validator"
)

// ProgressServiceInterface defines the interface for progression business logic.
type ProgressServiceInterface interface {
	AddExp(ctx context.Context, userID uuid.UUID, req *model.AddExpRequest) (*model.AddExpResponse, error)
	ClaimDailyReward(ctx context.Context, userID uuid.UUID) (*model.ClaimRewardResponse, error)
	GetProgress(ctx context.Context, userID uuid.UUID) (*model.ProgressResponse, error)
}

// ProgressHandler handles HTTP requests for EXP, daily rewards and progress.
type ProgressHandler struct {
	service   ProgressServiceInterface
	validator *validator.Validate
}

// NewProgressHandler creates a new ProgressHandler with the given service and validator.
func NewProgressHandler(svc ProgressServiceInterface, v *validator.Validate) *ProgressHandler {
	return &ProgressHandler{service: svc, validator: v}
}

// AddExp handles POST /api/add-exp requests.
func (h *ProgressHandler) AddExp(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req model.AddExpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": apivalidator.Message(err)})
	}

	resp, err := h.service.AddExp(c.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		if errors.Is(err, service.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: amount must be a non-negative number"})
		}
		if errors.Is(err, service.ErrUnknownSource) || errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("user_id", userID.String()).
			Str("source", req.Source).
			Msg("failed to add exp")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("user_id", userID.String()).
		Str("source", req.Source).
		Int("level", resp.Level).
		Bool("level_up", resp.LevelUpOccurred).
		Msg("exp added")

	return c.JSON(resp)
}

// ClaimReward handles POST /api/claim-reward requests.
func (h *ProgressHandler) ClaimReward(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	resp, err := h.service.ClaimDailyReward(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyClaimedToday) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "daily reward already claimed today"})
		}
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		if errors.Is(err, service.ErrInvalidRewardType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid reward type"})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("user_id", userID.String()).
			Msg("failed to claim daily reward")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("user_id", userID.String()).
		Int("login_days", resp.NextLoginDays).
		Int64("reward_amount", resp.RewardAmount).
		Msg("daily reward claimed")

	return c.JSON(resp)
}

// GetProgress handles GET /api/users/me/progress requests.
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	resp, err := h.service.GetProgress(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("user_id", userID.String()).
			Msg("failed to get progress")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(resp)
}
