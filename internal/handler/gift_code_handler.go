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

// GiftCodeServiceInterface defines the interface for gift code business logic.
type GiftCodeServiceInterface interface {
	Redeem(ctx context.Context, userID uuid.UUID, code string) (*model.RedeemGiftCodeResponse, error)
}

// GiftCodeHandler handles HTTP requests for gift code redemption.
type GiftCodeHandler struct {
	service   GiftCodeServiceInterface
	validator *validator.Validate
}

// NewGiftCodeHandler creates a new GiftCodeHandler with the given service and validator.
func NewGiftCodeHandler(svc GiftCodeServiceInterface, v *validator.Validate) *GiftCodeHandler {
	return &GiftCodeHandler{service: svc, validator: v}
}

// redeemStatus maps redemption rule violations to HTTP status codes.
func redeemStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return fiber.StatusUnauthorized, true
	case errors.Is(err, service.ErrGiftCodeNotFound),
		errors.Is(err, service.ErrGiftCodeInactive),
		errors.Is(err, service.ErrUserNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, service.ErrGiftCodeExpired),
		errors.Is(err, service.ErrGiftCodeLimitReached),
		errors.Is(err, service.ErrGiftCodeAlreadyUsed),
		errors.Is(err, service.ErrInvalidRequest):
		return fiber.StatusBadRequest, true
	default:
		return fiber.StatusInternalServerError, false
	}
}

// Redeem handles POST /api/gift-codes/redeem requests.
func (h *GiftCodeHandler) Redeem(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req model.RedeemGiftCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": apivalidator.Message(err)})
	}

	resp, err := h.service.Redeem(c.Context(), userID, req.Code)
	if err != nil {
		if status, ok := redeemStatus(err); ok {
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("user_id", userID.String()).
			Str("gift_code", req.Code).
			Msg("failed to redeem gift code")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("user_id", userID.String()).
		Str("gift_code", req.Code).
		Msg("gift code redeemed successfully")

	return c.JSON(resp)
}
