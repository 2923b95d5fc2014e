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

// VoucherServiceInterface defines the interface for voucher business logic.
type VoucherServiceInterface interface {
	Validate(ctx context.Context, userID uuid.UUID, code string, totalAmount float64) (*model.ValidatedVoucher, error)
}

// VoucherHandler handles HTTP requests for voucher validation.
type VoucherHandler struct {
	service   VoucherServiceInterface
	validator *validator.Validate
}

// NewVoucherHandler creates a new VoucherHandler with the given service and validator.
func NewVoucherHandler(svc VoucherServiceInterface, v *validator.Validate) *VoucherHandler {
	return &VoucherHandler{service: svc, validator: v}
}

var voucherRuleErrors = []error{
	service.ErrVoucherInactive,
	service.ErrVoucherNotStarted,
	service.ErrVoucherExpired,
	service.ErrVoucherLimitReached,
	service.ErrVoucherAlreadyUsed,
	service.ErrMinOrderValueNotMet,
	service.ErrInvalidRequest,
}

func invalidVoucher(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(model.ValidateVoucherResponse{Valid: false, Message: msg})
}

// Validate handles POST /api/vouchers/validate requests.
// Authentication is optional; an identified caller is also checked against
// their own past usage.
func (h *VoucherHandler) Validate(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req model.ValidateVoucherRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidVoucher(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return invalidVoucher(c, fiber.StatusBadRequest, apivalidator.Message(err))
	}

	data, err := h.service.Validate(c.Context(), userID, req.Code, *req.TotalAmount)
	if err != nil {
		if errors.Is(err, service.ErrVoucherNotFound) {
			return invalidVoucher(c, fiber.StatusNotFound, err.Error())
		}
		for _, ruleErr := range voucherRuleErrors {
			if errors.Is(err, ruleErr) {
				return invalidVoucher(c, fiber.StatusBadRequest, err.Error())
			}
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("user_id", userID.String()).
			Str("voucher_code", req.Code).
			Msg("failed to validate voucher")
		return invalidVoucher(c, fiber.StatusInternalServerError, "internal server error")
	}

	log.Debug().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("voucher_code", data.Code).
		Float64("calculated_discount", data.CalculatedDiscount).
		Msg("voucher validated")

	return c.JSON(model.ValidateVoucherResponse{Valid: true, Data: data})
}
