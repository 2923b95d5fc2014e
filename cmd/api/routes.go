package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/storyverse/rewards-api/internal/handler"
	"github.com/storyverse/rewards-api/internal/handler/middleware"
)

type routes struct {
	health   *handler.HealthHandler
	progress *handler.ProgressHandler
	giftCode *handler.GiftCodeHandler
	voucher  *handler.VoucherHandler
	auth     middleware.TokenAuthenticator
}

func registerRoutes(app *fiber.App, r routes) {
	app.Get("/health", r.health.Check)

	requireAuth := middleware.RequireAuth(r.auth)
	api := app.Group("/api")

	api.Post("/add-exp", requireAuth, r.progress.AddExp)
	api.Post("/claim-reward", requireAuth, r.progress.ClaimReward)
	api.Get("/users/me/progress", requireAuth, r.progress.GetProgress)
	api.Post("/gift-codes/redeem", requireAuth, r.giftCode.Redeem)
	api.Post("/vouchers/validate", middleware.OptionalAuth(r.auth), r.voucher.Validate)
}
