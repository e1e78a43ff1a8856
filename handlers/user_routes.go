package handlers

import (
	"errors"

	"vynn-profile-system/middleware"
	"vynn-profile-system/models"
	"vynn-profile-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func loadUser(db *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func SetupUserRoutes(app *fiber.App, jwtSecret []byte, db *gorm.DB,
	ledger *services.LedgerService, badgeService *services.BadgeService,
	authService *services.AuthService, orchestrator *services.BadgeOrchestrator) {

	secured := app.Group("/user", middleware.UserContextMiddleware(jwtSecret))

	secured.Get("/badges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		badges, err := badgeService.GetUserBadges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get badges", "cause": err.Error()})
		}
		return c.JSON(badges)
	})

	secured.Get("/credits/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page := c.QueryInt("page", 1)
		size := c.QueryInt("size", 20)

		entries, total, err := ledger.GetCreditHistory(userID, page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get history", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{
			"entries": entries,
			"page":    page,
			"size":    size,
			"total":   total,
		})
	})

	secured.Get("/referrals", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		user, err := loadUser(db, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
		}

		var edges []models.Referral
		if err := db.Where("referrer_id = ?", userID).
			Order("referred_at DESC").
			Find(&edges).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get referrals", "cause": err.Error()})
		}

		return c.JSON(fiber.Map{
			"referral_code":         user.ReferralCode,
			"premium_referral_code": user.PremiumReferralCode,
			"stats": fiber.Map{
				"total_referrals":      user.TotalReferrals,
				"active_referrals":     user.ActiveReferrals,
				"total_xp_earned":      user.TotalXPEarned,
				"total_credits_earned": user.TotalCreditsEarned,
				"referral_clicks":      user.ReferralClicks,
			},
			"referrals": edges,
		})
	})

	secured.Post("/discord/link", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			DiscordID       string `json:"discord_id"`
			DiscordUsername string `json:"discord_username"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.DiscordID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "discord_id is required"})
		}

		user, err := authService.LinkDiscord(userID, req.DiscordID, req.DiscordUsername)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to link discord", "cause": err.Error()})
		}

		orchestrator.RunAll(c.Context(), userID)
		return c.JSON(user)
	})
}
