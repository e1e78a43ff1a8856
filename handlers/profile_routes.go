package handlers

import (
	"errors"

	"vynn-profile-system/models"
	"vynn-profile-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupProfileRoutes wires the public surface: profile pages (which own the
// view counter — the reward engine only ever reads it), referral code
// validation and referral-link click tracking.
func SetupProfileRoutes(app *fiber.App, db *gorm.DB, codes *services.ReferralCodeService, rewards *services.RewardService) {
	app.Get("/p/:username", func(c *fiber.Ctx) error {
		username := c.Params("username")

		var user models.User
		if err := db.First(&user, "username = ?", username).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
		}

		// Count the visit, then let the engine award any view milestone the
		// owner just crossed — viewers should not have to wait for the
		// owner's next login.
		if err := db.Model(&models.User{}).
			Where("id = ?", user.ID).
			UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count view", "cause": err.Error()})
		}
		rewards.CheckViewBadges(user.ID)

		return c.JSON(fiber.Map{
			"username":    user.Username,
			"tag":         user.Tag,
			"level":       user.Level,
			"views":       user.Views + 1,
			"is_premium":  user.IsPremium,
			"is_verified": user.IsVerified,
		})
	})

	app.Get("/referrals/validate/:code", func(c *fiber.Ctx) error {
		identity, err := codes.ValidateCode(c.Params("code"))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCode):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed referral code"})
			case errors.Is(err, gorm.ErrRecordNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "referral code not found"})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup failed", "cause": err.Error()})
			}
		}
		return c.JSON(identity)
	})

	app.Post("/referrals/click/:code", func(c *fiber.Ctx) error {
		if err := codes.RecordClick(c.Params("code")); err != nil {
			if errors.Is(err, services.ErrInvalidCode) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed referral code"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record click", "cause": err.Error()})
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
