package handlers

import (
	"errors"

	"vynn-profile-system/middleware"
	"vynn-profile-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupStoreRoutes(app *fiber.App, jwtSecret []byte, storeService *services.StoreService, orchestrator *services.BadgeOrchestrator) {
	app.Get("/store/items", func(c *fiber.Ctx) error {
		items, err := storeService.ListItems()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list items", "cause": err.Error()})
		}
		return c.JSON(items)
	})

	secured := app.Group("/store", middleware.UserContextMiddleware(jwtSecret))

	secured.Post("/purchase", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			ItemSlug string `json:"item_slug"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.ItemSlug == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "item_slug is required"})
		}

		user, item, err := storeService.Purchase(userID, req.ItemSlug)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInsufficientCredits):
				return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "insufficient credits"})
			case errors.Is(err, gorm.ErrRecordNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "purchase failed", "cause": err.Error()})
			}
		}

		orchestrator.RunAll(c.Context(), userID)

		return c.JSON(fiber.Map{
			"item":    item,
			"credits": user.Credits,
		})
	})
}
