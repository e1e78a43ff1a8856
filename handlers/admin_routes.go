package handlers

import (
	"errors"
	"fmt"
	"strings"

	"vynn-profile-system/middleware"
	"vynn-profile-system/models"
	"vynn-profile-system/services"
	"vynn-profile-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SetupAdminRoutes wires the service-token-gated surface other platform
// services call: badge management, manual grants, premium toggles.
func SetupAdminRoutes(app *fiber.App, db *gorm.DB,
	ledger *services.LedgerService, badgeService *services.BadgeService,
	storeService *services.StoreService, authService *services.AuthService,
	orchestrator *services.BadgeOrchestrator) {

	admin := app.Group("/admin", middleware.ServiceAuthMiddleware())

	admin.Get("/badges", func(c *fiber.Ctx) error {
		badges, err := badgeService.ListBadges()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list badges", "cause": err.Error()})
		}
		return c.JSON(badges)
	})

	admin.Post("/badges", func(c *fiber.Ctx) error {
		name := strings.TrimSpace(c.FormValue("name"))
		if name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
		}

		iconURL := c.FormValue("icon")
		if fileHeader, err := c.FormFile("icon_file"); err == nil {
			if !utils.R2Enabled() {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "icon storage not configured"})
			}
			key := fmt.Sprintf("badges/%s-%s", uuid.NewString(), fileHeader.Filename)
			iconURL, err = utils.UploadBadgeIcon(fileHeader, key)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "icon upload failed", "cause": err.Error()})
			}
		}

		badge, err := badgeService.CreateBadge(name, c.FormValue("description"), iconURL, c.FormValue("color"), c.FormValue("category"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create badge", "cause": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(badge)
	})

	admin.Patch("/badges/:id", func(c *fiber.Ctx) error {
		var update services.BadgeUpdate
		if err := c.BodyParser(&update); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		badge, err := badgeService.UpdateBadge(c.Params("id"), update)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrSystemBadgeImmutable):
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, gorm.ErrRecordNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "badge not found"})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "update failed", "cause": err.Error()})
			}
		}
		return c.JSON(badge)
	})

	admin.Delete("/badges/:id", func(c *fiber.Ctx) error {
		if err := badgeService.DeleteBadge(c.Params("id")); err != nil {
			switch {
			case errors.Is(err, services.ErrSystemBadgeImmutable):
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, gorm.ErrRecordNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "badge not found"})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "delete failed", "cause": err.Error()})
			}
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	admin.Post("/xp/grant", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"user_id"`
			XP     int64  `json:"xp"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.UserID == "" || req.XP < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id and a positive xp are required"})
		}

		user, err := ledger.AddXP(req.UserID, req.XP)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "XP grant failed", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{"user_id": user.ID, "xp": user.XP, "level": user.Level})
	})

	admin.Post("/credits/adjust", func(c *fiber.Ctx) error {
		var req struct {
			UserID      string `json:"user_id"`
			Amount      int64  `json:"amount"`
			Description string `json:"description"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.UserID == "" || req.Amount < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id and a positive amount are required"})
		}

		user, err := ledger.AddCredits(req.UserID, req.Amount, models.CreditSourceAdmin, req.Description, nil)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "credit adjust failed", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{"user_id": user.ID, "credits": user.Credits})
	})

	admin.Post("/users/:id/premium", func(c *fiber.Ctx) error {
		var req struct {
			Premium bool `json:"premium"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		user, err := authService.SetPremium(c.Params("id"), req.Premium)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "premium toggle failed", "cause": err.Error()})
		}

		orchestrator.RunAll(c.Context(), user.ID)
		return c.JSON(user)
	})

	admin.Post("/users/:id/verified", func(c *fiber.Ctx) error {
		var req struct {
			Verified bool `json:"verified"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		user, err := authService.SetVerified(c.Params("id"), req.Verified)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "verified toggle failed", "cause": err.Error()})
		}

		orchestrator.RunAll(c.Context(), user.ID)
		return c.JSON(user)
	})

	admin.Post("/store/items", func(c *fiber.Ctx) error {
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			ImageURL    string `json:"image_url"`
			Price       int64  `json:"price"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.Name == "" || req.Price < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and a positive price are required"})
		}

		item, err := storeService.CreateItem(req.Name, req.Description, req.ImageURL, req.Price)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create item", "cause": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	})

	// Lightweight user search for admin tooling
	admin.Get("/users", func(c *fiber.Ctx) error {
		query := strings.TrimSpace(c.Query("q", ""))
		limit := c.QueryInt("limit", 50)
		if limit <= 0 || limit > 100 {
			limit = 50
		}

		tx := db.Model(&models.User{}).Limit(limit)
		if query != "" {
			term := "%" + strings.ToLower(query) + "%"
			tx = tx.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", term, term)
		}

		var users []models.User
		if err := tx.Find(&users).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search failed", "cause": err.Error()})
		}

		type UserSummary struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Tag      string `json:"tag"`
			Email    string `json:"email"`
			Credits  int64  `json:"credits"`
			XP       int64  `json:"xp"`
			Level    int    `json:"level"`
		}
		res := make([]UserSummary, len(users))
		for i, u := range users {
			res[i] = UserSummary{ID: u.ID, Username: u.Username, Tag: u.Tag, Email: u.Email, Credits: u.Credits, XP: u.XP, Level: u.Level}
		}
		return c.JSON(res)
	})
}
