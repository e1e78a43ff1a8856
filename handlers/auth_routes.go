package handlers

import (
	"errors"

	"vynn-profile-system/middleware"
	"vynn-profile-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService, orchestrator *services.BadgeOrchestrator) {
	app.Post("/auth/register", func(c *fiber.Ctx) error {
		var req services.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		user, err := authService.Register(c.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrUsernameTaken):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrInvalidCode), errors.Is(err, services.ErrValidation):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "registration failed", "cause": err.Error()})
			}
		}

		orchestrator.RunAll(c.Context(), user.ID)

		token, err := authService.IssueToken(user.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to issue token", "cause": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "token": token})
	})

	app.Post("/auth/login", func(c *fiber.Ctx) error {
		var req struct {
			Identifier string `json:"identifier"` // email or username
			Password   string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		user, err := authService.Login(req.Identifier, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed", "cause": err.Error()})
		}

		orchestrator.RunAll(c.Context(), user.ID)

		token, err := authService.IssueToken(user.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to issue token", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{"user": user, "token": token})
	})

	secured := app.Group("/", middleware.UserContextMiddleware(authService.JWTSecret))

	secured.Get("/auth/me", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		orchestrator.RunAll(c.Context(), userID)

		u, err := loadUser(authService.DB, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
		}
		return c.JSON(u)
	})
}
