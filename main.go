package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"vynn-profile-system/handlers"
	"vynn-profile-system/models"
	"vynn-profile-system/services"
	"vynn-profile-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — badge icons are the largest uploads
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	// Icon storage is optional; the admin badge surface rejects uploads
	// when it is not configured.
	if os.Getenv("CLOUDFLARE_ACCOUNT_ID") != "" {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
	} else {
		log.Println("⚠️  CLOUDFLARE_ACCOUNT_ID not set — badge icon uploads disabled")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.CreditTransaction{},
		&models.Referral{},
		&models.Badge{},
		&models.UserBadge{},
		&models.StoreItem{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	badgeService := services.NewBadgeService(db)
	catalog, err := services.LoadCatalog(os.Getenv("BADGE_CATALOG_FILE"))
	if err != nil {
		log.Fatal("failed to load badge catalog:", err)
	}
	if err := badgeService.SeedSystemBadges(catalog); err != nil {
		log.Fatal("failed to seed badge catalog:", err)
	}

	// The membership provider is optional; badge sync no-ops without it.
	var provider services.MemberInfoProvider
	discordServiceURL := os.Getenv("DISCORD_SERVICE_URL")
	if discordServiceURL != "" {
		provider = services.NewDiscordClient(discordServiceURL, os.Getenv("DISCORD_SERVICE_TOKEN"))
	} else {
		log.Println("⚠️  DISCORD_SERVICE_URL not set — Discord badge sync disabled")
	}

	ledger := services.NewLedgerService(db)
	codes := services.NewReferralCodeService(db)
	authService := services.NewAuthService(db, []byte(jwtSecret))
	storeService := services.NewStoreService(db)
	orchestrator := services.NewBadgeOrchestrator(db, provider)

	handlers.SetupAuthRoutes(app, authService, orchestrator)
	handlers.SetupUserRoutes(app, []byte(jwtSecret), db, ledger, badgeService, authService, orchestrator)
	handlers.SetupProfileRoutes(app, db, codes, services.NewRewardService(db))
	handlers.SetupStoreRoutes(app, []byte(jwtSecret), storeService, orchestrator)
	handlers.SetupAdminRoutes(app, db, ledger, badgeService, storeService, authService, orchestrator)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":5100"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5100")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
