package handlers

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"vynn-profile-system/models"
	"vynn-profile-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestApp wires the public surface (auth + profile routes) against a
// per-test in-memory database with the badge catalog seeded.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect database")

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.CreditTransaction{},
		&models.Referral{},
		&models.Badge{},
		&models.UserBadge{},
		&models.StoreItem{},
	), "failed to migrate database")
	require.NoError(t, services.NewBadgeService(db).SeedSystemBadges(models.SystemBadgeCatalog))

	auth := services.NewAuthService(db, []byte("test-secret"))
	orchestrator := services.NewBadgeOrchestrator(db, nil)

	app := fiber.New()
	SetupAuthRoutes(app, auth, orchestrator)
	SetupProfileRoutes(app, db, services.NewReferralCodeService(db), services.NewRewardService(db))
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path, body string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestProfileViewCrossesMilestone(t *testing.T) {
	app, db := setupTestApp(t)

	status := postJSON(t, app, "/auth/register",
		`{"email":"watched@example.com","username":"watched","password":"correcthorse"}`)
	require.Equal(t, fiber.StatusCreated, status)

	var user models.User
	require.NoError(t, db.First(&user, "username = ?", "watched").Error)
	require.NoError(t, db.Model(&user).UpdateColumn("views", 499).Error)

	// The 500th view lands the first view milestone without waiting for the
	// owner's next login.
	req := httptest.NewRequest(fiber.MethodGet, "/p/watched", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	badges, err := services.NewBadgeService(db).GetUserBadges(user.ID)
	require.NoError(t, err)
	slugs := make([]string, len(badges))
	for i, b := range badges {
		slugs[i] = b.Slug
	}
	assert.Contains(t, slugs, "observer")

	var got models.User
	require.NoError(t, db.First(&got, "id = ?", user.ID).Error)
	assert.EqualValues(t, 500, got.Views)
	assert.EqualValues(t, 500, got.XP, "the observer milestone grants its XP on the crossing view")
}

func TestRegisterStatusCodes(t *testing.T) {
	app, db := setupTestApp(t)

	status := postJSON(t, app, "/auth/register",
		`{"email":"first@example.com","username":"firstuser","password":"correcthorse"}`)
	assert.Equal(t, fiber.StatusCreated, status)

	status = postJSON(t, app, "/auth/register",
		`{"email":"first@example.com","username":"otheruser","password":"correcthorse"}`)
	assert.Equal(t, fiber.StatusConflict, status, "duplicate email")

	status = postJSON(t, app, "/auth/register",
		`{"email":"short@example.com","username":"shortpw","password":"short"}`)
	assert.Equal(t, fiber.StatusBadRequest, status, "bad input is the client's fault")

	status = postJSON(t, app, "/auth/register",
		`{"email":"code@example.com","username":"codeuser","password":"correcthorse","referral_code":"bogus!!"}`)
	assert.Equal(t, fiber.StatusBadRequest, status, "malformed referral code")

	// A broken database is not the client's fault.
	require.NoError(t, db.Migrator().DropTable(&models.User{}))
	status = postJSON(t, app, "/auth/register",
		`{"email":"late@example.com","username":"lateuser","password":"correcthorse"}`)
	assert.Equal(t, fiber.StatusInternalServerError, status)
}
