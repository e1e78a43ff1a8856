package services

import (
	"fmt"
	"strings"
	"testing"

	"vynn-profile-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a per-test in-memory database and seeds the badge
// catalog. cache=shared keeps the DB alive across the pooled connections
// GORM opens.
func setupTestDB(t *testing.T) *gorm.DB {
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

	require.NoError(t, NewBadgeService(db).SeedSystemBadges(models.SystemBadgeCatalog))
	return db
}

// createTestUser persists a minimal user through the normalize step, so it
// carries a referral code like any real account would.
func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        username + "@example.com",
		Username:     username,
		Tag:          "0001",
		PasswordHash: "irrelevant",
		Level:        1,
	}
	require.NoError(t, NewReferralCodeService(db).Normalize(user))
	require.NoError(t, db.Create(user).Error)
	return user
}

func reloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return &user
}

func badgeSlugsOf(t *testing.T, db *gorm.DB, userID string) []string {
	t.Helper()
	badges, err := NewBadgeService(db).GetUserBadges(userID)
	require.NoError(t, err)
	slugs := make([]string, len(badges))
	for i, b := range badges {
		slugs[i] = b.Slug
	}
	return slugs
}
