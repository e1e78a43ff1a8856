package services

import (
	"regexp"
	"strings"
	"testing"

	"vynn-profile-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var codePattern = regexp.MustCompile(`^VYNN-[A-Z0-9]{4}$`)

func TestGenerateReferralCodeFormatAndIdempotence(t *testing.T) {
	db := setupTestDB(t)
	codes := NewReferralCodeService(db)

	user := createTestUser(t, db, "nova")
	assert.Regexp(t, codePattern, user.ReferralCode)

	first, err := codes.GenerateReferralCode(user)
	require.NoError(t, err)
	second, err := codes.GenerateReferralCode(user)
	require.NoError(t, err)
	assert.Equal(t, first, second, "repeated generation must return the same code")
	assert.Equal(t, user.ReferralCode, first)
}

func TestGenerateReferralCodeUniqueAcrossUsers(t *testing.T) {
	db := setupTestDB(t)

	a := createTestUser(t, db, "usera")
	b := createTestUser(t, db, "userb")
	assert.NotEqual(t, a.ReferralCode, b.ReferralCode)
}

func TestPremiumReferralCodeDerivation(t *testing.T) {
	db := setupTestDB(t)
	codes := NewReferralCodeService(db)

	user := createTestUser(t, db, "nova")
	require.Nil(t, user.PremiumReferralCode)

	// Not premium: nothing derived.
	code, err := codes.GeneratePremiumReferralCode(user)
	require.NoError(t, err)
	assert.Empty(t, code)
	assert.Nil(t, user.PremiumReferralCode)

	user.IsPremium = true
	require.NoError(t, codes.Normalize(user))
	require.NotNil(t, user.PremiumReferralCode)
	assert.Equal(t, "VYNN-NOVA", *user.PremiumReferralCode)
	require.NoError(t, db.Save(user).Error)

	// Premium lapses: the code is left untouched.
	user.IsPremium = false
	require.NoError(t, codes.Normalize(user))
	require.NoError(t, db.Save(user).Error)

	got := reloadUser(t, db, user.ID)
	require.NotNil(t, got.PremiumReferralCode)
	assert.Equal(t, "VYNN-NOVA", *got.PremiumReferralCode)
}

func TestPremiumReferralCodeCollisionAssignsNothing(t *testing.T) {
	db := setupTestDB(t)
	codes := NewReferralCodeService(db)

	// Someone else already holds the exact derived code.
	squatter := &models.User{
		ID:           uuid.NewString(),
		Email:        "squatter@example.com",
		Username:     "squatter",
		Tag:          "0002",
		PasswordHash: "irrelevant",
		Level:        1,
		ReferralCode: "VYNN-NOVA",
	}
	require.NoError(t, db.Create(squatter).Error)

	user := createTestUser(t, db, "nova")
	user.IsPremium = true
	code, err := codes.GeneratePremiumReferralCode(user)
	require.NoError(t, err)
	assert.Empty(t, code)
	assert.Nil(t, user.PremiumReferralCode)
}

func TestValidateCodeCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	codes := NewReferralCodeService(db)

	user := createTestUser(t, db, "nova")

	identity, err := codes.ValidateCode(user.ReferralCode)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, "nova", identity.Username)

	lowered, err := codes.ValidateCode(strings.ToLower(user.ReferralCode))
	require.NoError(t, err)
	assert.Equal(t, user.ID, lowered.ID)
}

func TestValidateCodeMatchesPremiumCodeToo(t *testing.T) {
	db := setupTestDB(t)
	codes := NewReferralCodeService(db)

	user := createTestUser(t, db, "nova")
	user.IsPremium = true
	require.NoError(t, codes.Normalize(user))
	require.NoError(t, db.Save(user).Error)

	identity, err := codes.ValidateCode("vynn-nova")
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
}

func TestValidateCodeRejectsMalformedBeforeLookup(t *testing.T) {
	db := setupTestDB(t)
	codes := NewReferralCodeService(db)

	for _, bad := range []string{"", "nope", "VYNN-", "VYNN-AB!?", "ABCD-1234"} {
		_, err := codes.ValidateCode(bad)
		assert.ErrorIs(t, err, ErrInvalidCode, "input %q", bad)
	}
}

func TestValidateCodeUnknown(t *testing.T) {
	db := setupTestDB(t)
	codes := NewReferralCodeService(db)

	_, err := codes.ValidateCode("VYNN-ZZZZ")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecordClick(t *testing.T) {
	db := setupTestDB(t)
	codes := NewReferralCodeService(db)

	user := createTestUser(t, db, "nova")
	require.NoError(t, codes.RecordClick(user.ReferralCode))
	require.NoError(t, codes.RecordClick("VYNN-ZZZZ")) // unknown code is a silent miss

	got := reloadUser(t, db, user.ID)
	assert.EqualValues(t, 1, got.ReferralClicks)
}
