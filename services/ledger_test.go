package services

import (
	"testing"

	"vynn-profile-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddThenSpendLeavesBalanceUnchanged(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	ledger := NewLedgerService(db)

	_, err := ledger.AddCredits(user.ID, 150, models.CreditSourceDaily, "daily bonus", nil)
	require.NoError(t, err)

	_, err = ledger.SpendCredits(user.ID, 150, nil, "impulse buy")
	require.NoError(t, err)

	got := reloadUser(t, db, user.ID)
	assert.EqualValues(t, 0, got.Credits)

	var history []models.CreditTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("created_at").Find(&history).Error)
	require.Len(t, history, 2)
	assert.Equal(t, models.CreditTypeEarned, history[0].Type)
	assert.Equal(t, models.CreditTypeSpent, history[1].Type)
	assert.Equal(t, models.CreditSourcePurchase, history[1].Source)
}

func TestSpendCreditsRejectsUnderflow(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "bob")
	ledger := NewLedgerService(db)

	_, err := ledger.AddCredits(user.ID, 30, models.CreditSourceAdmin, "seed", nil)
	require.NoError(t, err)

	_, err = ledger.SpendCredits(user.ID, 31, nil, "too expensive")
	require.ErrorIs(t, err, ErrInsufficientCredits)

	got := reloadUser(t, db, user.ID)
	assert.EqualValues(t, 30, got.Credits, "failed spend must not mutate the balance")

	var count int64
	require.NoError(t, db.Model(&models.CreditTransaction{}).
		Where("user_id = ? AND type = ?", user.ID, models.CreditTypeSpent).
		Count(&count).Error)
	assert.EqualValues(t, 0, count, "failed spend must not append history")
}

func TestAddXPRecomputesLevel(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "carol")
	ledger := NewLedgerService(db)

	// level = floor(sqrt(xp/100)) + 1
	cases := []struct {
		add       int64
		wantXP    int64
		wantLevel int
	}{
		{add: 50, wantXP: 50, wantLevel: 1},
		{add: 50, wantXP: 100, wantLevel: 2},
		{add: 300, wantXP: 400, wantLevel: 3},
		{add: 9600, wantXP: 10000, wantLevel: 11},
	}
	for _, tc := range cases {
		got, err := ledger.AddXP(user.ID, tc.add)
		require.NoError(t, err)
		assert.EqualValues(t, tc.wantXP, got.XP)
		assert.Equal(t, tc.wantLevel, got.Level)
	}
}

func TestAddCreditsReferralSourceBumpsStats(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "dave")
	ledger := NewLedgerService(db)

	_, err := ledger.AddCredits(user.ID, 50, models.CreditSourceReferral, "referral reward", nil)
	require.NoError(t, err)
	_, err = ledger.AddCredits(user.ID, 25, models.CreditSourceSignupBonus, "signup", nil)
	require.NoError(t, err)

	got := reloadUser(t, db, user.ID)
	assert.EqualValues(t, 75, got.Credits)
	assert.EqualValues(t, 50, got.TotalCreditsEarned, "only referral-sourced credits count toward stats")
}

func TestAddReferralIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	referrer := createTestUser(t, db, "erin")
	referred := createTestUser(t, db, "frank")
	ledger := NewLedgerService(db)

	require.NoError(t, ledger.AddReferral(referrer.ID, referred.ID, referrer.ReferralCode))
	require.NoError(t, ledger.AddReferral(referrer.ID, referred.ID, referrer.ReferralCode))

	var edges []models.Referral
	require.NoError(t, db.Where("referrer_id = ?", referrer.ID).Find(&edges).Error)
	require.Len(t, edges, 1)
	assert.Equal(t, referred.ID, edges[0].ReferredID)
	assert.True(t, edges[0].RewardClaimed)

	got := reloadUser(t, db, referrer.ID)
	assert.EqualValues(t, 1, got.TotalReferrals)
	assert.EqualValues(t, 1, got.ActiveReferrals)
}

func TestGetCreditHistoryNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "grace")
	ledger := NewLedgerService(db)

	for i := 0; i < 3; i++ {
		_, err := ledger.AddCredits(user.ID, int64(i+1), models.CreditSourceDaily, "tick", nil)
		require.NoError(t, err)
	}

	entries, total, err := ledger.GetCreditHistory(user.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, entries, 2)
}
