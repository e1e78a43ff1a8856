package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAllCoversSyncAndBothMilestoneTables(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "everything")
	linkDiscord(t, db, user, "777")

	user = reloadUser(t, db, user.ID)
	user.TotalReferrals = 5
	user.Views = 500
	require.NoError(t, db.Save(user).Error)

	orch := NewBadgeOrchestrator(db, &fakeProvider{info: MemberInfo{IsMember: true, IsBooster: false}})
	orch.RunAll(context.Background(), user.ID)

	assert.ElementsMatch(t,
		[]string{"community-member", "recruiter", "observer"},
		badgeSlugsOf(t, db, user.ID))
}

func TestRunAllSurvivesProviderOutage(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "resilient")
	linkDiscord(t, db, user, "13")

	user = reloadUser(t, db, user.ID)
	user.TotalReferrals = 5
	require.NoError(t, db.Save(user).Error)

	// Sync fails; the milestone checks must still run.
	orch := NewBadgeOrchestrator(db, &fakeProvider{err: ErrUpstreamUnavailable})
	orch.RunAll(context.Background(), user.ID)

	assert.Contains(t, badgeSlugsOf(t, db, user.ID), "recruiter")
}
