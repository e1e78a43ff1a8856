package services

import (
	"context"

	"gorm.io/gorm"
)

// BadgeOrchestrator composes badge sync and the milestone checks on the
// triggers that can change badge-relevant state: registration, login,
// current-user fetch, premium/verification changes, store purchases.
type BadgeOrchestrator struct {
	Sync    *BadgeSyncService
	Rewards *RewardService
}

func NewBadgeOrchestrator(db *gorm.DB, provider MemberInfoProvider) *BadgeOrchestrator {
	return &BadgeOrchestrator{
		Sync:    NewBadgeSyncService(db, provider),
		Rewards: NewRewardService(db),
	}
}

// RunAll executes the three checks in a fixed order. Each step re-fetches
// the user and swallows its own failures, so one failing step never blocks
// the next — or the request that triggered the run.
func (o *BadgeOrchestrator) RunAll(ctx context.Context, userID string) {
	o.Sync.SyncDiscordBadges(ctx, userID)
	o.Rewards.CheckReferralBadges(userID)
	o.Rewards.CheckViewBadges(userID)
}
