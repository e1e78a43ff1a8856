package services

import (
	"errors"
	"fmt"
	"log"

	"vynn-profile-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Milestone is one row of a static reward table.
type Milestone struct {
	Threshold    int64
	BadgeSlug    string
	XPReward     int64
	CreditReward int64
}

// ReferralMilestones is keyed on cumulative total_referrals.
var ReferralMilestones = []Milestone{
	{Threshold: 5, BadgeSlug: "recruiter", XPReward: 500, CreditReward: 100},
	{Threshold: 25, BadgeSlug: "ambassador", XPReward: 2500, CreditReward: 500},
	{Threshold: 100, BadgeSlug: "legend", XPReward: 10000, CreditReward: 2000},
	{Threshold: 500, BadgeSlug: "icon", XPReward: 25000, CreditReward: 5000},
	{Threshold: 1000, BadgeSlug: "titan", XPReward: 50000, CreditReward: 10000},
	{Threshold: 2500, BadgeSlug: "warlord", XPReward: 100000, CreditReward: 25000},
	{Threshold: 5000, BadgeSlug: "emperor", XPReward: 250000, CreditReward: 50000},
	{Threshold: 10000, BadgeSlug: "godlike", XPReward: 1000000, CreditReward: 100000},
}

// ViewMilestones is keyed on cumulative profile views. Views are owned by
// the profile route; this engine only reads the count.
var ViewMilestones = []Milestone{
	{Threshold: 500, BadgeSlug: "observer", XPReward: 500},
	{Threshold: 1000, BadgeSlug: "rising-star", XPReward: 1000},
	{Threshold: 2500, BadgeSlug: "socialite", XPReward: 2500},
	{Threshold: 5000, BadgeSlug: "influencer", XPReward: 5000},
	{Threshold: 10000, BadgeSlug: "superstar", XPReward: 10000},
	{Threshold: 25000, BadgeSlug: "celebrity", XPReward: 25000},
	{Threshold: 50000, BadgeSlug: "internet-sensation", XPReward: 50000},
	{Threshold: 100000, BadgeSlug: "world-class", XPReward: 100000},
}

// RewardService evaluates milestone tables and triggers one-time awards.
// Failures are logged and swallowed at this boundary: awards applied before
// a failure stay committed, the rest of the pass is abandoned (at-least-once,
// no rollback).
type RewardService struct {
	DB *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db}
}

// CheckReferralBadges awards every referral milestone the user has crossed
// but not yet received.
func (s *RewardService) CheckReferralBadges(userID string) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("⚠️ [REWARDS] referral check: user %s not loadable: %v", userID, err)
		return
	}
	if err := s.checkMilestones(&user, user.TotalReferrals, ReferralMilestones); err != nil {
		log.Printf("⚠️ [REWARDS] referral badge check for %s abandoned: %v", userID, err)
	}
}

// CheckViewBadges awards every view milestone the user has crossed but not
// yet received.
func (s *RewardService) CheckViewBadges(userID string) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("⚠️ [REWARDS] view check: user %s not loadable: %v", userID, err)
		return
	}
	if err := s.checkMilestones(&user, user.Views, ViewMilestones); err != nil {
		log.Printf("⚠️ [REWARDS] view badge check for %s abandoned: %v", userID, err)
	}
}

// checkMilestones runs the full table: every entry at or below the current
// count is eligible. The loop never breaks early, so a user fast-forwarded
// past several thresholds catches up on all of them in one pass. Unseeded
// badges and badges already held are skipped.
func (s *RewardService) checkMilestones(user *models.User, current int64, table []Milestone) error {
	ledger := NewLedgerService(s.DB)
	awarded := 0

	for _, m := range table {
		if current < m.Threshold {
			continue
		}

		var badge models.Badge
		if err := s.DB.First(&badge, "slug = ?", m.BadgeSlug).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // catalog not seeded with this one yet
			}
			return err
		}

		var held int64
		if err := s.DB.Model(&models.UserBadge{}).
			Where("user_id = ? AND badge_id = ?", user.ID, badge.ID).
			Count(&held).Error; err != nil {
			return err
		}
		if held > 0 {
			continue
		}

		// Badge membership first, then rewards — each its own write, so a
		// failure mid-pass leaves earlier awards committed.
		grant := models.UserBadge{ID: uuid.NewString(), UserID: user.ID, BadgeID: badge.ID}
		if err := s.DB.Create(&grant).Error; err != nil {
			return err
		}
		if m.XPReward > 0 {
			if _, err := ledger.AddXP(user.ID, m.XPReward); err != nil {
				return err
			}
		}
		if m.CreditReward > 0 {
			desc := fmt.Sprintf("Unlocked the %s badge", badge.Name)
			if _, err := ledger.AddCredits(user.ID, m.CreditReward, models.CreditSourceAchievement, desc, nil); err != nil {
				return err
			}
		}

		awarded++
		log.Printf("🎖️ [REWARDS] Badge awarded: %s → %s (threshold %d)", badge.Name, user.ID, m.Threshold)
	}

	if awarded > 0 {
		// Touch the user row so the aggregate's updated_at reflects the
		// badge change even when the milestone carried no credit reward.
		if err := s.DB.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error; err != nil {
			return err
		}
	}
	return nil
}
