package services

import (
	"context"
	"errors"
	"log"

	"vynn-profile-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberInfo is the membership snapshot the provider exposes.
type MemberInfo struct {
	IsMember  bool `json:"is_member"`
	IsBooster bool `json:"is_booster"`
}

// MemberInfoProvider is the narrow contract to the Discord-side collaborator.
// Implementations return ErrUpstreamUnavailable on failures other than
// "account unknown" (which maps to a zero MemberInfo).
type MemberInfoProvider interface {
	GetMemberInfo(ctx context.Context, externalID string) (MemberInfo, error)
}

// BadgeSyncService reconciles externally-sourced membership state into the
// user's badge set. This is the one place a badge can be revoked
// automatically — milestone badges are permanent, sync badges are not.
type BadgeSyncService struct {
	DB       *gorm.DB
	Provider MemberInfoProvider
}

func NewBadgeSyncService(db *gorm.DB, provider MemberInfoProvider) *BadgeSyncService {
	return &BadgeSyncService{DB: db, Provider: provider}
}

// SyncDiscordBadges reconciles the two Discord system badges for one user.
// Errors are logged and swallowed; the caller observes no failure either way.
func (s *BadgeSyncService) SyncDiscordBadges(ctx context.Context, userID string) {
	if err := s.sync(ctx, userID); err != nil {
		log.Printf("⚠️ [BADGE_SYNC] sync for %s skipped: %v", userID, err)
	}
}

func (s *BadgeSyncService) sync(ctx context.Context, userID string) error {
	if s.Provider == nil {
		return nil // provider not configured
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}
	if user.DiscordID == nil || *user.DiscordID == "" {
		return nil // nothing linked, nothing to reconcile
	}

	info, err := s.Provider.GetMemberInfo(ctx, *user.DiscordID)
	if err != nil {
		return err
	}

	changed := false
	states := []struct {
		systemKey string
		want      bool
	}{
		{models.SystemKeyDiscordMember, info.IsMember},
		{models.SystemKeyDiscordBooster, info.IsBooster},
	}
	for _, st := range states {
		applied, err := s.reconcile(user.ID, st.systemKey, st.want)
		if err != nil {
			return err
		}
		changed = changed || applied
	}

	if user.DiscordIsBooster != info.IsBooster {
		user.DiscordIsBooster = info.IsBooster
		changed = true
	}

	if changed {
		if err := NewReferralCodeService(s.DB).Normalize(&user); err != nil {
			return err
		}
		if err := s.DB.Save(&user).Error; err != nil {
			return err
		}
		log.Printf("🔁 [BADGE_SYNC] %s reconciled (member=%t, booster=%t)", user.ID, info.IsMember, info.IsBooster)
	}
	return nil
}

// reconcile adds the badge when wanted and absent, removes it when unwanted
// and present. Reports whether anything changed.
func (s *BadgeSyncService) reconcile(userID, systemKey string, want bool) (bool, error) {
	var badge models.Badge
	if err := s.DB.First(&badge, "system_key = ?", systemKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil // catalog not seeded with this one
		}
		return false, err
	}

	var existing models.UserBadge
	err := s.DB.Where("user_id = ? AND badge_id = ?", userID, badge.ID).First(&existing).Error
	has := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	switch {
	case want && !has:
		grant := models.UserBadge{ID: uuid.NewString(), UserID: userID, BadgeID: badge.ID}
		return true, s.DB.Create(&grant).Error
	case !want && has:
		return true, s.DB.Delete(&existing).Error
	}
	return false, nil
}
