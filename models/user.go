package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the aggregate root: identity, progression, economy and referral
// state live on one row (denormalized counters for cheap reads).
type User struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Tag          string `gorm:"size:4;not null" json:"tag"` // display discriminator, e.g. nova#0412
	PasswordHash string `gorm:"not null" json:"-"`

	// Progression
	XP    int64 `json:"xp" gorm:"default:0"`
	Level int   `json:"level" gorm:"default:1"`

	// Economy
	Credits int64 `json:"credits" gorm:"default:0"`

	// Profile
	Views      int64 `json:"views" gorm:"default:0"` // incremented by the public profile route, read-only everywhere else
	IsPremium  bool  `json:"is_premium" gorm:"default:false"`
	IsVerified bool  `json:"is_verified" gorm:"default:false"`

	// Referral codes. ReferralCode is provisioned before the first write
	// past account creation; PremiumReferralCode only once the user is
	// premium and has a username, and is never cleared afterwards.
	ReferralCode        string  `gorm:"uniqueIndex" json:"referral_code"`
	PremiumReferralCode *string `gorm:"uniqueIndex" json:"premium_referral_code,omitempty"`
	ReferredByID        *string `gorm:"index" json:"referred_by_id,omitempty"`
	ReferredByCode      string  `json:"referred_by_code,omitempty"`

	// Referral stats (denormalized counters)
	TotalReferrals     int64 `json:"total_referrals" gorm:"default:0"`
	ActiveReferrals    int64 `json:"active_referrals" gorm:"default:0"`
	TotalXPEarned      int64 `json:"total_xp_earned" gorm:"default:0"`
	TotalCreditsEarned int64 `json:"total_credits_earned" gorm:"default:0"`
	ReferralClicks     int64 `json:"referral_clicks" gorm:"default:0"`

	// Discord link — populated from the membership provider, never computed here
	DiscordID        *string `gorm:"index" json:"discord_id,omitempty"`
	DiscordUsername  string  `json:"discord_username,omitempty"`
	DiscordIsBooster bool    `json:"discord_is_booster" gorm:"default:false"`

	Timestamps
}

// PublicIdentity is what referral-code validation exposes about the code
// owner. It never reveals which code type matched.
type PublicIdentity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Tag      string `json:"tag"`
}

func (u *User) Identity() PublicIdentity {
	return PublicIdentity{ID: u.ID, Username: u.Username, Tag: u.Tag}
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
