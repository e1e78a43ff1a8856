package models

import "time"

// Referral is one referrer→referred edge. The unique index on ReferredID
// makes the add idempotent: a user can only ever be referred once.
type Referral struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	ReferrerID string `gorm:"index;not null" json:"referrer_id"`
	ReferredID string `gorm:"uniqueIndex;not null" json:"referred_id"`

	CodeUsed      string    `gorm:"not null" json:"code_used"`
	RewardClaimed bool      `gorm:"default:false" json:"reward_claimed"`
	ReferredAt    time.Time `gorm:"autoCreateTime" json:"referred_at"`
}
