package models

import "time"

// CreditTransactionType classifies the direction of a ledger entry
type CreditTransactionType string

const (
	CreditTypeEarned CreditTransactionType = "earned"
	CreditTypeSpent  CreditTransactionType = "spent"
	CreditTypeRefund CreditTransactionType = "refund"
	CreditTypeAdmin  CreditTransactionType = "admin"
)

// CreditSource records what produced the entry
type CreditSource string

const (
	CreditSourceReferral    CreditSource = "referral"
	CreditSourcePurchase    CreditSource = "purchase"
	CreditSourceLevelUp     CreditSource = "level_up"
	CreditSourceAchievement CreditSource = "achievement"
	CreditSourceAdmin       CreditSource = "admin"
	CreditSourceSignupBonus CreditSource = "signup_bonus"
	CreditSourceDaily       CreditSource = "daily"
	CreditSourceTransfer    CreditSource = "transfer"
)

// CreditTransaction is one row of the append-only credit history. Rows are
// never updated or deleted.
type CreditTransaction struct {
	ID          string                `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string                `gorm:"index;not null" json:"user_id"`
	Amount      int64                 `gorm:"not null" json:"amount"`
	Type        CreditTransactionType `gorm:"type:varchar(16);not null" json:"type"`
	Source      CreditSource          `gorm:"type:varchar(32);not null" json:"source"`
	Description string                `gorm:"type:text" json:"description"`
	RelatedItem *string               `json:"related_item,omitempty"`
	CreatedAt   time.Time             `gorm:"autoCreateTime;index" json:"created_at"`
}
