package services

import (
	"fmt"
	"log"
	"math"

	"vynn-profile-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerService owns balance mutations (XP, credits, referral edges) for a
// single user row. Every operation is one read-modify-write of that row; no
// optimistic lock, last writer wins at the row level.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// levelForXP: level = floor(sqrt(xp / 100)) + 1
func levelForXP(xp int64) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(xp)/100)) + 1
}

// AddXP adds XP and recomputes the level. Amounts are not validated —
// callers that care (the admin surface) validate before calling.
func (s *LedgerService) AddXP(userID string, amount int64) (*models.User, error) {
	var updated *models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		user.XP += amount
		user.Level = levelForXP(user.XP)

		if err := NewReferralCodeService(tx).Normalize(&user); err != nil {
			return err
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		updated = &models.User{}
		*updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("🎮 [LEDGER] XP +%d → %s (xp=%d, level=%d)", amount, userID, updated.XP, updated.Level)
	return updated, nil
}

// AddReferralXP adds XP that came from the referral program, keeping the
// referral stats counter in step.
func (s *LedgerService) AddReferralXP(userID string, amount int64) (*models.User, error) {
	var updated *models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		user.XP += amount
		user.Level = levelForXP(user.XP)
		user.TotalXPEarned += amount

		if err := NewReferralCodeService(tx).Normalize(&user); err != nil {
			return err
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		updated = &models.User{}
		*updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddCredits credits the balance and appends an "earned" history row.
// Referral-sourced credits also bump the referral stats counter.
func (s *LedgerService) AddCredits(userID string, amount int64, source models.CreditSource, description string, relatedItem *string) (*models.User, error) {
	var updated *models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		user.Credits += amount
		if source == models.CreditSourceReferral {
			user.TotalCreditsEarned += amount
		}

		entry := models.CreditTransaction{
			ID:          uuid.NewString(),
			UserID:      user.ID,
			Amount:      amount,
			Type:        models.CreditTypeEarned,
			Source:      source,
			Description: description,
			RelatedItem: relatedItem,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		if err := NewReferralCodeService(tx).Normalize(&user); err != nil {
			return err
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		updated = &models.User{}
		*updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("💰 [LEDGER] Credits +%d (%s) → %s (balance=%d)", amount, source, userID, updated.Credits)
	return updated, nil
}

// SpendCredits debits the balance. Fails with ErrInsufficientCredits before
// any mutation when the balance cannot cover the amount.
func (s *LedgerService) SpendCredits(userID string, amount int64, relatedItem *string, description string) (*models.User, error) {
	var updated *models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		if user.Credits < amount {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientCredits, user.Credits, amount)
		}
		user.Credits -= amount

		entry := models.CreditTransaction{
			ID:          uuid.NewString(),
			UserID:      user.ID,
			Amount:      amount,
			Type:        models.CreditTypeSpent,
			Source:      models.CreditSourcePurchase,
			Description: description,
			RelatedItem: relatedItem,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		if err := NewReferralCodeService(tx).Normalize(&user); err != nil {
			return err
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		updated = &models.User{}
		*updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("💸 [LEDGER] Credits -%d → %s (balance=%d)", amount, userID, updated.Credits)
	return updated, nil
}

// AddReferral records the referrer→referred edge and bumps the referrer's
// counters. It is a no-op when the referred user already has an edge.
// Rewards (XP/credits) are granted by the caller, not here.
func (s *LedgerService) AddReferral(referrerID, referredID, codeUsed string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Referral{}).
			Where("referred_id = ?", referredID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil // already recorded
		}

		edge := models.Referral{
			ID:            uuid.NewString(),
			ReferrerID:    referrerID,
			ReferredID:    referredID,
			CodeUsed:      codeUsed,
			RewardClaimed: true,
		}
		if err := tx.Create(&edge).Error; err != nil {
			return err
		}

		var referrer models.User
		if err := tx.First(&referrer, "id = ?", referrerID).Error; err != nil {
			return err
		}
		referrer.TotalReferrals++
		referrer.ActiveReferrals++

		if err := NewReferralCodeService(tx).Normalize(&referrer); err != nil {
			return err
		}
		if err := tx.Save(&referrer).Error; err != nil {
			return err
		}

		log.Printf("🤝 [LEDGER] Referral recorded: %s → %s (code=%s, total=%d)",
			referrerID, referredID, codeUsed, referrer.TotalReferrals)
		return nil
	})
}

// GetCreditHistory returns the user's history, newest first.
func (s *LedgerService) GetCreditHistory(userID string, page, size int) ([]models.CreditTransaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	var total int64
	if err := s.DB.Model(&models.CreditTransaction{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.CreditTransaction
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&entries).Error
	return entries, total, err
}
