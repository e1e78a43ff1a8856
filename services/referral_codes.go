package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"vynn-profile-system/models"

	"gorm.io/gorm"
)

const (
	referralCodePrefix = "VYNN-"
	codeAlphabet       = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength         = 4
)

// ReferralCodeService issues and validates referral codes across the whole
// user table. Standard codes are VYNN- plus 4 random chars; premium codes
// are VYNN-<UPPERCASED USERNAME>.
type ReferralCodeService struct {
	DB *gorm.DB
}

func NewReferralCodeService(db *gorm.DB) *ReferralCodeService {
	return &ReferralCodeService{DB: db}
}

func randomReferralCode() (string, error) {
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	suffix := make([]byte, codeLength)
	for i, v := range b {
		suffix[i] = codeAlphabet[int(v)%len(codeAlphabet)]
	}
	return referralCodePrefix + string(suffix), nil
}

// codeTaken reports whether any user already holds the code, as either a
// standard or a premium code.
func (s *ReferralCodeService) codeTaken(code string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.User{}).
		Where("referral_code = ? OR premium_referral_code = ?", code, code).
		Count(&count).Error
	return count > 0, err
}

// GenerateReferralCode assigns a unique standard code, re-rolling on
// collision. Idempotent: an already-assigned code is returned as-is. The
// assignment is in-memory — the caller's save persists it.
func (s *ReferralCodeService) GenerateReferralCode(user *models.User) (string, error) {
	if user.ReferralCode != "" {
		return user.ReferralCode, nil
	}

	// 36^4 candidates against the real population; collisions re-roll.
	for {
		code, err := randomReferralCode()
		if err != nil {
			return "", err
		}
		taken, err := s.codeTaken(code)
		if err != nil {
			return "", err
		}
		if !taken {
			user.ReferralCode = code
			return code, nil
		}
	}
}

// GeneratePremiumReferralCode derives VYNN-<USERNAME> for premium users.
// Returns "" without assigning when the user is not premium, has no
// username yet, or (dead path — registration keeps usernames unique) the
// derived code already belongs to someone else.
func (s *ReferralCodeService) GeneratePremiumReferralCode(user *models.User) (string, error) {
	if !user.IsPremium || user.Username == "" {
		return "", nil
	}
	if user.PremiumReferralCode != nil && *user.PremiumReferralCode != "" {
		return *user.PremiumReferralCode, nil
	}

	code := referralCodePrefix + strings.ToUpper(user.Username)

	var owner models.User
	err := s.DB.Where("referral_code = ? OR premium_referral_code = ?", code, code).
		First(&owner).Error
	switch {
	case err == nil && owner.ID != user.ID:
		return "", nil
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return "", err
	}

	user.PremiumReferralCode = &code
	return code, nil
}

// Normalize provisions any codes the user is entitled to but does not yet
// hold. Every mutating operation calls this before its write, so a user can
// never persist without a referral code past account creation.
func (s *ReferralCodeService) Normalize(user *models.User) error {
	if user.ReferralCode == "" {
		if _, err := s.GenerateReferralCode(user); err != nil {
			return err
		}
	}
	if user.IsPremium && user.Username != "" &&
		(user.PremiumReferralCode == nil || *user.PremiumReferralCode == "") {
		if _, err := s.GeneratePremiumReferralCode(user); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCode resolves a code to its owner's public identity. Input is
// rejected before any lookup when malformed; lookup is case-insensitive
// because stored codes are always uppercase. The caller cannot tell whether
// a standard or a premium code matched.
func (s *ReferralCodeService) ValidateCode(code string) (*models.PublicIdentity, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) <= len(referralCodePrefix) || !strings.HasPrefix(normalized, referralCodePrefix) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	// Premium codes carry the username, which may include underscores.
	for _, r := range normalized[len(referralCodePrefix):] {
		if r != '_' && !strings.ContainsRune(codeAlphabet, r) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCode, code)
		}
	}

	var owner models.User
	if err := s.DB.Where("referral_code = ? OR premium_referral_code = ?", normalized, normalized).
		First(&owner).Error; err != nil {
		return nil, err
	}

	identity := owner.Identity()
	return &identity, nil
}

// RecordClick bumps the click counter on the code owner's stats. Unknown
// codes are counted as a miss, not an error.
func (s *ReferralCodeService) RecordClick(code string) error {
	identity, err := s.ValidateCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.DB.Model(&models.User{}).
		Where("id = ?", identity.ID).
		UpdateColumn("referral_clicks", gorm.Expr("referral_clicks + 1")).Error
}
