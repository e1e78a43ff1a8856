package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"vynn-profile-system/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Signup-time referral rewards. The referee and the referrer are credited by
// two independent single-row writes — no cross-user transaction, matching
// the rest of the ledger.
const (
	RefereeSignupXP      = 50
	RefereeSignupCredits = 25
	ReferrerRewardXP     = 100
	ReferrerRewardCredit = 50
)

const tokenTTL = 72 * time.Hour

// AuthService handles registration, login and account status toggles — the
// triggers that feed the badge orchestrator.
type AuthService struct {
	DB        *gorm.DB
	JWTSecret []byte
}

func NewAuthService(db *gorm.DB, jwtSecret []byte) *AuthService {
	return &AuthService{DB: db, JWTSecret: jwtSecret}
}

type RegisterRequest struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
}

func validUsername(name string) bool {
	if len(name) < 3 || len(name) > 20 {
		return false
	}
	for _, r := range name {
		ok := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			return false
		}
	}
	return true
}

func randomTag() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// Register creates the account, provisions its referral code, and redeems
// the signup referral code when one resolves. An unknown (but well-formed)
// code does not block registration; a malformed one does.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if !validUsername(username) {
		return nil, fmt.Errorf("%w: username must be 3-20 characters of letters, digits or underscore", ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}
	if err := s.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	tag, err := randomTag()
	if err != nil {
		return nil, err
	}

	codes := NewReferralCodeService(s.DB)

	// Resolve the signup code before the account exists. Malformed input is
	// rejected; an unknown code is a no-op and registration proceeds.
	var referrer *models.PublicIdentity
	codeUsed := strings.ToUpper(strings.TrimSpace(req.ReferralCode))
	if codeUsed != "" {
		identity, err := codes.ValidateCode(codeUsed)
		switch {
		case err == nil:
			referrer = identity
		case errors.Is(err, ErrInvalidCode):
			return nil, err
		case errors.Is(err, gorm.ErrRecordNotFound):
			log.Printf("ℹ️ [AUTH] Signup code %q matched no user, ignoring", codeUsed)
		default:
			return nil, err
		}
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		Tag:          tag,
		PasswordHash: string(hash),
		Level:        1,
	}
	if referrer != nil {
		user.ReferredByID = &referrer.ID
		user.ReferredByCode = codeUsed
	}

	if err := codes.Normalize(&user); err != nil {
		return nil, err
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	log.Printf("👤 [AUTH] Registered %s#%s (%s)", user.Username, user.Tag, user.ID)

	if referrer != nil {
		s.grantSignupRewards(&user, referrer, codeUsed)
	}

	return &user, nil
}

// grantSignupRewards applies the referral reward pair. Each grant is its own
// write; a failure on one side is logged and leaves the other side intact.
func (s *AuthService) grantSignupRewards(referee *models.User, referrer *models.PublicIdentity, codeUsed string) {
	ledger := NewLedgerService(s.DB)

	if _, err := ledger.AddXP(referee.ID, RefereeSignupXP); err != nil {
		log.Printf("⚠️ [AUTH] referee XP grant failed for %s: %v", referee.ID, err)
	}
	if _, err := ledger.AddCredits(referee.ID, RefereeSignupCredits, models.CreditSourceSignupBonus,
		"Signed up with a referral code", nil); err != nil {
		log.Printf("⚠️ [AUTH] referee credit grant failed for %s: %v", referee.ID, err)
	}

	if _, err := ledger.AddReferralXP(referrer.ID, ReferrerRewardXP); err != nil {
		log.Printf("⚠️ [AUTH] referrer XP grant failed for %s: %v", referrer.ID, err)
	}
	if _, err := ledger.AddCredits(referrer.ID, ReferrerRewardCredit, models.CreditSourceReferral,
		fmt.Sprintf("Referral reward for %s#%s", referee.Username, referee.Tag), nil); err != nil {
		log.Printf("⚠️ [AUTH] referrer credit grant failed for %s: %v", referrer.ID, err)
	}
	if err := ledger.AddReferral(referrer.ID, referee.ID, codeUsed); err != nil {
		log.Printf("⚠️ [AUTH] referral record failed for %s → %s: %v", referrer.ID, referee.ID, err)
	}

	// The referrer may have just crossed a milestone.
	NewRewardService(s.DB).CheckReferralBadges(referrer.ID)
}

// Login verifies credentials against email or username and returns the user.
func (s *AuthService) Login(identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)

	var user models.User
	err := s.DB.Where("email = ? OR username = ?", strings.ToLower(identifier), identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// IssueToken mints an HS256 session token for the user.
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
}

// SetPremium toggles premium status. Turning it on provisions the premium
// referral code via the normalize step; turning it off leaves the code
// untouched — stale premium codes stay valid for lookup.
func (s *AuthService) SetPremium(userID string, premium bool) (*models.User, error) {
	return s.setFlag(userID, func(u *models.User) { u.IsPremium = premium })
}

// SetVerified toggles the verification flag.
func (s *AuthService) SetVerified(userID string, verified bool) (*models.User, error) {
	return s.setFlag(userID, func(u *models.User) { u.IsVerified = verified })
}

// LinkDiscord attaches the external account id badge sync keys on.
func (s *AuthService) LinkDiscord(userID, discordID, discordUsername string) (*models.User, error) {
	return s.setFlag(userID, func(u *models.User) {
		u.DiscordID = &discordID
		u.DiscordUsername = discordUsername
	})
}

func (s *AuthService) setFlag(userID string, mutate func(*models.User)) (*models.User, error) {
	var updated *models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		mutate(&user)
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
