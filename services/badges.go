package services

import (
	"errors"
	"fmt"
	"log"
	"os"

	"vynn-profile-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BadgeService owns the badge catalog: the idempotent system seed and the
// admin surface. System badges keep their name and slug for life.
type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// LoadCatalog returns the badge catalog to seed: the YAML override file when
// a path is given, the built-in table otherwise.
func LoadCatalog(path string) ([]models.Badge, error) {
	if path == "" {
		return models.SystemBadgeCatalog, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading badge catalog %s: %w", path, err)
	}
	var catalog []models.Badge
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parsing badge catalog %s: %w", path, err)
	}
	return catalog, nil
}

// SeedSystemBadges upserts the catalog keyed by name, so deployments
// self-heal missing or drifted entries. Callable any number of times.
func (s *BadgeService) SeedSystemBadges(catalog []models.Badge) error {
	for _, b := range catalog {
		b.ID = uuid.NewString()
		if b.Slug == "" {
			b.Slug = slug.Make(b.Name)
		}
		if err := s.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"slug", "system_key", "is_system", "description", "icon", "color", "category",
			}),
		}).Create(&b).Error; err != nil {
			return fmt.Errorf("seeding badge %q: %w", b.Name, err)
		}
	}
	log.Printf("✅ [BADGES] Catalog seeded (%d entries)", len(catalog))
	return nil
}

// CreateBadge adds a custom (non-system) badge; the slug derives from the name.
func (s *BadgeService) CreateBadge(name, description, icon, color, category string) (*models.Badge, error) {
	badge := models.Badge{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: description,
		Icon:        icon,
		Color:       color,
		Category:    category,
	}
	if err := s.DB.Create(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

// BadgeUpdate carries optional admin edits. Name changes re-derive the slug.
type BadgeUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	Category    *string `json:"category"`
}

func (s *BadgeService) UpdateBadge(id string, update BadgeUpdate) (*models.Badge, error) {
	var badge models.Badge
	if err := s.DB.First(&badge, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if update.Name != nil && *update.Name != badge.Name {
		if badge.IsSystem {
			return nil, ErrSystemBadgeImmutable
		}
		badge.Name = *update.Name
		badge.Slug = slug.Make(*update.Name)
	}
	if update.Description != nil {
		badge.Description = *update.Description
	}
	if update.Icon != nil {
		badge.Icon = *update.Icon
	}
	if update.Color != nil {
		badge.Color = *update.Color
	}
	if update.Category != nil {
		badge.Category = *update.Category
	}

	if err := s.DB.Save(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

func (s *BadgeService) DeleteBadge(id string) error {
	var badge models.Badge
	if err := s.DB.First(&badge, "id = ?", id).Error; err != nil {
		return err
	}
	if badge.IsSystem {
		return ErrSystemBadgeImmutable
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("badge_id = ?", badge.ID).Delete(&models.UserBadge{}).Error; err != nil {
			return err
		}
		return tx.Delete(&badge).Error
	})
}

func (s *BadgeService) ListBadges() ([]models.Badge, error) {
	var badges []models.Badge
	err := s.DB.Order("category, name").Find(&badges).Error
	return badges, err
}

// GetUserBadges returns the full badge rows a user holds, newest first.
func (s *BadgeService) GetUserBadges(userID string) ([]models.Badge, error) {
	var badges []models.Badge
	err := s.DB.
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.awarded_at DESC").
		Find(&badges).Error
	return badges, err
}

// HasBadge checks membership by slug.
func (s *BadgeService) HasBadge(userID, badgeSlug string) (bool, error) {
	var badge models.Badge
	if err := s.DB.First(&badge, "slug = ?", badgeSlug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	var count int64
	err := s.DB.Model(&models.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badge.ID).
		Count(&count).Error
	return count > 0, err
}
