package services

import (
	"fmt"

	"vynn-profile-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// StoreService is the credit store: listing and purchasing. Purchases go
// through the ledger so insufficient balances are rejected before mutation.
type StoreService struct {
	DB *gorm.DB
}

func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{DB: db}
}

func (s *StoreService) ListItems() ([]models.StoreItem, error) {
	var items []models.StoreItem
	err := s.DB.Where("active = ?", true).Order("price ASC").Find(&items).Error
	return items, err
}

func (s *StoreService) GetItemBySlug(itemSlug string) (*models.StoreItem, error) {
	var item models.StoreItem
	if err := s.DB.First(&item, "slug = ? AND active = ?", itemSlug, true).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Purchase debits the item price and returns the updated user. The ledger's
// ErrInsufficientCredits propagates — the caller must see the rejection.
func (s *StoreService) Purchase(userID, itemSlug string) (*models.User, *models.StoreItem, error) {
	item, err := s.GetItemBySlug(itemSlug)
	if err != nil {
		return nil, nil, err
	}

	user, err := NewLedgerService(s.DB).SpendCredits(
		userID, item.Price, &item.Slug, fmt.Sprintf("Purchased %s", item.Name))
	if err != nil {
		return nil, nil, err
	}
	return user, item, nil
}

// CreateItem adds a store item (admin surface).
func (s *StoreService) CreateItem(name, description, imageURL string, price int64) (*models.StoreItem, error) {
	item := models.StoreItem{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: description,
		ImageURL:    imageURL,
		Price:       price,
		Active:      true,
	}
	if err := s.DB.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
