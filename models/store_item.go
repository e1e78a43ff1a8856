package models

// StoreItem is a purchasable catalog entry in the credit store. Price is in
// credits (integer, no fractional currency on the platform).
type StoreItem struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"type:text" json:"image_url"`
	Price       int64  `gorm:"not null" json:"price"`
	Active      bool   `gorm:"default:true;index" json:"active"`

	Timestamps
}
