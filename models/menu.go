package models

import "github.com/shopspring/decimal"

type MenuItem struct {
	Base
	CategoryID  string          `gorm:"type:varchar(36);not null;index" json:"categoryId"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"basePrice"`
	IsAvailable bool            `gorm:"not null" json:"isAvailable"`
	Portions    []MenuPortion   `gorm:"foreignKey:MenuItemID" json:"portions,omitempty"`
}

// MenuPortion is a priced variant of a menu item, e.g. half or full plate.
type MenuPortion struct {
	Base
	MenuItemID string          `gorm:"type:varchar(36);not null;index" json:"menuItemId"`
	Label      string          `gorm:"type:varchar(50);not null" json:"label"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}
