package models

import "github.com/shopspring/decimal"

type OrderItem struct {
	Base
	OrderID    string          `gorm:"type:varchar(36);not null;index" json:"orderId"`
	MenuItemID string          `gorm:"type:varchar(36);not null;index" json:"menuItemId"`
	MenuItem   *MenuItem       `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menuItem,omitempty"`
	PortionID  *string         `gorm:"type:varchar(36)" json:"portionId,omitempty"`
	Portion    *MenuPortion    `gorm:"foreignKey:PortionID;references:ID" json:"portion,omitempty"`
	Qty        int             `gorm:"not null" json:"qty"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
}

func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}
