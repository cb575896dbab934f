package models

type Branch struct {
	Base
	Name           string `gorm:"type:varchar(255);not null" json:"name"`
	CurrencyCode   string `gorm:"type:varchar(3);not null" json:"currencyCode"`
	CurrencySymbol string `gorm:"type:varchar(8);not null" json:"currencySymbol"`
}

type Area struct {
	Base
	BranchID string  `gorm:"type:varchar(36);not null;index" json:"branchId"`
	Branch   *Branch `gorm:"foreignKey:BranchID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"branch,omitempty"`
	Name     string  `gorm:"type:varchar(100);not null" json:"name"`
}
