package models

type MenuCategory struct {
	Base
	BranchID  string     `gorm:"type:varchar(36);not null;index" json:"branchId"`
	Name      string     `gorm:"type:varchar(100);not null" json:"name"`
	SortOrder int        `gorm:"not null;default:0" json:"sortOrder"`
	Items     []MenuItem `gorm:"foreignKey:CategoryID" json:"items,omitempty"`
}
