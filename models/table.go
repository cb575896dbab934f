package models

import "fmt"

type Table struct {
	Base
	AreaID      string `gorm:"type:varchar(36);not null;index" json:"areaId"`
	Area        *Area  `gorm:"foreignKey:AreaID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"area,omitempty"`
	TableNumber string `gorm:"type:varchar(50);not null" json:"tableNumber"`
	IsActive    bool   `gorm:"not null" json:"isActive"`
}

// Label is the human name shown on kitchen and captain displays. Area must be loaded.
func (t *Table) Label() string {
	if t == nil {
		return ""
	}
	if t.Area == nil {
		return fmt.Sprintf("Table %s", t.TableNumber)
	}
	return fmt.Sprintf("%s - Table %s", t.Area.Name, t.TableNumber)
}

// BranchID returns the owning branch, or "" when Area is not loaded.
func (t *Table) BranchID() string {
	if t == nil || t.Area == nil {
		return ""
	}
	return t.Area.BranchID
}
