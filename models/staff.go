package models

// Staff mirrors the identity provider's staff directory. Credentials are not
// stored here.
type Staff struct {
	Base
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Role     string `gorm:"type:varchar(20);not null" json:"role"`
	BranchID string `gorm:"type:varchar(36);not null;index" json:"branchId"`
}
