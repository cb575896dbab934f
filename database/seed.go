package database

import (
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/dinein/models"
	"github.com/yeremiapane/dinein/utils"
	"gorm.io/gorm"
)

// Demo holds the ids of the rows written by Seed.
type Demo struct {
	BranchID    string
	TableIDs    []string
	KitchenID   string
	CaptainID   string
	AdminID     string
	MenuItemIDs []string
}

// Seed writes one demo branch with an area, four tables, a staff member per
// role and a small menu. It is meant for local runs against an empty store.
func Seed(db *gorm.DB) (*Demo, error) {
	demo := &Demo{}
	err := db.Transaction(func(tx *gorm.DB) error {
		branch := models.Branch{Name: "Main Street", CurrencyCode: "INR", CurrencySymbol: "₹"}
		if err := tx.Create(&branch).Error; err != nil {
			return err
		}
		demo.BranchID = branch.ID

		area := models.Area{BranchID: branch.ID, Name: "Ground Floor"}
		if err := tx.Create(&area).Error; err != nil {
			return err
		}
		for _, number := range []string{"1", "2", "3", "4"} {
			table := models.Table{AreaID: area.ID, TableNumber: number, IsActive: true}
			if err := tx.Create(&table).Error; err != nil {
				return err
			}
			demo.TableIDs = append(demo.TableIDs, table.ID)
		}

		staff := []*models.Staff{
			{Name: "Kitchen", Role: utils.RoleKitchen, BranchID: branch.ID},
			{Name: "Captain", Role: utils.RoleCaptain, BranchID: branch.ID},
			{Name: "Admin", Role: utils.RoleAdmin, BranchID: branch.ID},
		}
		for _, s := range staff {
			if err := tx.Create(s).Error; err != nil {
				return err
			}
		}
		demo.KitchenID, demo.CaptainID, demo.AdminID = staff[0].ID, staff[1].ID, staff[2].ID

		category := models.MenuCategory{BranchID: branch.ID, Name: "Starters", SortOrder: 1}
		if err := tx.Create(&category).Error; err != nil {
			return err
		}
		items := []models.MenuItem{
			{
				CategoryID:  category.ID,
				Name:        "Paneer Tikka",
				BasePrice:   decimal.NewFromInt(120),
				IsAvailable: true,
				Portions: []models.MenuPortion{
					{Label: "Half", Price: decimal.NewFromInt(120)},
					{Label: "Full", Price: decimal.NewFromInt(220)},
				},
			},
			{CategoryID: category.ID, Name: "Masala Papad", BasePrice: decimal.NewFromInt(60), IsAvailable: true},
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
			demo.MenuItemIDs = append(demo.MenuItemIDs, items[i].ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.WithField("branch_id", demo.BranchID).Info("demo data seeded")
	return demo, nil
}
