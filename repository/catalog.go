package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/dinein/models"
	"gorm.io/gorm"
)

// MenuItemPatch holds the optional fields of a menu item update.
type MenuItemPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	BasePrice   *decimal.Decimal `json:"basePrice"`
	IsAvailable *bool            `json:"isAvailable"`
}

func (p MenuItemPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.BasePrice != nil {
		cols["base_price"] = *p.BasePrice
	}
	if p.IsAvailable != nil {
		cols["is_available"] = *p.IsAvailable
	}
	return cols
}

func branchItems(db *gorm.DB, branchID string) *gorm.DB {
	return db.
		Joins("JOIN menu_categories ON menu_categories.id = menu_items.category_id").
		Where("menu_categories.branch_id = ?", branchID)
}

// MenuItemPrice returns the current base price of a menu item of branchID.
func (s *Store) MenuItemPrice(ctx context.Context, branchID, itemID string) (decimal.Decimal, error) {
	var prices []decimal.Decimal
	err := branchItems(s.conn(ctx).Model(&models.MenuItem{}), branchID).
		Where("menu_items.id = ?", itemID).
		Limit(1).
		Pluck("menu_items.base_price", &prices).Error
	if err != nil {
		return decimal.Zero, err
	}
	if len(prices) == 0 {
		return decimal.Zero, ErrNotFound
	}
	return prices[0], nil
}

// PortionPrice returns the price of a portion that belongs to itemID, an
// item of branchID.
func (s *Store) PortionPrice(ctx context.Context, branchID, itemID, portionID string) (decimal.Decimal, error) {
	var prices []decimal.Decimal
	err := branchItems(s.conn(ctx).Model(&models.MenuPortion{}).
		Joins("JOIN menu_items ON menu_items.id = menu_portions.menu_item_id"), branchID).
		Where("menu_portions.id = ? AND menu_portions.menu_item_id = ?", portionID, itemID).
		Limit(1).
		Pluck("menu_portions.price", &prices).Error
	if err != nil {
		return decimal.Zero, err
	}
	if len(prices) == 0 {
		return decimal.Zero, ErrNotFound
	}
	return prices[0], nil
}

// BranchMenu lists the branch's categories with their available items.
func (s *Store) BranchMenu(ctx context.Context, branchID string) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	err := s.conn(ctx).
		Where("branch_id = ?", branchID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = ?", true).Order("name ASC")
		}).
		Preload("Items.Portions").
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	return categories, err
}

func (s *Store) FindMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.conn(ctx).Preload("Portions").First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// MenuItemBranch returns the branch owning the item's category.
func (s *Store) MenuItemBranch(ctx context.Context, itemID string) (string, error) {
	var branchIDs []string
	err := s.conn(ctx).Model(&models.MenuItem{}).
		Joins("JOIN menu_categories ON menu_categories.id = menu_items.category_id").
		Where("menu_items.id = ?", itemID).
		Limit(1).
		Pluck("menu_categories.branch_id", &branchIDs).Error
	if err != nil {
		return "", err
	}
	if len(branchIDs) == 0 {
		return "", ErrNotFound
	}
	return branchIDs[0], nil
}

func (s *Store) UpdateMenuItem(ctx context.Context, id string, patch MenuItemPatch) (*models.MenuItem, error) {
	if cols := patch.columns(); len(cols) > 0 {
		if err := s.conn(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return nil, err
		}
	}
	return s.FindMenuItem(ctx, id)
}
