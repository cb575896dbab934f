package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/dinein/models"
	"github.com/yeremiapane/dinein/repository"
	"github.com/yeremiapane/dinein/utils"
)

// Catalog covers the table and menu maintenance the ordering flow depends on.
type Catalog struct {
	Store *repository.Store
}

func NewCatalog(store *repository.Store) *Catalog {
	return &Catalog{Store: store}
}

func (c *Catalog) Tables(ctx context.Context, branchID string) ([]models.Table, error) {
	tables, err := c.Store.ListTables(ctx, branchID)
	if err != nil {
		return nil, utils.Internal(err, "list tables")
	}
	return tables, nil
}

// UpdateTable applies patch to a table of branchID.
func (c *Catalog) UpdateTable(ctx context.Context, branchID, tableID string, patch repository.TablePatch) (*models.Table, error) {
	if patch.TableNumber != nil && strings.TrimSpace(*patch.TableNumber) == "" {
		return nil, utils.NewError(utils.KindInvalidInput, "tableNumber must not be empty")
	}

	current, err := c.Store.FindTable(ctx, tableID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewError(utils.KindTableNotFound, "table not found")
	}
	if err != nil {
		return nil, utils.Internal(err, "load table")
	}
	if current.BranchID() != branchID {
		return nil, utils.NewError(utils.KindBranchMismatch, "table belongs to another branch")
	}

	table, err := c.Store.UpdateTable(ctx, tableID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewError(utils.KindTableNotFound, "table not found")
	}
	if err != nil {
		return nil, utils.Internal(err, "update table")
	}
	return table, nil
}

// UpdateMenuItem applies patch to a menu item of branchID. Orders already
// placed keep the prices they were placed with.
func (c *Catalog) UpdateMenuItem(ctx context.Context, branchID, itemID string, patch repository.MenuItemPatch) (*models.MenuItem, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, utils.NewError(utils.KindInvalidInput, "name must not be empty")
	}
	if patch.BasePrice != nil && patch.BasePrice.IsNegative() {
		return nil, utils.NewError(utils.KindInvalidInput, "basePrice must not be negative")
	}

	owner, err := c.Store.MenuItemBranch(ctx, itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewError(utils.KindItemNotFound, "menu item not found")
	}
	if err != nil {
		return nil, utils.Internal(err, "load menu item")
	}
	if owner != branchID {
		return nil, utils.NewError(utils.KindBranchMismatch, "menu item belongs to another branch")
	}

	item, err := c.Store.UpdateMenuItem(ctx, itemID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewError(utils.KindItemNotFound, "menu item not found")
	}
	if err != nil {
		return nil, utils.Internal(err, "update menu item")
	}
	return item, nil
}
