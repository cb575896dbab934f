package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/dinein/repository"
	"github.com/yeremiapane/dinein/utils"
)

func TestUpdateTableDeactivatesScans(t *testing.T) {
	f := newFixture(t)

	inactive := false
	number := "1A"
	table, err := f.catalog.UpdateTable(ctx(), f.branch.ID, f.table.ID, repository.TablePatch{
		TableNumber: &number,
		IsActive:    &inactive,
	})
	require.NoError(t, err)
	assert.False(t, table.IsActive)
	assert.Equal(t, "Patio - Table 1A", table.Label())

	_, err = f.sessions.StartOrReuse(ctx(), f.table.ID)
	assert.True(t, utils.IsKind(err, utils.KindTableInactive))

	tables, err := f.catalog.Tables(ctx(), f.branch.ID)
	require.NoError(t, err)
	assert.Len(t, tables, 2)
}

func TestUpdateTableRejections(t *testing.T) {
	f := newFixture(t)

	blank := "  "
	_, err := f.catalog.UpdateTable(ctx(), f.branch.ID, f.table.ID, repository.TablePatch{TableNumber: &blank})
	assert.True(t, utils.IsKind(err, utils.KindInvalidInput))

	active := true
	_, err = f.catalog.UpdateTable(ctx(), f.branch.ID, f.otherTable.ID, repository.TablePatch{IsActive: &active})
	assert.True(t, utils.IsKind(err, utils.KindBranchMismatch))

	_, err = f.catalog.UpdateTable(ctx(), f.branch.ID, "missing", repository.TablePatch{IsActive: &active})
	assert.True(t, utils.IsKind(err, utils.KindTableNotFound))
}

func TestUpdateMenuItem(t *testing.T) {
	f := newFixture(t)

	name := "Paneer Tikka (6 pc)"
	price := decimal.NewFromInt(140)
	item, err := f.catalog.UpdateMenuItem(ctx(), f.branch.ID, f.paneer.ID, repository.MenuItemPatch{
		Name:      &name,
		BasePrice: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, name, item.Name)
	assert.True(t, price.Equal(item.BasePrice))
	assert.Len(t, item.Portions, 2)

	negative := decimal.NewFromInt(-1)
	_, err = f.catalog.UpdateMenuItem(ctx(), f.branch.ID, f.paneer.ID, repository.MenuItemPatch{BasePrice: &negative})
	assert.True(t, utils.IsKind(err, utils.KindInvalidInput))

	_, err = f.catalog.UpdateMenuItem(ctx(), f.otherBranch.ID, f.paneer.ID, repository.MenuItemPatch{Name: &name})
	assert.True(t, utils.IsKind(err, utils.KindBranchMismatch))

	_, err = f.catalog.UpdateMenuItem(ctx(), f.branch.ID, "missing", repository.MenuItemPatch{Name: &name})
	assert.True(t, utils.IsKind(err, utils.KindItemNotFound))
}
