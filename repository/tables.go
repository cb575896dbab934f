package repository

import (
	"context"

	"github.com/yeremiapane/dinein/models"
)

// TablePatch holds the optional fields of a table update. Nil fields are
// left untouched.
type TablePatch struct {
	TableNumber *string `json:"tableNumber"`
	IsActive    *bool   `json:"isActive"`
}

func (p TablePatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.TableNumber != nil {
		cols["table_number"] = *p.TableNumber
	}
	if p.IsActive != nil {
		cols["is_active"] = *p.IsActive
	}
	return cols
}

func (s *Store) FindTable(ctx context.Context, id string) (*models.Table, error) {
	var table models.Table
	if err := s.conn(ctx).Preload("Area").First(&table, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &table, nil
}

func (s *Store) ListTables(ctx context.Context, branchID string) ([]models.Table, error) {
	var tables []models.Table
	err := s.conn(ctx).
		Joins("JOIN areas ON areas.id = tables.area_id").
		Where("areas.branch_id = ?", branchID).
		Preload("Area").
		Order("tables.table_number ASC").
		Find(&tables).Error
	return tables, err
}

func (s *Store) UpdateTable(ctx context.Context, id string, patch TablePatch) (*models.Table, error) {
	if cols := patch.columns(); len(cols) > 0 {
		if err := s.conn(ctx).Model(&models.Table{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return nil, err
		}
	}
	return s.FindTable(ctx, id)
}
