package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/dinein/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errTicketMissing = errors.New("kitchen ticket missing for order")

// InsertOrder writes the order row, its item rows and its kitchen ticket.
// Call it inside Transaction so the three inserts commit or roll back together.
func (s *Store) InsertOrder(ctx context.Context, order *models.Order) error {
	items, kot := order.Items, order.Kot
	if kot == nil {
		return errTicketMissing
	}

	db := s.conn(ctx)
	if err := db.Omit(clause.Associations).Create(order).Error; err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := db.Omit(clause.Associations).Create(&items).Error; err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
	}

	kot.OrderID = order.ID
	kot.Status = order.Status
	if err := db.Create(kot).Error; err != nil {
		return fmt.Errorf("insert kot: %w", err)
	}
	return nil
}

// TransitionOrder moves an order and its ticket from one status to the next.
// It reports false, writing nothing, when the order is not currently in from.
// Call it inside Transaction.
func (s *Store) TransitionOrder(ctx context.Context, id string, from, to models.OrderStatus) (bool, error) {
	db := s.conn(ctx)
	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	kres := db.Model(&models.Kot{}).
		Where("order_id = ?", id).
		Update("status", to)
	if kres.Error != nil {
		return false, fmt.Errorf("update kot status: %w", kres.Error)
	}
	if kres.RowsAffected != 1 {
		return false, errTicketMissing
	}
	return true, nil
}

func withOrderDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.created_at ASC")
		}).
		Preload("Items.MenuItem").
		Preload("Items.Portion").
		Preload("Kot")
}

func (s *Store) FindOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := withOrderDetail(s.conn(ctx)).
		Preload("Session.Table.Area.Branch").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (s *Store) ListSessionOrders(ctx context.Context, sessionID string) ([]models.Order, error) {
	var orders []models.Order
	err := withOrderDetail(s.conn(ctx)).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func branchOrders(db *gorm.DB, branchID string) *gorm.DB {
	return db.
		Joins("JOIN table_sessions ON table_sessions.id = orders.session_id").
		Joins("JOIN tables ON tables.id = table_sessions.table_id").
		Joins("JOIN areas ON areas.id = tables.area_id").
		Where("areas.branch_id = ?", branchID).
		Preload("Session.Table.Area.Branch")
}

// ListKitchenOrders returns the branch's orders whose ticket is in status,
// oldest first.
func (s *Store) ListKitchenOrders(ctx context.Context, branchID string, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := branchOrders(withOrderDetail(s.conn(ctx)), branchID).
		Joins("JOIN kots ON kots.order_id = orders.id").
		Where("kots.status = ?", status).
		Order("orders.created_at ASC").
		Find(&orders).Error
	return orders, err
}

// ListCaptainOrders returns orders of the branch's open sessions, newest
// first, optionally filtered by status.
func (s *Store) ListCaptainOrders(ctx context.Context, branchID string, status *models.OrderStatus) ([]models.Order, error) {
	q := branchOrders(withOrderDetail(s.conn(ctx)), branchID).
		Where("table_sessions.status = ?", models.SessionActive)
	if status != nil {
		q = q.Where("orders.status = ?", *status)
	}

	var orders []models.Order
	err := q.Order("orders.created_at DESC").Find(&orders).Error
	return orders, err
}
