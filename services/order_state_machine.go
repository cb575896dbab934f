package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/dinein/models"
	"github.com/yeremiapane/dinein/repository"
	"github.com/yeremiapane/dinein/utils"
)

// OrderStateMachine moves orders and their kitchen tickets through
// preparation under kitchen authority.
type OrderStateMachine struct {
	Store    *repository.Store
	Notifier Dispatcher
	Now      Clock
}

func NewOrderStateMachine(store *repository.Store, notifier Dispatcher) *OrderStateMachine {
	return &OrderStateMachine{Store: store, Notifier: notifier}
}

// Advance moves the order to next if that is an edge of the state machine.
// Order and ticket change in one transaction; captains are told afterwards.
func (m *OrderStateMachine) Advance(ctx context.Context, orderID string, next models.OrderStatus, actorRole string) (*models.Order, error) {
	if actorRole != utils.RoleKitchen {
		return nil, utils.NewError(utils.KindInsufficientRole, "only kitchen staff may update order status")
	}

	order, err := m.Store.FindOrder(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewError(utils.KindOrderNotFound, "order not found")
	}
	if err != nil {
		return nil, utils.Internal(err, "load order")
	}

	from := order.Status
	if !from.CanTransitionTo(next) {
		return nil, utils.NewError(utils.KindInvalidTransition, "cannot move order from %s to %s", from, next)
	}

	err = m.Store.Transaction(ctx, func(tx *repository.Store) error {
		moved, err := tx.TransitionOrder(ctx, orderID, from, next)
		if err != nil {
			return err
		}
		if !moved {
			return utils.NewError(utils.KindInvalidTransition, "order is no longer %s", from)
		}
		return nil
	})
	if err != nil {
		if utils.KindOf(err) != utils.KindInternal {
			return nil, err
		}
		return nil, utils.Internal(err, "advance order")
	}

	order.Status = next
	if order.Kot != nil {
		order.Kot.Status = next
	}

	var (
		table  string
		branch string
	)
	if order.Session != nil {
		table = order.Session.Table.Label()
		branch = order.Session.Table.BranchID()
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": orderID,
		"from":     from,
		"to":       next,
	}).Info("order status updated")

	m.Notifier.Notify(Notification{
		BranchID: branch,
		Channel:  ChannelCaptain,
		Payload: StatusUpdateEvent{
			Type:      EventOrderStatusUpdate,
			OrderID:   orderID,
			Status:    next,
			Table:     table,
			Timestamp: m.Now.now(),
		},
	})
	return order, nil
}

// KitchenOrders lists the branch's orders whose ticket is in status,
// PLACED when status is empty.
func (m *OrderStateMachine) KitchenOrders(ctx context.Context, branchID string, status models.OrderStatus) ([]models.Order, error) {
	if status == "" {
		status = models.OrderPlaced
	}
	orders, err := m.Store.ListKitchenOrders(ctx, branchID, status)
	if err != nil {
		return nil, utils.Internal(err, "list kitchen orders")
	}
	return orders, nil
}

// CaptainOrders groups the orders of the branch's open sessions by status.
func (m *OrderStateMachine) CaptainOrders(ctx context.Context, branchID string, status *models.OrderStatus) (map[models.OrderStatus][]models.Order, error) {
	orders, err := m.Store.ListCaptainOrders(ctx, branchID, status)
	if err != nil {
		return nil, utils.Internal(err, "list captain orders")
	}

	grouped := map[models.OrderStatus][]models.Order{}
	for _, order := range orders {
		grouped[order.Status] = append(grouped[order.Status], order)
	}
	return grouped, nil
}
