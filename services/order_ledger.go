package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/dinein/models"
	"github.com/yeremiapane/dinein/repository"
	"github.com/yeremiapane/dinein/utils"
)

// OrderLine is one requested line of a new order.
type OrderLine struct {
	MenuItemID string  `json:"menuItemId"`
	PortionID  *string `json:"portionId"`
	Qty        int     `json:"qty"`
}

type PlaceOrderResult struct {
	OrderID     string             `json:"orderId"`
	TotalAmount utils.Money        `json:"totalAmount"`
	ItemCount   int                `json:"itemCount"`
	Status      models.OrderStatus `json:"status"`
}

// OrderLedger persists orders together with their price snapshot and
// kitchen ticket.
type OrderLedger struct {
	Store    *repository.Store
	Guard    *SessionGuard
	Notifier Dispatcher
	Now      Clock
}

func NewOrderLedger(store *repository.Store, guard *SessionGuard, notifier Dispatcher) *OrderLedger {
	return &OrderLedger{Store: store, Guard: guard, Notifier: notifier}
}

func validateLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return utils.NewError(utils.KindInvalidOrderInput, "items must not be empty")
	}
	for i, line := range lines {
		if strings.TrimSpace(line.MenuItemID) == "" {
			return utils.NewError(utils.KindInvalidOrderInput, "item %d: menuItemId is required", i)
		}
		if line.Qty <= 0 {
			return utils.NewError(utils.KindInvalidOrderInput, "item %d: qty must be positive", i)
		}
	}
	return nil
}

// PlaceOrder validates lines, snapshots their prices and writes order, items
// and ticket in one transaction. The order is attributed to the customer only
// when caller is a session token for this session; otherwise it is a staff
// order. The kitchen is notified after commit.
func (l *OrderLedger) PlaceOrder(ctx context.Context, sessionID string, lines []OrderLine, caller *utils.Claims) (*PlaceOrderResult, error) {
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	session, err := l.Guard.ValidateOpen(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var customerID *string
	if caller.IsSessionCustomer(sessionID) {
		id := caller.CustomerID
		customerID = &id
	}

	branch := sessionBranch(session)
	order := &models.Order{
		SessionID:  sessionID,
		CustomerID: customerID,
		Status:     models.OrderPlaced,
	}
	err = l.Store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := requireOpen(tx.LockSession(ctx, sessionID)); err != nil {
			return err
		}

		items, total, err := priceLines(ctx, tx, branch.ID, lines)
		if err != nil {
			return err
		}
		order.Items = items
		order.TotalAmount = total
		order.Kot = &models.Kot{Status: models.OrderPlaced}
		return tx.InsertOrder(ctx, order)
	})
	if err != nil {
		if utils.KindOf(err) != utils.KindInternal {
			return nil, err
		}
		return nil, utils.Internal(err, "place order")
	}

	total := utils.NewMoney(branch.CurrencyCode, branch.CurrencySymbol, order.TotalAmount)

	utils.InfoLogger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"order_id":   order.ID,
		"total":      total.Formatted,
	}).Info("order placed")

	l.Notifier.Notify(Notification{
		BranchID: branch.ID,
		Channel:  ChannelKitchen,
		Payload: NewOrderEvent{
			Type:        EventNewOrder,
			OrderID:     order.ID,
			TotalAmount: total,
			ItemCount:   len(lines),
			Status:      models.OrderPlaced,
			Timestamp:   l.Now.now(),
		},
	})

	return &PlaceOrderResult{
		OrderID:     order.ID,
		TotalAmount: total,
		ItemCount:   len(lines),
		Status:      models.OrderPlaced,
	}, nil
}

// priceLines resolves each line's unit price from the branch catalog as it
// is now. Items of other branches are not found.
func priceLines(ctx context.Context, tx *repository.Store, branchID string, lines []OrderLine) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		var (
			price     decimal.Decimal
			portionID *string
			err       error
		)
		if line.PortionID != nil && *line.PortionID != "" {
			price, err = tx.PortionPrice(ctx, branchID, line.MenuItemID, *line.PortionID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil, total, utils.NewError(utils.KindPortionNotFound, "portion %s not found for item %s", *line.PortionID, line.MenuItemID)
			}
			portionID = line.PortionID
		} else {
			price, err = tx.MenuItemPrice(ctx, branchID, line.MenuItemID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil, total, utils.NewError(utils.KindItemNotFound, "menu item %s not found", line.MenuItemID)
			}
		}
		if err != nil {
			return nil, total, err
		}

		item := models.OrderItem{
			MenuItemID: line.MenuItemID,
			PortionID:  portionID,
			Qty:        line.Qty,
			Price:      price,
		}
		total = total.Add(item.LineTotal())
		items = append(items, item)
	}
	return items, total, nil
}

func (l *OrderLedger) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := l.Store.FindOrder(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewError(utils.KindOrderNotFound, "order not found")
	}
	if err != nil {
		return nil, utils.Internal(err, "load order")
	}
	return order, nil
}

func (l *OrderLedger) SessionOrders(ctx context.Context, sessionID string) ([]models.Order, error) {
	if _, err := l.Store.FindSession(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewError(utils.KindSessionNotFound, "session not found")
		}
		return nil, utils.Internal(err, "load session")
	}
	orders, err := l.Store.ListSessionOrders(ctx, sessionID)
	if err != nil {
		return nil, utils.Internal(err, "list session orders")
	}
	return orders, nil
}

// SessionMenu lists what a diner at an open session may order.
func (l *OrderLedger) SessionMenu(ctx context.Context, sessionID string) ([]models.MenuCategory, error) {
	session, err := l.Guard.ValidateOpen(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	menu, err := l.Store.BranchMenu(ctx, session.Table.BranchID())
	if err != nil {
		return nil, utils.Internal(err, "load menu")
	}
	return menu, nil
}
