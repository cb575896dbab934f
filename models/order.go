package models

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	OrderPlaced    OrderStatus = "PLACED"
	OrderPreparing OrderStatus = "PREPARING"
	OrderReady     OrderStatus = "READY"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// orderTransitions lists the forward edges of the kitchen state machine.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPlaced:    {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderCompleted, OrderCancelled},
}

// TerminalOrderStatuses are the states a session may close with.
var TerminalOrderStatuses = []OrderStatus{OrderCompleted, OrderCancelled}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderPlaced, OrderPreparing, OrderReady, OrderCompleted, OrderCancelled:
		return st, true
	}
	return "", false
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// Order is owned by its session. TotalAmount is the price snapshot taken at
// placement and is never recomputed.
type Order struct {
	Base
	SessionID   string          `gorm:"type:varchar(36);not null;index" json:"sessionId"`
	Session     *TableSession   `gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CustomerID  *string         `gorm:"type:varchar(36);index" json:"customerId"`
	Status      OrderStatus     `gorm:"type:varchar(15);not null;index" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Kot         *Kot            `gorm:"foreignKey:OrderID" json:"kot,omitempty"`
}
