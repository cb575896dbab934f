package services

import (
	"time"

	"github.com/yeremiapane/dinein/models"
	"github.com/yeremiapane/dinein/utils"
)

const (
	EventNewOrder          = "NEW_ORDER"
	EventOrderStatusUpdate = "ORDER_STATUS_UPDATE"
)

// NewOrderEvent goes to the kitchen channel after an order commits.
type NewOrderEvent struct {
	Type        string             `json:"type"`
	OrderID     string             `json:"orderId"`
	TotalAmount utils.Money        `json:"totalAmount"`
	ItemCount   int                `json:"itemCount"`
	Status      models.OrderStatus `json:"status"`
	Timestamp   time.Time          `json:"timestamp"`
}

// StatusUpdateEvent goes to the captain channel after a transition commits.
type StatusUpdateEvent struct {
	Type      string             `json:"type"`
	OrderID   string             `json:"orderId"`
	Status    models.OrderStatus `json:"status"`
	Table     string             `json:"table"`
	Timestamp time.Time          `json:"timestamp"`
}
