package models

// Kot is the kitchen ticket for an order. Its status is only ever written in
// the same transaction as Order.Status.
type Kot struct {
	Base
	OrderID string      `gorm:"type:varchar(36);not null;uniqueIndex" json:"orderId"`
	Status  OrderStatus `gorm:"type:varchar(15);not null;index" json:"status"`
}
