package models

import "time"

// CustomerProfile is the cross-session identity of a diner, keyed by phone.
type CustomerProfile struct {
	Base
	Phone        string     `gorm:"type:varchar(20);not null;uniqueIndex" json:"phone"`
	Name         *string    `gorm:"type:varchar(255)" json:"name,omitempty"`
	LastActiveAt *time.Time `json:"lastActiveAt,omitempty"`
}

// Customer is a diner within exactly one table session.
type Customer struct {
	Base
	SessionID         string  `gorm:"type:varchar(36);not null;index:idx_customer_session_phone" json:"sessionId"`
	CustomerProfileID string  `gorm:"type:varchar(36);not null;index" json:"customerProfileId"`
	Phone             string  `gorm:"type:varchar(20);not null;index:idx_customer_session_phone" json:"phone"`
	Name              *string `gorm:"type:varchar(255)" json:"name,omitempty"`
	Verified          bool    `gorm:"not null" json:"verified"`
}
