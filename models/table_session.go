package models

import "time"

const (
	SessionActive = "ACTIVE"
	SessionClosed = "CLOSED"
)

// TableSession is one occupancy of a physical table. ActiveTableID equals
// TableID while the session is ACTIVE and is NULL once CLOSED; its unique
// index allows at most one ACTIVE session per table.
type TableSession struct {
	Base
	TableID       string     `gorm:"type:varchar(36);not null;index" json:"tableId"`
	Table         *Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table,omitempty"`
	ActiveTableID *string    `gorm:"type:varchar(36);uniqueIndex" json:"-"`
	Status        string     `gorm:"type:varchar(10);not null;index" json:"status"`
	StartedAt     time.Time  `gorm:"not null" json:"startedAt"`
	EndedAt       *time.Time `json:"endedAt,omitempty"`
	Customers     []Customer `gorm:"foreignKey:SessionID" json:"customers,omitempty"`
}

func (s *TableSession) IsOpen() bool {
	return s.Status == SessionActive
}
