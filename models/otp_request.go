package models

import "time"

// OtpRequest is one issued challenge for a phone within a session. Several
// rows may share a code when staff hand one code to a whole table.
type OtpRequest struct {
	Base
	SessionID     string     `gorm:"type:varchar(36);not null;index:idx_otp_session_phone" json:"sessionId"`
	CustomerPhone string     `gorm:"type:varchar(20);not null;index:idx_otp_session_phone" json:"customerPhone"`
	OtpCode       string     `gorm:"type:varchar(6);not null" json:"-"`
	GeneratedBy   string     `gorm:"type:varchar(36);not null" json:"generatedBy"`
	ExpiresAt     time.Time  `gorm:"not null;index" json:"expiresAt"`
	VerifiedAt    *time.Time `json:"verifiedAt,omitempty"`
	Attempts      int        `gorm:"not null;default:0" json:"attempts"`
}

func (o *OtpRequest) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
