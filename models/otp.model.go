package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	OtpPurposeLogin         = "login"
	OtpPurposeRegistration  = "registration"
	OtpPurposePasswordReset = "password_reset"
)

// OTP is a single-use passcode bound to an identifier, a purpose and an
// expiry. UserID is 0 for registration codes, where no user exists yet.
type OTP struct {
	gorm.Model
	UserID    uint      `gorm:"index" json:"user_id"`
	Email     string    `gorm:"size:100;index" json:"email"`
	Code      string    `gorm:"column:otp_code;size:6;not null" json:"-"`
	Purpose   string    `gorm:"column:type;size:20;not null;index" json:"type"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

func (OTP) TableName() string {
	return "otp_requests"
}
