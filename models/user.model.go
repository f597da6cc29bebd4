package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "ADMIN"
	RoleStudent = "STUDENT"
)

type User struct {
	gorm.Model
	FirstName             string          `gorm:"size:100" json:"first_name"`
	LastName              string          `gorm:"size:100" json:"last_name"`
	Email                 string          `gorm:"unique;not null" json:"email"`
	Password              string          `gorm:"column:password_hash;not null" json:"-"`
	Role                  string          `gorm:"size:20;default:'STUDENT'" json:"role"`
	Verified              bool            `gorm:"default:false" json:"verified"`
	ContactNumber         string          `gorm:"size:20" json:"contact_number,omitempty"`
	Address               string          `json:"address,omitempty"`
	DateOfBirth           *datatypes.Date `json:"date_of_birth,omitempty"`
	LastVerifiedOtp       *time.Time      `gorm:"column:last_verified_otp" json:"-"`
	LastVerifiedOtpExpiry *time.Time      `gorm:"column:last_verified_otp_expiry" json:"-"`
	StatusID              *uint           `json:"status_id,omitempty"`
	IsDeleted             bool            `gorm:"default:false" json:"-"`
}
