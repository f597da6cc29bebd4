package services

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"campus/models"

	"gorm.io/gorm"
)

// Per-purpose OTP lifetimes.
const (
	LoginOtpTTL         = 10 * time.Minute
	RegistrationOtpTTL  = 15 * time.Minute
	PasswordResetOtpTTL = 15 * time.Minute
)

const otpLength = 6

// OtpLedger issues, verifies, consumes and sweeps one-time passcodes.
// Codes are scoped by (email, purpose); multiple outstanding codes for the
// same scope may coexist, each valid until its own expiry or consumption.
type OtpLedger struct {
	db *gorm.DB
}

func NewOtpLedger(db *gorm.DB) *OtpLedger {
	return &OtpLedger{db: db}
}

// GenerateOTP generates a 6-digit OTP using a cryptographically secure
// source.
func GenerateOTP() (string, error) {
	digits := make([]byte, otpLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// Issue persists a fresh code for (email, purpose) and returns the record.
// The caller is responsible for handing the code to the notifier; delivery
// failure does not undo issuance.
func (l *OtpLedger) Issue(userID uint, email, purpose string, ttl time.Duration) (*models.OTP, error) {
	code, err := GenerateOTP()
	if err != nil {
		return nil, persistence(err)
	}

	record := models.OTP{
		UserID:    userID,
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := l.db.Create(&record).Error; err != nil {
		return nil, persistence(err)
	}
	return &record, nil
}

// Verify returns the matching non-expired record for (email, purpose, code),
// preferring the most recently created one. It does not consume the record.
func (l *OtpLedger) Verify(email, purpose, code string, now time.Time) (*models.OTP, error) {
	var record models.OTP
	err := l.db.
		Where("email = ? AND type = ? AND otp_code = ? AND expires_at > ?", email, purpose, code, now).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFoundOrExpired, "Invalid OTP or OTP expired!")
		}
		return nil, persistence(err)
	}
	return &record, nil
}

// Consume deletes the record inside the caller's transaction so the code
// cannot be replayed if the dependent write commits.
func (l *OtpLedger) Consume(tx *gorm.DB, record *models.OTP) error {
	if err := tx.Unscoped().Delete(&models.OTP{}, record.ID).Error; err != nil {
		return persistence(err)
	}
	return nil
}

// SweepExpired bulk-deletes every record past its expiry and reports how
// many were removed. Safe to re-run at any time.
func (l *OtpLedger) SweepExpired(now time.Time) (int64, error) {
	result := l.db.Unscoped().
		Where("expires_at < ?", now).
		Delete(&models.OTP{})
	if result.Error != nil {
		return 0, persistence(result.Error)
	}
	return result.RowsAffected, nil
}
