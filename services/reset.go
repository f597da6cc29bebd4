package services

import (
	"errors"
	"log"
	"time"

	"campus/models"

	"gorm.io/gorm"
)

// PasswordResetService implements the OTP-gated password mutation. The flow
// is deliberately two-phase: VerifyPasswordResetOTP lets a client confirm
// the code before collecting the new password, and only ResetPasswordWithOTP
// consumes it.
type PasswordResetService struct {
	db       *gorm.DB
	hasher   PasswordHasher
	otps     *OtpLedger
	notifier Notifier

	now func() time.Time
}

func NewPasswordResetService(db *gorm.DB, hasher PasswordHasher, otps *OtpLedger, notifier Notifier) *PasswordResetService {
	return &PasswordResetService{
		db:       db,
		hasher:   hasher,
		otps:     otps,
		notifier: notifier,
		now:      time.Now,
	}
}

// CreatePasswordResetOTP issues a reset code for an existing account and
// delivers it.
func (s *PasswordResetService) CreatePasswordResetOTP(email string) error {
	var user models.User
	err := s.db.Where("email = ? AND is_deleted = ?", email, false).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(KindNotFoundOrExpired, "No account found with this email!")
		}
		return persistence(err)
	}

	record, err := s.otps.Issue(user.ID, email, models.OtpPurposePasswordReset, PasswordResetOtpTTL)
	if err != nil {
		return err
	}

	if err := s.notifier.SendPasswordResetOTP(email, user.FirstName, record.Code); err != nil {
		log.Printf("Error sending password reset OTP to %s: %v", email, err)
		return wrapError(KindDelivery, "Failed to send OTP!", err)
	}
	return nil
}

// VerifyPasswordResetOTP checks the code without consuming it, so the
// client can show "code accepted" before asking for the new password.
func (s *PasswordResetService) VerifyPasswordResetOTP(email, code string) error {
	_, err := s.otps.Verify(email, models.OtpPurposePasswordReset, code, s.now())
	return err
}

// ResetPasswordWithOTP re-verifies the code, then updates the password hash
// and consumes the code in one transaction. On failure the password is
// untouched and the OTP remains usable for retry.
func (s *PasswordResetService) ResetPasswordWithOTP(email, code, newPassword string) error {
	now := s.now()

	record, err := s.otps.Verify(email, models.OtpPurposePasswordReset, code, now)
	if err != nil {
		return err
	}

	var user models.User
	if err := s.db.Where("email = ? AND is_deleted = ?", email, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(KindNotFoundOrExpired, "Invalid OTP or OTP expired!")
		}
		return persistence(err)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return wrapError(KindPersistence, "Failed to process your request!", err)
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"password_hash": hashed,
			"updated_at":    now,
		}
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return persistence(err)
		}
		return s.otps.Consume(tx, record)
	})
	return asServiceError(txErr)
}
