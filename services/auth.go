package services

import (
	"errors"
	"log"
	"time"

	"campus/middleware"
	"campus/models"

	"gorm.io/gorm"
)

// TrustWindow is how long a successful OTP verification exempts a user from
// step-up, independent of which purpose the code was issued for.
const TrustWindow = 24 * time.Hour

// Session is the payload returned on successful authentication. It never
// carries the password hash.
type Session struct {
	UserID        uint   `json:"user_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	StudentNumber string `json:"student_number,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
	Token         string `json:"token"`
}

// AuthSessionService implements password login with role gating and the
// login-OTP step-up flow.
type AuthSessionService struct {
	db        *gorm.DB
	hasher    PasswordHasher
	otps      *OtpLedger
	notifier  Notifier
	jwtSecret []byte

	now func() time.Time
}

func NewAuthSessionService(db *gorm.DB, hasher PasswordHasher, otps *OtpLedger, notifier Notifier, jwtSecret []byte) *AuthSessionService {
	return &AuthSessionService{
		db:        db,
		hasher:    hasher,
		otps:      otps,
		notifier:  notifier,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

// Login authenticates email + password and gates on role. A missing account
// and a wrong password return the identical error so responses do not reveal
// which emails have accounts.
func (s *AuthSessionService) Login(email, password, ip, device string) (*Session, error) {
	var user models.User
	err := s.db.Where("email = ? AND is_deleted = ?", email, false).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFoundOrExpired, "Invalid credentials!")
		}
		return nil, persistence(err)
	}

	if !s.hasher.Verify(password, user.Password) {
		return nil, newError(KindNotFoundOrExpired, "Invalid credentials!")
	}

	switch user.Role {
	case models.RoleAdmin:
		// Admins are provisioned pre-verified and are not subject to OTP
		// step-up.
	case models.RoleStudent:
		if !user.Verified {
			return nil, newError(KindUnverified, "Account is not verified!")
		}
	default:
		return nil, newError(KindValidation, "Invalid account role!")
	}

	// Capture login tracking details. Failure to record must not block the
	// login itself.
	tracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: ip,
		Device:    device,
		Timestamp: s.now(),
	}
	if err := s.db.Create(&tracking).Error; err != nil {
		log.Printf("Error saving login tracking details: %v", err)
	}

	return s.buildSession(&user)
}

// CheckOtpRequirement reports whether the user must complete OTP step-up.
// No prior verification, a lookup failure, or a trust window older than 24h
// all require step-up (fail-secure).
func (s *AuthSessionService) CheckOtpRequirement(userID uint) bool {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return true
	}
	if user.LastVerifiedOtp == nil {
		return true
	}
	return s.now().Sub(*user.LastVerifiedOtp) >= TrustWindow
}

// CreateLoginOTP issues a login step-up code for an existing verified user
// and delivers it. The code stays persisted even when delivery fails, so a
// later resend or manual delivery can still succeed within the TTL.
func (s *AuthSessionService) CreateLoginOTP(email string) error {
	var user models.User
	err := s.db.Where("email = ? AND is_deleted = ?", email, false).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(KindNotFoundOrExpired, "No account found with this email!")
		}
		return persistence(err)
	}
	// Issuance requires a verified account regardless of role; admins are
	// provisioned pre-verified, so this only bites misprovisioned rows.
	if !user.Verified {
		return newError(KindUnverified, "Account is not verified!")
	}

	record, err := s.otps.Issue(user.ID, email, models.OtpPurposeLogin, LoginOtpTTL)
	if err != nil {
		return err
	}

	if err := s.notifier.SendLoginOTP(email, user.FirstName, record.Code); err != nil {
		log.Printf("Error sending login OTP to %s: %v", email, err)
		return wrapError(KindDelivery, "Failed to send OTP!", err)
	}
	return nil
}

// VerifyLoginOTP checks the step-up code and, on success, atomically opens a
// fresh 24h trust window and consumes the code, then returns a session.
func (s *AuthSessionService) VerifyLoginOTP(email, code string) (*Session, error) {
	now := s.now()

	record, err := s.otps.Verify(email, models.OtpPurposeLogin, code, now)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.Where("email = ? AND is_deleted = ?", email, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFoundOrExpired, "Invalid OTP or OTP expired!")
		}
		return nil, persistence(err)
	}

	expiry := now.Add(TrustWindow)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"last_verified_otp":        now,
			"last_verified_otp_expiry": expiry,
		}
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return persistence(err)
		}
		return s.otps.Consume(tx, record)
	})
	if err != nil {
		return nil, asServiceError(err)
	}

	user.LastVerifiedOtp = &now
	user.LastVerifiedOtpExpiry = &expiry
	return s.buildSession(&user)
}

// UpdateLoginOTPVerification refreshes the trust window without an OTP
// exchange, for auth paths that have already proven the user some other way.
func (s *AuthSessionService) UpdateLoginOTPVerification(userID uint) error {
	now := s.now()
	result := s.db.Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", userID, false).
		Updates(map[string]interface{}{
			"last_verified_otp":        now,
			"last_verified_otp_expiry": now.Add(TrustWindow),
		})
	if result.Error != nil {
		return persistence(result.Error)
	}
	if result.RowsAffected == 0 {
		return newError(KindNotFoundOrExpired, "No account found!")
	}
	return nil
}

func (s *AuthSessionService) buildSession(user *models.User) (*Session, error) {
	session := &Session{
		UserID:        user.ID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Email:         user.Email,
		Role:          user.Role,
		ContactNumber: user.ContactNumber,
	}

	if user.Role == models.RoleStudent {
		var student models.Student
		if err := s.db.Where("user_id = ?", user.ID).First(&student).Error; err == nil {
			session.StudentNumber = student.StudentNumber
		}
	}

	token, err := middleware.GenerateJWT(s.jwtSecret, user.ID, user.FirstName+" "+user.LastName, user.Role, user.Email)
	if err != nil {
		return nil, wrapError(KindPersistence, "Failed to generate token!", err)
	}
	session.Token = token

	return session, nil
}

// asServiceError keeps already-typed errors intact and converts anything
// else (driver errors escaping a transaction) into a persistence failure.
func asServiceError(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return persistence(err)
}
