package services

import (
	"errors"
	"log"
	"time"

	"campus/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RegistrationInput carries the data collected by the registration form.
type RegistrationInput struct {
	Email         string
	Code          string
	Password      string
	FirstName     string
	LastName      string
	StudentNumber string
	ContactNumber string
	Address       string
	DateOfBirth   string // optional, YYYY-MM-DD
}

// RegistrationService gates account creation behind a registration OTP and
// creates the user and student rows in a single transaction.
type RegistrationService struct {
	db       *gorm.DB
	creds    *CredentialStore
	hasher   PasswordHasher
	otps     *OtpLedger
	notifier Notifier

	now func() time.Time
}

func NewRegistrationService(db *gorm.DB, creds *CredentialStore, hasher PasswordHasher, otps *OtpLedger, notifier Notifier) *RegistrationService {
	return &RegistrationService{
		db:       db,
		creds:    creds,
		hasher:   hasher,
		otps:     otps,
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateRegistrationOTP issues a registration code keyed by email alone —
// no user row exists yet — and delivers it.
func (s *RegistrationService) CreateRegistrationOTP(email, firstName string) error {
	exists, err := s.creds.EmailExists(email)
	if err != nil {
		return err
	}
	if exists {
		return newError(KindConflict, "Email is already registered!")
	}

	record, err := s.otps.Issue(0, email, models.OtpPurposeRegistration, RegistrationOtpTTL)
	if err != nil {
		return err
	}

	if err := s.notifier.SendRegistrationOTP(email, firstName, record.Code); err != nil {
		log.Printf("Error sending registration OTP to %s: %v", email, err)
		return wrapError(KindDelivery, "Failed to send OTP!", err)
	}
	return nil
}

// Register verifies the registration OTP and atomically creates the user
// and student rows, consuming the code in the same transaction. Any failure
// rolls back fully and leaves the OTP valid for retry until its own TTL.
func (s *RegistrationService) Register(in RegistrationInput) (uint, error) {
	now := s.now()

	record, err := s.otps.Verify(in.Email, models.OtpPurposeRegistration, in.Code, now)
	if err != nil {
		return 0, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return 0, wrapError(KindPersistence, "Failed to process your request!", err)
	}

	var userID uint
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		creds := s.creds.WithTx(tx)

		// Re-check uniqueness inside the transaction; the pre-check at
		// issuance time may be minutes stale.
		if exists, err := creds.EmailExists(in.Email); err != nil {
			return err
		} else if exists {
			return newError(KindConflict, "Email is already registered!")
		}
		if exists, err := creds.StudentNumberExists(in.StudentNumber); err != nil {
			return err
		} else if exists {
			return newError(KindConflict, "Student number is already registered!")
		}

		var dob *datatypes.Date
		if in.DateOfBirth != "" {
			parsed, err := time.Parse("2006-01-02", in.DateOfBirth)
			if err != nil {
				return newError(KindValidation, "Invalid date of birth!")
			}
			d := datatypes.Date(parsed)
			dob = &d
		}

		user := models.User{
			FirstName:     in.FirstName,
			LastName:      in.LastName,
			Email:         in.Email,
			Password:      hashed,
			Role:          models.RoleStudent,
			Verified:      true, // the OTP exchange is the verification event
			ContactNumber: in.ContactNumber,
			Address:       in.Address,
			DateOfBirth:   dob,
			StatusID:      s.defaultStudentStatus(tx),
		}
		if err := tx.Create(&user).Error; err != nil {
			return translateDuplicate(err)
		}

		student := models.Student{
			UserID:        user.ID,
			StudentNumber: in.StudentNumber,
		}
		if err := tx.Create(&student).Error; err != nil {
			return translateDuplicate(err)
		}

		if err := s.otps.Consume(tx, record); err != nil {
			return err
		}

		userID = user.ID
		return nil
	})
	if txErr != nil {
		return 0, asServiceError(txErr)
	}

	// Welcome mail is best-effort and strictly after commit; its failure
	// must not affect the registration.
	if err := s.notifier.SendWelcome(in.Email, in.FirstName); err != nil {
		log.Printf("Error sending welcome email to %s: %v", in.Email, err)
	}

	return userID, nil
}

// defaultStudentStatus resolves the "Enrolled" student status, falling back
// to any student status, or nil when none is seeded.
func (s *RegistrationService) defaultStudentStatus(tx *gorm.DB) *uint {
	var status models.Status
	err := tx.Where("name = ? AND kind = ?", models.StatusEnrolled, models.StatusKindStudent).
		First(&status).Error
	if err != nil {
		err = tx.Where("kind = ?", models.StatusKindStudent).
			Order("id ASC").
			First(&status).Error
	}
	if err != nil {
		return nil
	}
	id := status.ID
	return &id
}

// translateDuplicate maps a unique-constraint violation at commit time to a
// conflict error. The database constraint is the final arbiter for the
// TOCTOU window left by the in-transaction pre-checks.
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return newError(KindConflict, "Email or student number is already registered!")
	}
	return persistence(err)
}
