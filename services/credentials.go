package services

import (
	"campus/models"

	"gorm.io/gorm"
)

// CredentialStore answers existence and uniqueness probes for the
// identifiers that must stay unique across accounts. It is used both as a
// pre-check at OTP issuance time and re-checked inside the registration
// transaction to close the race window between the two.
type CredentialStore struct {
	db *gorm.DB
}

func NewCredentialStore(db *gorm.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// WithTx returns a store bound to the given transaction, so in-transaction
// re-checks see uncommitted rows of the same transaction.
func (s *CredentialStore) WithTx(tx *gorm.DB) *CredentialStore {
	return &CredentialStore{db: tx}
}

func (s *CredentialStore) EmailExists(email string) (bool, error) {
	var count int64
	err := s.db.Model(&models.User{}).
		Where("email = ? AND is_deleted = ?", email, false).
		Count(&count).Error
	if err != nil {
		return false, persistence(err)
	}
	return count > 0, nil
}

func (s *CredentialStore) StudentNumberExists(studentNumber string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Student{}).
		Where("student_number = ?", studentNumber).
		Count(&count).Error
	if err != nil {
		return false, persistence(err)
	}
	return count > 0, nil
}

func (s *CredentialStore) EmployeeNumberExists(employeeNumber string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Employee{}).
		Where("employee_number = ?", employeeNumber).
		Count(&count).Error
	if err != nil {
		return false, persistence(err)
	}
	return count > 0, nil
}
