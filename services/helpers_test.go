package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"campus/database"
	"campus/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache DSN keeps every pooled connection on the same
	// in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

var errDeliveryDown = errors.New("smtp connection refused")

// fakeNotifier records every delivery so tests can read issued codes back.
type fakeNotifier struct {
	loginCodes     []string
	regCodes       []string
	resetCodes     []string
	welcomes       []string
	failDeliveries bool
}

func (n *fakeNotifier) SendLoginOTP(email, name, code string) error {
	if n.failDeliveries {
		return errDeliveryDown
	}
	n.loginCodes = append(n.loginCodes, code)
	return nil
}

func (n *fakeNotifier) SendRegistrationOTP(email, name, code string) error {
	if n.failDeliveries {
		return errDeliveryDown
	}
	n.regCodes = append(n.regCodes, code)
	return nil
}

func (n *fakeNotifier) SendPasswordResetOTP(email, name, code string) error {
	if n.failDeliveries {
		return errDeliveryDown
	}
	n.resetCodes = append(n.resetCodes, code)
	return nil
}

func (n *fakeNotifier) SendWelcome(email, name string) error {
	if n.failDeliveries {
		return errDeliveryDown
	}
	n.welcomes = append(n.welcomes, email)
	return nil
}

func (n *fakeNotifier) lastLoginCode(t *testing.T) string {
	t.Helper()
	if len(n.loginCodes) == 0 {
		t.Fatal("no login OTP was delivered")
	}
	return n.loginCodes[len(n.loginCodes)-1]
}

func (n *fakeNotifier) lastRegCode(t *testing.T) string {
	t.Helper()
	if len(n.regCodes) == 0 {
		t.Fatal("no registration OTP was delivered")
	}
	return n.regCodes[len(n.regCodes)-1]
}

func (n *fakeNotifier) lastResetCode(t *testing.T) string {
	t.Helper()
	if len(n.resetCodes) == 0 {
		t.Fatal("no password reset OTP was delivered")
	}
	return n.resetCodes[len(n.resetCodes)-1]
}

// testHasher uses the minimum bcrypt cost to keep tests fast.
func testHasher() PasswordHasher {
	return NewPasswordHasher(4)
}

func seedUser(t *testing.T, db *gorm.DB, email, password, role string, verified bool) *models.User {
	t.Helper()

	hashed, err := testHasher().Hash(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  hashed,
		Role:      role,
		Verified:  verified,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return &user
}

func seedStudent(t *testing.T, db *gorm.DB, userID uint, studentNumber string) {
	t.Helper()
	if err := db.Create(&models.Student{UserID: userID, StudentNumber: studentNumber}).Error; err != nil {
		t.Fatalf("failed to seed student: %v", err)
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}

func kindOf(t *testing.T, err error) Kind {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	return KindOf(err)
}
