package services

import (
	"testing"

	"campus/models"

	"gorm.io/gorm"
)

func newResetService(db *gorm.DB, notifier Notifier) *PasswordResetService {
	return NewPasswordResetService(db, testHasher(), NewOtpLedger(db), notifier)
}

func TestPasswordResetFlow(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	reset := newResetService(db, notifier)
	auth := newAuthService(db, notifier)

	seedUser(t, db, "s@x.edu", "old-password-1", models.RoleStudent, true)

	if err := reset.CreatePasswordResetOTP("s@x.edu"); err != nil {
		t.Fatalf("CreatePasswordResetOTP failed: %v", err)
	}
	code := notifier.lastResetCode(t)

	// Verification alone does not consume the code; it can be checked
	// again before the new password is submitted.
	if err := reset.VerifyPasswordResetOTP("s@x.edu", code); err != nil {
		t.Fatalf("VerifyPasswordResetOTP failed: %v", err)
	}
	if err := reset.VerifyPasswordResetOTP("s@x.edu", code); err != nil {
		t.Fatalf("second VerifyPasswordResetOTP failed: %v", err)
	}

	if err := reset.ResetPasswordWithOTP("s@x.edu", code, "new-password-1"); err != nil {
		t.Fatalf("ResetPasswordWithOTP failed: %v", err)
	}

	// The old password no longer authenticates and the new one does.
	if _, err := auth.Login("s@x.edu", "old-password-1", "", ""); err == nil {
		t.Fatal("expected old password to be rejected")
	}
	if _, err := auth.Login("s@x.edu", "new-password-1", "", ""); err != nil {
		t.Fatalf("expected new password to authenticate: %v", err)
	}

	// The reset consumed the code.
	if err := reset.ResetPasswordWithOTP("s@x.edu", code, "another-pass-1"); err == nil {
		t.Fatal("expected consumed code to be rejected")
	}
}

func TestPasswordResetWrongCodeLeavesPasswordIntact(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	reset := newResetService(db, notifier)
	auth := newAuthService(db, notifier)

	seedUser(t, db, "s@x.edu", "old-password-1", models.RoleStudent, true)

	if err := reset.CreatePasswordResetOTP("s@x.edu"); err != nil {
		t.Fatalf("CreatePasswordResetOTP failed: %v", err)
	}

	if err := reset.ResetPasswordWithOTP("s@x.edu", "000000", "new-password-1"); kindOf(t, err) != KindNotFoundOrExpired {
		t.Fatalf("expected not-found-or-expired, got %v", err)
	}
	if _, err := auth.Login("s@x.edu", "old-password-1", "", ""); err != nil {
		t.Fatalf("expected old password to keep working: %v", err)
	}
}

func TestCreatePasswordResetOTPUnknownAccount(t *testing.T) {
	db := newTestDB(t)
	reset := newResetService(db, &fakeNotifier{})

	if err := reset.CreatePasswordResetOTP("nobody@x.edu"); kindOf(t, err) != KindNotFoundOrExpired {
		t.Fatalf("expected no-account error, got %v", err)
	}
}
