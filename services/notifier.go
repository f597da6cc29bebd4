package services

// Notifier delivers OTPs and welcome messages. Implementations are
// best-effort side effects; they are always invoked after persistence has
// committed, never inside a transaction.
type Notifier interface {
	SendLoginOTP(email, name, code string) error
	SendRegistrationOTP(email, name, code string) error
	SendPasswordResetOTP(email, name, code string) error
	SendWelcome(email, name string) error
}
