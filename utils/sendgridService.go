package utils

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridNotifier delivers mail through the SendGrid API, for deployments
// where outbound SMTP is blocked.
type SendGridNotifier struct {
	APIKey string
	Sender string
}

func NewSendGridNotifier(apiKey, sender string) *SendGridNotifier {
	return &SendGridNotifier{APIKey: apiKey, Sender: sender}
}

func (n *SendGridNotifier) send(email, name, subject, htmlBody string) error {
	from := mail.NewEmail("Campus Portal", n.Sender)
	to := mail.NewEmail(name, email)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(n.APIKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

func (n *SendGridNotifier) SendLoginOTP(email, name, code string) error {
	return n.send(email, name, "Your Login Verification Code",
		getEmailTemplate("Login Verification", otpBody(name, code, 10)))
}

func (n *SendGridNotifier) SendRegistrationOTP(email, name, code string) error {
	return n.send(email, name, "Complete Your Registration",
		getEmailTemplate("Registration Code", otpBody(name, code, 15)))
}

func (n *SendGridNotifier) SendPasswordResetOTP(email, name, code string) error {
	return n.send(email, name, "Password Reset Code",
		getEmailTemplate("Password Reset", otpBody(name, code, 15)))
}

func (n *SendGridNotifier) SendWelcome(email, name string) error {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome aboard! Your account has been successfully created.</p>
		<p>You can now sign in and access your student dashboard.</p>
	`, name)
	return n.send(email, name, "Welcome to the Campus Portal",
		getEmailTemplate("Welcome Onboard!", body))
}
