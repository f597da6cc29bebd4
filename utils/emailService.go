package utils

import (
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPNotifier delivers mail over plain SMTP, the default provider.
type SMTPNotifier struct {
	Host     string
	Port     string
	Sender   string
	Password string
}

func NewSMTPNotifier(host, port, sender, password string) *SMTPNotifier {
	return &SMTPNotifier{Host: host, Port: port, Sender: sender, Password: password}
}

func (n *SMTPNotifier) send(to []string, subject, htmlBody string) error {
	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Campus Portal <%s>\r\n", n.Sender)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", n.Sender, n.Password, n.Host)
	return smtp.SendMail(n.Host+":"+n.Port, auth, n.Sender, to, []byte(msg))
}

func (n *SMTPNotifier) SendLoginOTP(email, name, code string) error {
	subject := "Your Login Verification Code"
	return n.send([]string{email}, subject, getEmailTemplate("Login Verification", otpBody(name, code, 10)))
}

func (n *SMTPNotifier) SendRegistrationOTP(email, name, code string) error {
	subject := "Complete Your Registration"
	return n.send([]string{email}, subject, getEmailTemplate("Registration Code", otpBody(name, code, 15)))
}

func (n *SMTPNotifier) SendPasswordResetOTP(email, name, code string) error {
	subject := "Password Reset Code"
	return n.send([]string{email}, subject, getEmailTemplate("Password Reset", otpBody(name, code, 15)))
}

func (n *SMTPNotifier) SendWelcome(email, name string) error {
	subject := "Welcome to the Campus Portal"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome aboard! Your account has been successfully created.</p>
		<p>You can now sign in and access your student dashboard.</p>
		<p>If you have any questions, feel free to reach out to the registrar's office.</p>
	`, name)
	return n.send([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

func otpBody(name, code string, validMinutes int) string {
	greeting := "Hello,"
	if name != "" {
		greeting = fmt.Sprintf("Dear %s,", name)
	}
	return fmt.Sprintf(`
		<p>%s</p>
		<p>Your One Time Password (OTP) is:</p>
		<h1 style="text-align: center; color: #4CAF50; font-size: 40px; margin: 20px 0;">%s</h1>
		<div class="info-box">This code expires in %d minutes. Do not share it with anyone.</div>
	`, greeting, code, validMinutes)
}

// HTML wrapper shared by all outgoing mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #00004D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00004D; line-height: 1.6; }
			.content h2 { color: #00004D; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #d7b56d; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>CAMPUS PORTAL</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Campus Portal. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}
