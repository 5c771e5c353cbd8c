package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"time"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// PaymentReminder carries the data rendered into a dunning email
type PaymentReminder struct {
	CustomerName  string
	InvoiceNumber string
	Outstanding   string
	DueDate       time.Time
	ReminderNo    int
}

// SendPaymentReminderEmail sends a dunning email for an overdue receivable
func (s *EmailService) SendPaymentReminderEmail(toEmail string, reminder PaymentReminder) error {
	htmlContent, err := s.renderPaymentReminderEmail(reminder)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Payment reminder %d for invoice %s", reminder.ReminderNo, reminder.InvoiceNumber)
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)
	return []byte(headers + htmlBody)
}

const paymentReminderTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Payment Reminder</h2>
	<p>Dear {{.CustomerName}},</p>
	<p>
		Our records show that invoice <strong>{{.InvoiceNumber}}</strong>,
		due on <strong>{{.DueDate.Format "2006-01-02"}}</strong>, has an
		outstanding balance of <strong>{{.Outstanding}}</strong>.
	</p>
	<p>
		This is reminder number {{.ReminderNo}}. Please settle the open amount
		at your earliest convenience. If you have already paid, please
		disregard this message.
	</p>
	<p>Kind regards,<br>{{.FromName}}</p>
</body>
</html>
`

// renderPaymentReminderEmail renders the dunning email body
func (s *EmailService) renderPaymentReminderEmail(reminder PaymentReminder) (string, error) {
	tmpl, err := template.New("payment_reminder").Parse(paymentReminderTemplate)
	if err != nil {
		return "", err
	}

	data := struct {
		PaymentReminder
		FromName string
	}{
		PaymentReminder: reminder,
		FromName:        s.config.FromName,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
