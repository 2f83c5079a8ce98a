package notify

import "context"

// EmailSender delivers html email
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, htmlMessage string) error
}

// SMSSender delivers a text message to a phone number
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, message string) error
}
