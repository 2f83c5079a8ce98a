package notify

import (
	"context"
	"sync"

	"jobboard/internal/logging"
)

// LogSender stands in for a disabled transport and only logs what would be sent
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger.WithField("component", "notify.log")}
}

func (s *LogSender) SendEmail(ctx context.Context, to, subject, htmlMessage string) error {
	s.logger.Info("email transport disabled, message not sent", map[string]interface{}{
		"to":      to,
		"subject": subject,
	})
	return nil
}

func (s *LogSender) SendSMS(ctx context.Context, phoneNumber, message string) error {
	s.logger.Info("sms transport disabled, message not sent", map[string]interface{}{
		"to":     phoneNumber,
		"length": len(message),
	})
	return nil
}

// Message is a captured outgoing email or sms
type Message struct {
	To      string
	Subject string
	Body    string
}

// Outbox records messages in memory. Set Err to make sends fail.
type Outbox struct {
	mu     sync.Mutex
	Err    error
	Emails []Message
	SMS    []Message
}

func (o *Outbox) SendEmail(ctx context.Context, to, subject, htmlMessage string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return o.Err
	}
	o.Emails = append(o.Emails, Message{To: to, Subject: subject, Body: htmlMessage})
	return nil
}

func (o *Outbox) SendSMS(ctx context.Context, phoneNumber, message string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return o.Err
	}
	o.SMS = append(o.SMS, Message{To: phoneNumber, Body: message})
	return nil
}

// LastSMS returns the most recent sms, if any
func (o *Outbox) LastSMS() (Message, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.SMS) == 0 {
		return Message{}, false
	}
	return o.SMS[len(o.SMS)-1], true
}
