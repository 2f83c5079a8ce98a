package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"jobboard/internal/config"
	"jobboard/internal/logging"
	"jobboard/pkg/utils"
)

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender sends email through an SMTP relay
type SMTPSender struct {
	from   string
	dialer mailDialer
	logger logging.Logger
}

func NewSMTPSender(cfg *config.Config, logger logging.Logger) *SMTPSender {
	smtp := cfg.SMTP
	return &SMTPSender{
		from:   smtp.FromAddress,
		dialer: gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password),
		logger: logger.WithField("component", "notify.smtp"),
	}
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, htmlMessage string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlMessage)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("email delivery failed", map[string]interface{}{"to": to, "error": err.Error()})
		return utils.NewExternalError("smtp", fmt.Errorf("send to %s: %w", to, err))
	}

	s.logger.Info("email sent", map[string]interface{}{"to": to, "subject": subject})
	return nil
}
