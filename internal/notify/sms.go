package notify

import (
	"context"
	"fmt"

	vonage "github.com/vonage/vonage-go-sdk"

	"jobboard/internal/config"
	"jobboard/internal/logging"
	"jobboard/pkg/utils"
)

// smsResult is the part of a provider reply the sender inspects
type smsResult struct {
	Status    string
	ErrorText string
}

type sendFunc func(from, to, text string) (smsResult, error)

// VonageSender sends SMS through the Vonage SMS API
type VonageSender struct {
	from   string
	send   sendFunc
	logger logging.Logger
}

func NewVonageSender(cfg *config.Config, logger logging.Logger) *VonageSender {
	auth := vonage.CreateAuthFromKeySecret(cfg.SMS.APIKey, cfg.SMS.APISecret)
	client := vonage.NewSMSClient(auth)

	send := func(from, to, text string) (smsResult, error) {
		response, errResp, err := client.Send(from, to, text, vonage.SMSOpts{})
		if err != nil {
			return smsResult{}, err
		}
		if len(response.Messages) > 0 && response.Messages[0].Status == "0" {
			return smsResult{Status: "0"}, nil
		}
		if len(errResp.Messages) > 0 {
			return smsResult{Status: errResp.Messages[0].Status, ErrorText: errResp.Messages[0].ErrorText}, nil
		}
		return smsResult{Status: "unknown", ErrorText: "empty provider response"}, nil
	}

	return newVonageSender(cfg.SMS.From, send, logger)
}

func newVonageSender(from string, send sendFunc, logger logging.Logger) *VonageSender {
	if from == "" {
		from = "VonageAPI"
	}
	return &VonageSender{
		from:   from,
		send:   send,
		logger: logger.WithField("component", "notify.vonage"),
	}
}

func (s *VonageSender) SendSMS(ctx context.Context, phoneNumber, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := s.send(s.from, phoneNumber, message)
	if err != nil {
		s.logger.Error("sms request failed", map[string]interface{}{"error": err.Error()})
		return utils.NewExternalError("sms", err)
	}
	if res.Status != "0" {
		s.logger.Warn("sms rejected by provider", map[string]interface{}{
			"status": res.Status,
			"error":  res.ErrorText,
		})
		return utils.NewExternalError("sms", fmt.Errorf("status %s: %s", res.Status, res.ErrorText))
	}

	s.logger.Info("sms sent")
	return nil
}
