package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"jobboard/internal/logging"
	"jobboard/internal/notify"
	"jobboard/pkg/utils"
)

var (
	// ErrInvalidCode covers wrong, expired, consumed and never-issued codes alike
	ErrInvalidCode = errors.New("invalid otp")
	ErrRateLimited = errors.New("too many otp requests")
)

const (
	codeMin = 100000
	codeMax = 999999
)

// Service issues and verifies one-time codes sent over SMS
type Service struct {
	store   Store
	sms     notify.SMSSender
	limiter *RateLimiter
	ttl     time.Duration
	logger  logging.Logger
	newCode func() (string, error)
}

func NewService(store Store, sms notify.SMSSender, limiter *RateLimiter, ttl time.Duration, logger logging.Logger) *Service {
	if limiter == nil {
		limiter = NewRateLimiter(0, 0, 0)
	}
	return &Service{
		store:   store,
		sms:     sms,
		limiter: limiter,
		ttl:     ttl,
		logger:  logger.WithField("component", "otp"),
		newCode: GenerateCode,
	}
}

// GenerateCode returns a uniformly random six digit code
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}

// Issue stores a fresh code for phone and sends it by SMS. The code is stored
// before sending and stays valid if the send fails.
func (s *Service) Issue(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", utils.NewFieldValidationError("phoneNumber", "Phone number is required.")
	}
	if !s.limiter.Allow(phone) {
		s.logger.Warn("otp rate limit hit", map[string]interface{}{"phone": mask(phone)})
		return "", ErrRateLimited
	}

	code, err := s.newCode()
	if err != nil {
		return "", err
	}
	if err := s.store.Put(ctx, phone, code, s.ttl); err != nil {
		return "", err
	}

	if err := s.sms.SendSMS(ctx, phone, "Your OTP code is "+code); err != nil {
		s.logger.Error("otp delivery failed", map[string]interface{}{"phone": mask(phone), "error": err.Error()})
		return code, fmt.Errorf("failed to send otp: %w", err)
	}

	s.logger.Info("otp issued", map[string]interface{}{"phone": mask(phone)})
	return code, nil
}

// Verify consumes the code for phone. Any mismatch returns ErrInvalidCode.
func (s *Service) Verify(ctx context.Context, phone, code string) error {
	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)
	if phone == "" || code == "" {
		return utils.NewValidationError("Phone number and OTP are required.")
	}

	ok, err := s.store.Consume(ctx, phone, code)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Info("otp rejected", map[string]interface{}{"phone": mask(phone)})
		return ErrInvalidCode
	}

	s.logger.Info("otp verified", map[string]interface{}{"phone": mask(phone)})
	return nil
}

// mask keeps only the last four digits of a phone number for logs
func mask(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
