package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/emailotp-api/internal/domain"
	"github.com/emailotp-api/internal/pkg/id"
	"github.com/emailotp-api/internal/pkg/validate"
)

type SendRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,max=100"`
}

type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// CooldownError is returned by Send when a code was issued too recently.
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("code already sent, retry in %ds", int(e.RetryAfter.Round(time.Second).Seconds()))
}

func (e *CooldownError) Unwrap() error { return domain.ErrConflict }

type Service interface {
	Send(ctx context.Context, req SendRequest) error
	Verify(ctx context.Context, req VerifyRequest) error
}

// OTPStore is the subset of the OTP repository the service needs.
type OTPStore interface {
	Put(ctx context.Context, o *domain.EmailOTP) error
	Get(ctx context.Context, email string) (*domain.EmailOTP, error)
	IncrementAttempts(ctx context.Context, email string) (int, error)
	Delete(ctx context.Context, email string) error
}

type EmailLogStore interface {
	Put(ctx context.Context, l *domain.EmailLog) error
}

type Mailer interface {
	SendEmail(to, subject, body string) error
}

// ServiceDeps groups the otp service dependencies.
type ServiceDeps struct {
	OTPRepo     OTPStore
	LogRepo     EmailLogStore
	Mailer      Mailer
	TTL         time.Duration
	MaxAttempts int
	Cooldown    time.Duration
	Now         func() time.Time // defaults to time.Now
}

type service struct {
	otpRepo     OTPStore
	logRepo     EmailLogStore
	mailer      Mailer
	ttl         time.Duration
	maxAttempts int
	cooldown    time.Duration
	now         func() time.Time
}

func NewService(d ServiceDeps) Service {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		otpRepo:     d.OTPRepo,
		logRepo:     d.LogRepo,
		mailer:      d.Mailer,
		ttl:         d.TTL,
		maxAttempts: d.MaxAttempts,
		cooldown:    d.Cooldown,
		now:         now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateCode returns a uniformly random code in 100000..999999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func (s *service) Send(ctx context.Context, req SendRequest) error {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}

	now := s.now()
	prev, err := s.otpRepo.Get(ctx, req.Email)
	switch {
	case err == nil:
		if elapsed := now.Sub(time.Unix(prev.CreatedAt, 0)); elapsed < s.cooldown {
			return &CooldownError{RetryAfter: s.cooldown - elapsed}
		}
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("lookup otp: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	o := &domain.EmailOTP{
		Email:     req.Email,
		Code:      code,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	if err := s.otpRepo.Put(ctx, o); err != nil {
		s.logAttempt(ctx, req.Email, err)
		return fmt.Errorf("store otp: %w", err)
	}

	body := fmt.Sprintf("Hello %s,\n\nYour verification code is %s.\nIt expires in %d minutes.\n",
		req.Name, code, int(s.ttl.Minutes()))
	if err := s.mailer.SendEmail(req.Email, "Your verification code", body); err != nil {
		s.logAttempt(ctx, req.Email, err)
		return fmt.Errorf("send otp email: %w", err)
	}
	s.logAttempt(ctx, req.Email, nil)
	return nil
}

// logAttempt records the send outcome. Failures are logged and swallowed.
func (s *service) logAttempt(ctx context.Context, email string, sendErr error) {
	l := &domain.EmailLog{
		LogID:     id.New(),
		Email:     email,
		Type:      "otp",
		Status:    domain.EmailStatusSent,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	if sendErr != nil {
		l.Status = domain.EmailStatusFailed
		l.Error = sendErr.Error()
	}
	if err := s.logRepo.Put(ctx, l); err != nil {
		slog.Warn("failed to write email log", "email", email, "err", err)
	}
}

func (s *service) Verify(ctx context.Context, req VerifyRequest) error {
	req.Email = normalizeEmail(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}

	o, err := s.otpRepo.Get(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no active code for this email: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("lookup otp: %w", err)
	}
	if o.ExpiresAt <= s.now().Unix() {
		return fmt.Errorf("code expired: %w", domain.ErrUnauthorized)
	}
	if o.Attempts >= s.maxAttempts {
		return fmt.Errorf("maximum verification attempts reached: %w", domain.ErrUnauthorized)
	}

	if subtle.ConstantTimeCompare([]byte(o.Code), []byte(req.Code)) != 1 {
		attempts, incErr := s.otpRepo.IncrementAttempts(ctx, req.Email)
		if incErr != nil {
			slog.Warn("failed to record otp attempt", "email", req.Email, "err", incErr)
			attempts = o.Attempts + 1
		}
		remaining := s.maxAttempts - attempts
		if remaining < 0 {
			remaining = 0
		}
		return fmt.Errorf("invalid code, %d attempts remaining: %w", remaining, domain.ErrUnauthorized)
	}

	if err := s.otpRepo.Delete(ctx, req.Email); err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	slog.Info("email verified", "email", req.Email)
	return nil
}
