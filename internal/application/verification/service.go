package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/bloodlink-api/internal/domain"
	"go.uber.org/zap"
)

type Service interface {
	// IssueCode stores a fresh pending code for contact and sends it.
	IssueCode(ctx context.Context, kind domain.AccountKind, contact domain.Contact) error
	// VerifyCode marks the pending code for address verified.
	VerifyCode(ctx context.Context, address, code string) error
}

type otpStore interface {
	Issue(ctx context.Context, rec *domain.OtpRecord) error
	Verify(ctx context.Context, address, code string, now time.Time) error
	Discard(ctx context.Context, address, code string) error
}

type accountChecker interface {
	ContactTaken(ctx context.Context, c domain.Contact) (bool, error)
}

type notifier interface {
	Deliver(ctx context.Context, msg domain.OTPMessage) error
}

type service struct {
	otps      otpStore
	accounts  map[domain.AccountKind]accountChecker
	notifier  notifier
	ttl       time.Duration
	retention time.Duration
	log       *zap.Logger
	now       func() time.Time
	newCode   func() (string, error)
}

type ServiceDeps struct {
	OTPRepo   otpStore
	Donors    accountChecker
	Camps     accountChecker
	Notifier  notifier
	CodeTTL   time.Duration
	Retention time.Duration
	Logger    *zap.Logger
	// Now and NewCode default to time.Now and a random 6-digit code.
	Now     func() time.Time
	NewCode func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		otps:      deps.OTPRepo,
		accounts:  map[domain.AccountKind]accountChecker{},
		notifier:  deps.Notifier,
		ttl:       deps.CodeTTL,
		retention: deps.Retention,
		log:       deps.Logger,
		now:       deps.Now,
		newCode:   deps.NewCode,
	}
	if deps.Donors != nil {
		s.accounts[domain.KindDonor] = deps.Donors
	}
	if deps.Camps != nil {
		s.accounts[domain.KindCamp] = deps.Camps
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newCode == nil {
		s.newCode = generateCode
	}
	return s
}

// generateCode returns a uniformly random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *service) IssueCode(ctx context.Context, kind domain.AccountKind, contact domain.Contact) error {
	checker, ok := s.accounts[kind]
	if !ok {
		return fmt.Errorf("no account store for kind %q", kind)
	}
	taken, err := checker.ContactTaken(ctx, contact)
	if err != nil {
		return fmt.Errorf("check existing account: %w", err)
	}
	if taken {
		if contact.Channel == domain.ChannelPhone {
			return domain.Conflict("Phone number already registered")
		}
		return domain.Conflict("Email already registered")
	}

	code, err := s.newCode()
	if err != nil {
		return err
	}
	rec := domain.NewOtpRecord(contact, code, s.now(), s.ttl, s.retention)
	if err := s.otps.Issue(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Conflict(fmt.Sprintf("OTP already sent to %s, please check your %s", contact.Address, contact.Channel))
		}
		return fmt.Errorf("store otp: %w", err)
	}

	msg := domain.OTPMessage{
		Channel:      contact.Channel,
		Address:      contact.Address,
		Code:         code,
		ValidMinutes: int(s.ttl / time.Minute),
	}
	if err := s.notifier.Deliver(ctx, msg); err != nil {
		// Free the address so the caller can ask again right away.
		if dErr := s.otps.Discard(ctx, contact.Address, code); dErr != nil {
			s.log.Warn("discard undelivered otp", zap.String("address", contact.Address), zap.Error(dErr))
		}
		return fmt.Errorf("deliver otp: %w", err)
	}
	return nil
}

func (s *service) VerifyCode(ctx context.Context, address, code string) error {
	address = strings.ToLower(strings.TrimSpace(address))
	code = strings.TrimSpace(code)
	if address == "" || code == "" {
		return domain.BadRequest("Please provide all the required fields")
	}
	err := s.otps.Verify(ctx, address, code, s.now())
	if errors.Is(err, domain.ErrNotFound) {
		return domain.BadRequest("Invalid OTP")
	}
	if err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	return nil
}
