package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bloodlink-api/internal/domain"
	"github.com/bloodlink-api/internal/pkg/id"
	"go.uber.org/zap"
)

// Result is a newly created account with its first token pair.
type Result struct {
	Account domain.Account
	Tokens  domain.TokenPair
}

type Service interface {
	RegisterDonor(ctx context.Context, req domain.RegisterDonorRequest) (*Result, error)
	RegisterCamp(ctx context.Context, req domain.RegisterCampRequest) (*Result, error)
}

type otpStore interface {
	Get(ctx context.Context, address string) (*domain.OtpRecord, error)
	Consume(ctx context.Context, address string) error
}

type donorStore interface {
	ContactTaken(ctx context.Context, c domain.Contact) (bool, error)
	Create(ctx context.Context, d *domain.Donor) error
}

type campStore interface {
	ContactTaken(ctx context.Context, c domain.Contact) (bool, error)
	Create(ctx context.Context, c *domain.Camp) error
}

type contactChecker interface {
	ContactTaken(ctx context.Context, c domain.Contact) (bool, error)
}

type tokenSigner interface {
	SignAccess(a domain.Account) (string, error)
	SignRefresh(a domain.Account) (string, error)
}

type service struct {
	otps   otpStore
	donors donorStore
	camps  campStore
	tokens tokenSigner
	log    *zap.Logger
	now    func() time.Time
}

type ServiceDeps struct {
	OTPRepo   otpStore
	DonorRepo donorStore
	CampRepo  campStore
	Tokens    tokenSigner
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		otps:   deps.OTPRepo,
		donors: deps.DonorRepo,
		camps:  deps.CampRepo,
		tokens: deps.Tokens,
		log:    deps.Logger,
		now:    deps.Now,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) RegisterDonor(ctx context.Context, req domain.RegisterDonorRequest) (*Result, error) {
	d, err := domain.NewDonor(&req, s.now())
	if err != nil {
		return nil, err
	}
	d.DonorID = id.New()
	return s.register(ctx, d, s.donors, func() error { return s.donors.Create(ctx, d) })
}

func (s *service) RegisterCamp(ctx context.Context, req domain.RegisterCampRequest) (*Result, error) {
	c, err := domain.NewCamp(&req)
	if err != nil {
		return nil, err
	}
	c.CampID = id.New()
	return s.register(ctx, c, s.camps, func() error { return s.camps.Create(ctx, c) })
}

// register runs the steps shared by both account kinds once the payload is
// valid: verified email, no existing account, create, sign, consume the code.
// The store's Create runs the save hook that hashes the password.
func (s *service) register(ctx context.Context, acct domain.Account, existing contactChecker, create func() error) (*Result, error) {
	email := acct.LoginEmail()

	rec, err := s.otps.Get(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load otp: %w", err)
	}
	if rec == nil || rec.Status != domain.OTPStatusVerified {
		return nil, domain.BadRequest("Please verify your email first")
	}

	for _, c := range acct.Contacts() {
		taken, err := existing.ContactTaken(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("check existing account: %w", err)
		}
		if taken {
			return nil, domain.BadRequest("User already exists")
		}
	}

	if err := create(); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.BadRequest("User already exists")
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	pair, err := signPair(s.tokens, acct)
	if err != nil {
		s.log.Error("sign tokens after registration", zap.String("account_id", acct.AccountID()), zap.Error(err))
		return nil, domain.Internal("Token generation failed")
	}

	if err := s.otps.Consume(ctx, email); err != nil {
		s.log.Warn("consume otp", zap.String("address", email), zap.Error(err))
	}

	return &Result{Account: acct, Tokens: pair}, nil
}

func signPair(signer tokenSigner, a domain.Account) (domain.TokenPair, error) {
	access, err := signer.SignAccess(a)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := signer.SignRefresh(a)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if access == "" || refresh == "" {
		return domain.TokenPair{}, errors.New("empty token")
	}
	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}
