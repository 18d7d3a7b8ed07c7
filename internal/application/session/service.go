package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bloodlink-api/internal/domain"
	"go.uber.org/zap"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Result is a signed-in account profile and its token pair.
type Result struct {
	Account domain.Account
	Tokens  domain.TokenPair
}

type Service interface {
	Login(ctx context.Context, kind domain.AccountKind, req LoginRequest) (*Result, error)
	Refresh(ctx context.Context, refreshToken string) (*Result, error)
	// Authenticate resolves an access token to the profile it was issued for.
	Authenticate(ctx context.Context, accessToken string) (domain.Account, error)
}

type accountReader interface {
	// FindByEmail includes the password hash.
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
	// FindByID excludes the password hash.
	FindByID(ctx context.Context, id string) (domain.Account, error)
}

type tokenProvider interface {
	SignAccess(a domain.Account) (string, error)
	SignRefresh(a domain.Account) (string, error)
	VerifyAccess(token string) (string, domain.AccountKind, error)
	VerifyRefresh(token string) (string, domain.AccountKind, error)
}

type service struct {
	accounts map[domain.AccountKind]accountReader
	tokens   tokenProvider
	log      *zap.Logger
}

type ServiceDeps struct {
	Donors accountReader
	Camps  accountReader
	Tokens tokenProvider
	Logger *zap.Logger
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		accounts: map[domain.AccountKind]accountReader{},
		tokens:   deps.Tokens,
		log:      deps.Logger,
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
	return s
}

func (s *service) reader(kind domain.AccountKind) (accountReader, error) {
	r, ok := s.accounts[kind]
	if !ok {
		return nil, fmt.Errorf("no account store for kind %q", kind)
	}
	return r, nil
}

func (s *service) Login(ctx context.Context, kind domain.AccountKind, req LoginRequest) (*Result, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, domain.BadRequest("Please provide all the required fields")
	}
	r, err := s.reader(kind)
	if err != nil {
		return nil, err
	}

	acct, err := r.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if !domain.CheckSecret(acct, req.Password) {
		return nil, domain.BadRequest("Invalid credentials")
	}

	pair, err := s.sign(acct)
	if err != nil {
		return nil, err
	}
	profile, err := r.FindByID(ctx, acct.AccountID())
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &Result{Account: profile, Tokens: pair}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*Result, error) {
	if refreshToken == "" {
		return nil, domain.Unauthorized("Refresh token is required")
	}
	sub, kind, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, domain.Unauthorized("Invalid refresh token")
	}
	acct, err := s.load(ctx, sub, kind)
	if err != nil {
		return nil, err
	}
	pair, err := s.sign(acct)
	if err != nil {
		return nil, err
	}
	return &Result{Account: acct, Tokens: pair}, nil
}

func (s *service) Authenticate(ctx context.Context, accessToken string) (domain.Account, error) {
	if accessToken == "" {
		return nil, domain.Unauthorized("Unauthorized request")
	}
	sub, kind, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, domain.Unauthorized("Invalid access token")
	}
	return s.load(ctx, sub, kind)
}

// load fetches the profile a verified token names. A token for a deleted
// account or an unknown kind is unauthorized rather than not found.
func (s *service) load(ctx context.Context, sub string, kind domain.AccountKind) (domain.Account, error) {
	r, err := s.reader(kind)
	if err != nil {
		return nil, domain.Unauthorized("Invalid token")
	}
	acct, err := r.FindByID(ctx, sub)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Unauthorized("Invalid token")
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return acct, nil
}

func (s *service) sign(a domain.Account) (domain.TokenPair, error) {
	access, err := s.tokens.SignAccess(a)
	if err == nil && access == "" {
		err = errors.New("empty access token")
	}
	if err != nil {
		s.log.Error("sign access token", zap.String("account_id", a.AccountID()), zap.Error(err))
		return domain.TokenPair{}, domain.Internal("Token generation failed")
	}
	refresh, err := s.tokens.SignRefresh(a)
	if err == nil && refresh == "" {
		err = errors.New("empty refresh token")
	}
	if err != nil {
		s.log.Error("sign refresh token", zap.String("account_id", a.AccountID()), zap.Error(err))
		return domain.TokenPair{}, domain.Internal("Token generation failed")
	}
	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}
