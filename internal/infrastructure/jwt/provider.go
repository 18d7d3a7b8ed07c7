package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/bloodlink-api/internal/config"
	"github.com/bloodlink-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the access token payload.
type AccessClaims struct {
	Kind     domain.AccountKind `json:"kind"`
	FullName string             `json:"fullName"`
	Email    string             `json:"email"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only the subject and its account kind.
type RefreshClaims struct {
	Kind domain.AccountKind `json:"kind"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs. Access and refresh tokens use
// separate secrets so one cannot stand in for the other.
type Provider struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

func NewProvider(cfg config.Tokens) (*Provider, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("jwt: access and refresh secrets are required")
	}
	return &Provider{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
		now:           time.Now,
	}, nil
}

func (p *Provider) registered(sub string, ttl time.Duration) jwt.RegisteredClaims {
	now := p.now()
	return jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

// SignAccess issues an access token for a.
func (p *Provider) SignAccess(a domain.Account) (string, error) {
	claims := AccessClaims{
		Kind:             a.Kind(),
		FullName:         a.DisplayName(),
		Email:            a.LoginEmail(),
		RegisteredClaims: p.registered(a.AccountID(), p.accessExpiry),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.accessSecret)
}

// SignRefresh issues a refresh token for a.
func (p *Provider) SignRefresh(a domain.Account) (string, error) {
	claims := RefreshClaims{
		Kind:             a.Kind(),
		RegisteredClaims: p.registered(a.AccountID(), p.refreshExpiry),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.refreshSecret)
}

// VerifyAccess returns the subject and kind of a valid access token.
func (p *Provider) VerifyAccess(tokenStr string) (string, domain.AccountKind, error) {
	var c AccessClaims
	if err := p.parse(tokenStr, &c, p.accessSecret); err != nil {
		return "", "", err
	}
	return c.Subject, c.Kind, nil
}

// VerifyRefresh returns the subject and kind of a valid refresh token.
func (p *Provider) VerifyRefresh(tokenStr string) (string, domain.AccountKind, error) {
	var c RefreshClaims
	if err := p.parse(tokenStr, &c, p.refreshSecret); err != nil {
		return "", "", err
	}
	return c.Subject, c.Kind, nil
}

func (p *Provider) parse(tokenStr string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrUnauthorized)
	}
	if !token.Valid {
		return fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}
	sub, _ := claims.GetSubject()
	if sub == "" {
		return fmt.Errorf("token without subject: %w", domain.ErrUnauthorized)
	}
	return nil
}
