package jwtinfra

import (
	"errors"
	"testing"
	"time"

	"github.com/bloodlink-api/internal/config"
	"github.com/bloodlink-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider(config.Tokens{
		AccessSecret:  "access-secret",
		AccessExpiry:  time.Hour,
		RefreshSecret: "refresh-secret",
		RefreshExpiry: 24 * time.Hour,
	})
	require.NoError(t, err)
	return p
}

func testDonor() *domain.Donor {
	return &domain.Donor{DonorID: "01HX", FullName: "Asha Rao", Email: "asha@example.com"}
}

func TestNewProvider_RequiresSecrets(t *testing.T) {
	_, err := NewProvider(config.Tokens{AccessSecret: "a"})
	assert.Error(t, err)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	p := newTestProvider(t)
	tok, err := p.SignAccess(testDonor())
	require.NoError(t, err)

	sub, kind, err := p.VerifyAccess(tok)
	require.NoError(t, err)
	assert.Equal(t, "01HX", sub)
	assert.Equal(t, domain.KindDonor, kind)

	var c AccessClaims
	_, _, err = jwt.NewParser().ParseUnverified(tok, &c)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", c.FullName)
	assert.Equal(t, "asha@example.com", c.Email)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	p := newTestProvider(t)
	tok, err := p.SignRefresh(&domain.Camp{CampID: "C1"})
	require.NoError(t, err)

	sub, kind, err := p.VerifyRefresh(tok)
	require.NoError(t, err)
	assert.Equal(t, "C1", sub)
	assert.Equal(t, domain.KindCamp, kind)
}

func TestTokens_NotInterchangeable(t *testing.T) {
	p := newTestProvider(t)
	access, _ := p.SignAccess(testDonor())
	refresh, _ := p.SignRefresh(testDonor())

	_, _, err := p.VerifyRefresh(access)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	_, _, err = p.VerifyAccess(refresh)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestVerify_Expired(t *testing.T) {
	p := newTestProvider(t)
	p.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := p.SignAccess(testDonor())
	require.NoError(t, err)

	p.now = time.Now
	_, _, err = p.VerifyAccess(tok)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestVerify_Garbage(t *testing.T) {
	p := newTestProvider(t)
	_, _, err := p.VerifyAccess("not-a-token")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
