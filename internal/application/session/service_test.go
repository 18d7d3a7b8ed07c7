package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bloodlink-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockReader struct{ mock.Mock }

func (m *mockReader) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	args := m.Called(ctx, email)
	if a, _ := args.Get(0).(domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockReader) FindByID(ctx context.Context, id string) (domain.Account, error) {
	args := m.Called(ctx, id)
	if a, _ := args.Get(0).(domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) SignAccess(a domain.Account) (string, error) {
	args := m.Called(a)
	return args.String(0), args.Error(1)
}
func (m *mockTokens) SignRefresh(a domain.Account) (string, error) {
	args := m.Called(a)
	return args.String(0), args.Error(1)
}
func (m *mockTokens) VerifyAccess(token string) (string, domain.AccountKind, error) {
	args := m.Called(token)
	return args.String(0), args.Get(1).(domain.AccountKind), args.Error(2)
}
func (m *mockTokens) VerifyRefresh(token string) (string, domain.AccountKind, error) {
	args := m.Called(token)
	return args.String(0), args.Get(1).(domain.AccountKind), args.Error(2)
}

// --- helpers ---

func storedDonor(t *testing.T) *domain.Donor {
	t.Helper()
	d := &domain.Donor{DonorID: "D1", FullName: "Asha Rao", Email: "a@b.com", Phone: "9876543210", Password: "p1"}
	require.NoError(t, d.PrepareForSave(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	return d
}

func profileOf(d *domain.Donor) *domain.Donor {
	p := *d
	p.PasswordHash = ""
	return &p
}

func newService(donors, camps *mockReader, tokens *mockTokens) Service {
	return NewService(ServiceDeps{Donors: donors, Camps: camps, Tokens: tokens})
}

func notFound() error { return fmt.Errorf("donor not found: %w", domain.ErrNotFound) }

// --- Login ---

func TestLogin_Success(t *testing.T) {
	donors, tokens := &mockReader{}, &mockTokens{}
	d := storedDonor(t)
	donors.On("FindByEmail", mock.Anything, "a@b.com").Return(d, nil)
	donors.On("FindByID", mock.Anything, "D1").Return(profileOf(d), nil)
	tokens.On("SignAccess", d).Return("access", nil)
	tokens.On("SignRefresh", d).Return("refresh", nil)

	res, err := newService(donors, &mockReader{}, tokens).
		Login(context.Background(), domain.KindDonor, LoginRequest{Email: " A@B.com", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, domain.TokenPair{Access: "access", Refresh: "refresh"}, res.Tokens)
	assert.Empty(t, res.Account.SecretHash())
	donors.AssertExpectations(t)
}

func TestLogin_MissingFields(t *testing.T) {
	donors := &mockReader{}
	svc := newService(donors, &mockReader{}, &mockTokens{})

	for _, req := range []LoginRequest{{Email: "a@b.com"}, {Password: "p1"}, {}} {
		_, err := svc.Login(context.Background(), domain.KindDonor, req)
		assert.True(t, errors.Is(err, domain.ErrBadRequest))
		assert.Equal(t, "Please provide all the required fields", domain.Message(err))
	}
	donors.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmail_NotFound(t *testing.T) {
	camps := &mockReader{}
	camps.On("FindByEmail", mock.Anything, "x@y.com").Return(nil, notFound())

	_, err := newService(&mockReader{}, camps, &mockTokens{}).
		Login(context.Background(), domain.KindCamp, LoginRequest{Email: "x@y.com", Password: "p1"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "User not found", domain.Message(err))
}

func TestLogin_WrongPassword(t *testing.T) {
	donors, tokens := &mockReader{}, &mockTokens{}
	donors.On("FindByEmail", mock.Anything, "a@b.com").Return(storedDonor(t), nil)

	_, err := newService(donors, &mockReader{}, tokens).
		Login(context.Background(), domain.KindDonor, LoginRequest{Email: "a@b.com", Password: "wrong"})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Equal(t, "Invalid credentials", domain.Message(err))
	tokens.AssertNotCalled(t, "SignAccess", mock.Anything)
}

func TestLogin_SigningFailure_Internal(t *testing.T) {
	donors, tokens := &mockReader{}, &mockTokens{}
	donors.On("FindByEmail", mock.Anything, "a@b.com").Return(storedDonor(t), nil)
	tokens.On("SignAccess", mock.Anything).Return("", errors.New("boom"))

	_, err := newService(donors, &mockReader{}, tokens).
		Login(context.Background(), domain.KindDonor, LoginRequest{Email: "a@b.com", Password: "p1"})
	assert.True(t, errors.Is(err, domain.ErrInternal))
	assert.Equal(t, "Token generation failed", domain.Message(err))
}

// --- Refresh ---

func TestRefresh_Success(t *testing.T) {
	donors, tokens := &mockReader{}, &mockTokens{}
	p := profileOf(storedDonor(t))
	tokens.On("VerifyRefresh", "rt").Return("D1", domain.KindDonor, nil)
	donors.On("FindByID", mock.Anything, "D1").Return(p, nil)
	tokens.On("SignAccess", p).Return("access2", nil)
	tokens.On("SignRefresh", p).Return("refresh2", nil)

	res, err := newService(donors, &mockReader{}, tokens).Refresh(context.Background(), "rt")
	require.NoError(t, err)
	assert.Equal(t, "access2", res.Tokens.Access)
	assert.Equal(t, "refresh2", res.Tokens.Refresh)
}

func TestRefresh_InvalidToken(t *testing.T) {
	tokens := &mockTokens{}
	tokens.On("VerifyRefresh", "bad").Return("", domain.AccountKind(""), errors.New("signature is invalid"))
	svc := newService(&mockReader{}, &mockReader{}, tokens)

	_, err := svc.Refresh(context.Background(), "bad")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = svc.Refresh(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestRefresh_DeletedAccount_Unauthorized(t *testing.T) {
	donors, tokens := &mockReader{}, &mockTokens{}
	tokens.On("VerifyRefresh", "rt").Return("D1", domain.KindDonor, nil)
	donors.On("FindByID", mock.Anything, "D1").Return(nil, notFound())

	_, err := newService(donors, &mockReader{}, tokens).Refresh(context.Background(), "rt")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

// --- Authenticate ---

func TestAuthenticate_LoadsProfileForKind(t *testing.T) {
	camps, tokens := &mockReader{}, &mockTokens{}
	camp := &domain.Camp{CampID: "C1", OrganizerEmail: "o@camp.org"}
	tokens.On("VerifyAccess", "at").Return("C1", domain.KindCamp, nil)
	camps.On("FindByID", mock.Anything, "C1").Return(camp, nil)

	acct, err := newService(&mockReader{}, camps, tokens).Authenticate(context.Background(), "at")
	require.NoError(t, err)
	assert.Equal(t, domain.KindCamp, acct.Kind())
	assert.Equal(t, "C1", acct.AccountID())
}

func TestAuthenticate_Rejects(t *testing.T) {
	tokens := &mockTokens{}
	tokens.On("VerifyAccess", "expired").Return("", domain.AccountKind(""), errors.New("token is expired"))
	tokens.On("VerifyAccess", "odd-kind").Return("X1", domain.AccountKind("admin"), nil)
	svc := newService(&mockReader{}, &mockReader{}, tokens)

	for _, tok := range []string{"", "expired", "odd-kind"} {
		_, err := svc.Authenticate(context.Background(), tok)
		assert.True(t, errors.Is(err, domain.ErrUnauthorized), tok)
	}
}
