package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmail(t *testing.T) {
	c, err := ParseEmail("  A@B.com ")
	require.NoError(t, err)
	assert.Equal(t, Contact{Channel: ChannelEmail, Address: "a@b.com"}, c)

	_, err = ParseEmail("")
	assert.True(t, errors.Is(err, ErrBadRequest))
	assert.Equal(t, "Please provide a email", Message(err))

	_, err = ParseEmail("nope@")
	assert.Equal(t, "Please provide a valid email", Message(err))
}

func TestParsePhone(t *testing.T) {
	c, err := ParsePhone("9876543210")
	require.NoError(t, err)
	assert.Equal(t, ChannelPhone, c.Channel)

	_, err = ParsePhone("98765")
	assert.True(t, errors.Is(err, ErrBadRequest))
}

func TestNewOtpRecord(t *testing.T) {
	c := Contact{Channel: ChannelEmail, Address: "a@b.com"}
	r := NewOtpRecord(c, "123456", now, 10*time.Minute, time.Hour)

	assert.Equal(t, OTPStatusPending, r.Status)
	assert.Equal(t, OTPTypeVerification, r.Type)
	assert.Equal(t, now.Add(10*time.Minute), r.ExpiresAt)
	assert.Equal(t, now.Add(70*time.Minute), r.PurgeAt)
	assert.True(t, r.Outstanding(now))
	assert.False(t, r.Outstanding(now.Add(10*time.Minute)))

	r.Status = OTPStatusVerified
	assert.False(t, r.Outstanding(now))
}

func TestMessage_TrimsSentinel(t *testing.T) {
	err := fmt.Errorf("donor not found: %w", ErrNotFound)
	assert.Equal(t, "donor not found", Message(err))
	assert.Nil(t, Fields(err))
}

func TestMessage_DomainErrorThroughWrapping(t *testing.T) {
	err := fmt.Errorf("login: %w", NotFound("User not found"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "User not found", Message(err))
	assert.Equal(t, "login: not found: User not found", err.Error())
}
