package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCampRequest() *RegisterCampRequest {
	return &RegisterCampRequest{
		OrganizationName:      "Red Drop Trust",
		OrganizationType:      "NGO",
		OrganizerName:         "Vikram Shah",
		OrganizerMobileNumber: "9123456780",
		OrganizerEmail:        "vikram@reddrop.org",
		CampName:              "Spring Drive",
		Address: &CampAddressRequest{
			AddressLine1: "12 MG Road",
			State:        "Maharashtra",
			City:         "Pune",
			Pincode:      "411001",
		},
		CampDate:              "2026-04-10",
		CampStartTime:         "09:00",
		CampEndTime:           "17:00",
		EstimatedParticipants: 120,
		Password:              "s3cret",
		ConfirmPassword:       "s3cret",
	}
}

func TestNewCamp_Valid(t *testing.T) {
	c, err := NewCamp(validCampRequest())
	require.NoError(t, err)
	assert.Equal(t, "Camp", c.Address.AddressType)
	assert.Equal(t, CampApprovalPending, c.ApprovalStatus)
	assert.Equal(t, KindCamp, c.Kind())
	assert.Equal(t, "vikram@reddrop.org", c.LoginEmail())
}

func TestNewCamp_MissingAddressIsMissingField(t *testing.T) {
	req := validCampRequest()
	req.Address = nil

	_, err := NewCamp(req)
	assert.Equal(t, "All fields are required", Message(err))
}

func TestNewCamp_PasswordCheckedBeforeAddress(t *testing.T) {
	req := validCampRequest()
	req.ConfirmPassword = "other"
	req.Address.City = ""

	_, err := NewCamp(req)
	assert.Equal(t, "Passwords do not match", Message(err))
}

func TestNewCamp_IncompleteAddress(t *testing.T) {
	req := validCampRequest()
	req.Address.City = "  "

	_, err := NewCamp(req)
	assert.True(t, errors.Is(err, ErrBadRequest))
	assert.Equal(t, "All address fields are required", Message(err))
	require.Len(t, Fields(err), 1)
	assert.Equal(t, "address.city", Fields(err)[0].Field)
}

func TestNewCamp_EndBeforeStart(t *testing.T) {
	req := validCampRequest()
	req.CampEndTime = "08:00"

	_, err := NewCamp(req)
	assert.True(t, errors.Is(err, ErrBadRequest))
	require.Len(t, Fields(err), 1)
	assert.Equal(t, "campEndTime", Fields(err)[0].Field)
}

func TestCamp_PrepareForSave(t *testing.T) {
	c, err := NewCamp(validCampRequest())
	require.NoError(t, err)
	require.NoError(t, c.PrepareForSave(now))
	assert.Empty(t, c.Password)
	assert.True(t, CheckSecret(c, "s3cret"))
}
