package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inner struct {
	City string `json:"city" validate:"required"`
}

type sample struct {
	Email   string `json:"email" validate:"required,contact_email"`
	Phone   string `json:"phone" validate:"omitempty,phone10"`
	Address *inner `json:"address" validate:"required"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(sample{Email: "a@b.com", Phone: "9876543210", Address: &inner{City: "Pune"}})
	assert.NoError(t, err)
}

func TestStruct_ReportsJSONPaths(t *testing.T) {
	err := Struct(sample{Email: "not-an-email", Phone: "123", Address: &inner{}})
	require.Error(t, err)

	var vs Violations
	require.True(t, errors.As(err, &vs))
	byField := map[string]Violation{}
	for _, x := range vs {
		byField[x.Field] = x
	}
	assert.Equal(t, "contact_email", byField["email"].Tag)
	assert.Equal(t, "phone10", byField["phone"].Tag)
	assert.Equal(t, "required", byField["address.city"].Tag)
	assert.True(t, byField["address.city"].Nested())
	assert.False(t, byField["email"].Nested())
}

func TestStruct_MissingNestedStruct(t *testing.T) {
	err := Struct(sample{Email: "a@b.com"})
	var vs Violations
	require.True(t, errors.As(err, &vs))
	require.Len(t, vs, 1)
	assert.Equal(t, "address", vs[0].Field)
	assert.Equal(t, "required", vs[0].Tag)
}

func TestPatterns(t *testing.T) {
	assert.True(t, EmailPattern.MatchString("donor.one@blood.org"))
	assert.False(t, EmailPattern.MatchString("donor@blood"))
	assert.True(t, PhonePattern.MatchString("0123456789"))
	assert.False(t, PhonePattern.MatchString("+910123456789"))
}
