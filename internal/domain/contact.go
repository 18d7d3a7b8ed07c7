package domain

import (
	"strings"

	"github.com/bloodlink-api/internal/pkg/validate"
)

// Channel is the delivery medium of a contact address.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
	// ChannelWhatsApp only marks a donor's WhatsApp number for uniqueness
	// checks. Codes are never delivered on it.
	ChannelWhatsApp Channel = "whatsapp"
)

// Contact is a syntactically valid email address or phone number.
// Build one with ParseEmail or ParsePhone.
type Contact struct {
	Channel Channel
	Address string
}

func (c Contact) String() string { return c.Address }

// ParseEmail trims and lowercases s and checks it is a deliverable-looking address.
func ParseEmail(s string) (Contact, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Contact{}, BadRequest("Please provide a email")
	}
	if !validate.EmailPattern.MatchString(s) {
		return Contact{}, BadRequest("Please provide a valid email")
	}
	return Contact{Channel: ChannelEmail, Address: s}, nil
}

// ParsePhone accepts a bare 10-digit number.
func ParsePhone(s string) (Contact, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Contact{}, BadRequest("Please provide a phone number")
	}
	if !validate.PhonePattern.MatchString(s) {
		return Contact{}, BadRequest("Please provide a valid phone number")
	}
	return Contact{Channel: ChannelPhone, Address: s}, nil
}
