package domain

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AccountKind distinguishes the two registrable actors.
type AccountKind string

const (
	KindDonor AccountKind = "donor"
	KindCamp  AccountKind = "camp"
)

// Valid reports whether k is a known kind.
func (k AccountKind) Valid() bool { return k == KindDonor || k == KindCamp }

// Account is the part of a donor or camp record that sessions need.
type Account interface {
	AccountID() string
	Kind() AccountKind
	DisplayName() string
	LoginEmail() string
	SecretHash() string
	// Contacts lists the addresses that must be unique per kind.
	Contacts() []Contact
}

const bcryptCost = 10

func hashSecret(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// CheckSecret reports whether plain matches the stored hash of a.
func CheckSecret(a Account, plain string) bool {
	if a.SecretHash() == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.SecretHash()), []byte(plain)) == nil
}

// AgeAt returns whole years elapsed between dob and now.
func AgeAt(dob, now time.Time) int {
	if dob.IsZero() || dob.After(now) {
		return 0
	}
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// stamp maintains created/updated timestamps.
func stamp(created, updated *time.Time, now time.Time) {
	now = now.UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// TokenPair is the access/refresh pair handed to a signed-in account.
type TokenPair struct {
	Access  string
	Refresh string
}
