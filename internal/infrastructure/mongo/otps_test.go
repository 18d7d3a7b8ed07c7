package mongoinfra

import (
	"testing"
	"time"

	"github.com/bloodlink-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// matches evaluates the subset of the query language the OTP filters use
// against rec.
func matches(t *testing.T, filter bson.M, rec *domain.OtpRecord) bool {
	t.Helper()
	doc := map[string]interface{}{
		"address":   rec.Address,
		"type":      rec.Type,
		"code":      rec.Code,
		"status":    rec.Status,
		"expiresAt": rec.ExpiresAt,
	}
	for field, want := range filter {
		if field == "$or" {
			hit := false
			for _, alt := range want.(bson.A) {
				if matches(t, alt.(bson.M), rec) {
					hit = true
				}
			}
			if !hit {
				return false
			}
			continue
		}
		got, ok := doc[field]
		require.True(t, ok, "unexpected field %q", field)
		ops, isOp := want.(bson.M)
		if !isOp {
			if got != want {
				return false
			}
			continue
		}
		for op, v := range ops {
			if !compare(t, op, got, v) {
				return false
			}
		}
	}
	return true
}

func compare(t *testing.T, op string, got, want interface{}) bool {
	t.Helper()
	if op == "$ne" {
		return got != want
	}
	g, w := got.(time.Time), want.(time.Time)
	switch op {
	case "$lte":
		return !g.After(w)
	case "$gt":
		return g.After(w)
	}
	t.Fatalf("unsupported operator %s", op)
	return false
}

var issuedAt = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func record(status string) *domain.OtpRecord {
	c := domain.Contact{Channel: domain.ChannelEmail, Address: "a@b.com"}
	r := domain.NewOtpRecord(c, "123456", issuedAt, 10*time.Minute, time.Hour)
	r.Status = status
	return r
}

func TestReplaceableFilter(t *testing.T) {
	at := func(d time.Duration) bson.M {
		return replaceableFilter("a@b.com", domain.OTPTypeVerification, issuedAt.Add(d))
	}

	assert.False(t, matches(t, at(time.Minute), record(domain.OTPStatusPending)), "pending and unexpired blocks")
	assert.True(t, matches(t, at(10*time.Minute), record(domain.OTPStatusPending)), "pending expiring now may be replaced")
	assert.True(t, matches(t, at(time.Hour), record(domain.OTPStatusPending)), "expired pending may be replaced")
	assert.True(t, matches(t, at(time.Minute), record(domain.OTPStatusVerified)))
	assert.True(t, matches(t, at(time.Minute), record(domain.OTPStatusConsumed)))

	other := record(domain.OTPStatusVerified)
	other.Address = "c@d.com"
	assert.False(t, matches(t, at(time.Minute), other))
}

func TestVerifiableFilter(t *testing.T) {
	pending := record(domain.OTPStatusPending)

	assert.True(t, matches(t, verifiableFilter("a@b.com", "123456", issuedAt.Add(9*time.Minute)), pending))
	assert.False(t, matches(t, verifiableFilter("a@b.com", "123456", issuedAt.Add(10*time.Minute)), pending), "expired")
	assert.False(t, matches(t, verifiableFilter("a@b.com", "000000", issuedAt), pending), "wrong code")
	assert.False(t, matches(t, verifiableFilter("a@b.com", "123456", issuedAt), record(domain.OTPStatusVerified)), "already verified")
	assert.False(t, matches(t, verifiableFilter("a@b.com", "123456", issuedAt), record(domain.OTPStatusConsumed)), "already used")
}

func TestConsumableFilter(t *testing.T) {
	f := consumableFilter("a@b.com")

	assert.True(t, matches(t, f, record(domain.OTPStatusVerified)))
	assert.False(t, matches(t, f, record(domain.OTPStatusPending)))
	assert.False(t, matches(t, f, record(domain.OTPStatusConsumed)))
}
