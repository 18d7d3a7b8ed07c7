package domain

import "time"

// OTP statuses. A record moves pending -> verified -> consumed.
const (
	OTPStatusPending  = "pending"
	OTPStatusVerified = "verified"
	OTPStatusConsumed = "consumed"
)

// OTPTypeVerification is the only code purpose in use today.
const OTPTypeVerification = "verification"

// OtpRecord is a one-time code sent to a contact address.
// PK: address, SK: type. At most one record exists per (address, type);
// a new issuance overwrites it unless it is still pending and unexpired.
type OtpRecord struct {
	Address    string     `json:"address" dynamodbav:"address" bson:"address"`
	Type       string     `json:"type" dynamodbav:"type" bson:"type"`
	Channel    Channel    `json:"channel" dynamodbav:"channel" bson:"channel"`
	Code       string     `json:"-" dynamodbav:"code" bson:"code"`
	Status     string     `json:"status" dynamodbav:"status" bson:"status"`
	ExpiresAt  time.Time  `json:"expiresAt" dynamodbav:"expires_at,unixtime" bson:"expiresAt"`
	CreatedAt  time.Time  `json:"createdAt" dynamodbav:"created_at" bson:"createdAt"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty" dynamodbav:"verified_at,omitempty" bson:"verifiedAt,omitempty"`
	// PurgeAt is when the store may drop the record (DynamoDB TTL / Mongo TTL index).
	PurgeAt time.Time `json:"-" dynamodbav:"purge_at,unixtime" bson:"purgeAt"`
}

// NewOtpRecord builds a pending verification record for c.
func NewOtpRecord(c Contact, code string, now time.Time, ttl, retention time.Duration) *OtpRecord {
	now = now.UTC()
	exp := now.Add(ttl)
	return &OtpRecord{
		Address:   c.Address,
		Type:      OTPTypeVerification,
		Channel:   c.Channel,
		Code:      code,
		Status:    OTPStatusPending,
		ExpiresAt: exp,
		CreatedAt: now,
		PurgeAt:   exp.Add(retention),
	}
}

// Outstanding reports whether r still blocks a new issuance at now.
func (r *OtpRecord) Outstanding(now time.Time) bool {
	return r.Status == OTPStatusPending && r.ExpiresAt.After(now)
}

// OTPMessage is a code to deliver to a contact, in-process or through the queue.
type OTPMessage struct {
	Channel      Channel `json:"channel"`
	Address      string  `json:"address"`
	Code         string  `json:"code"`
	ValidMinutes int     `json:"validMinutes"`
}
