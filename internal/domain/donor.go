package domain

import (
	"strings"
	"time"

	"github.com/bloodlink-api/internal/pkg/validate"
)

// BloodGroup is an ABO/Rh blood type.
type BloodGroup string

var bloodGroups = []BloodGroup{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

func (g BloodGroup) Valid() bool {
	for _, b := range bloodGroups {
		if g == b {
			return true
		}
	}
	return false
}

func init() {
	validate.Register("bloodgroup", func(s string) bool { return BloodGroup(strings.TrimSpace(s)).Valid() })
}

// Donor is an individual blood donor account.
type Donor struct {
	DonorID                 string     `json:"_id" dynamodbav:"donor_id" bson:"_id"`
	FullName                string     `json:"fullName" dynamodbav:"full_name" bson:"fullName"`
	DOB                     time.Time  `json:"dob" dynamodbav:"dob" bson:"dob"`
	Age                     int        `json:"age" dynamodbav:"age" bson:"age"`
	Weight                  float64    `json:"weight" dynamodbav:"weight" bson:"weight"`
	BloodGroup              BloodGroup `json:"bloodGroup" dynamodbav:"blood_group" bson:"bloodGroup"`
	Email                   string     `json:"email" dynamodbav:"email" bson:"email"`
	Phone                   string     `json:"phone" dynamodbav:"phone" bson:"phone"`
	Whatsapp                *string    `json:"whatsapp,omitempty" dynamodbav:"whatsapp,omitempty" bson:"whatsapp,omitempty"`
	State                   string     `json:"state" dynamodbav:"state" bson:"state"`
	EmailVerified           bool       `json:"emailVerified" dynamodbav:"email_verified" bson:"emailVerified"`
	PasswordHash            string     `json:"-" dynamodbav:"password_hash" bson:"password,omitempty"`
	DonationHistory         []string   `json:"donationHistory" dynamodbav:"donation_history" bson:"donationHistory"`
	DonationRequestsHistory []string   `json:"donationRequestsHistory" dynamodbav:"donation_requests_history" bson:"donationRequestsHistory"`
	CreatedAt               time.Time  `json:"createdAt" dynamodbav:"created_at" bson:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt" dynamodbav:"updated_at" bson:"updatedAt"`

	// Password holds a new plaintext secret until PrepareForSave hashes it.
	Password string `json:"-" dynamodbav:"-" bson:"-"`
}

func (d *Donor) AccountID() string   { return d.DonorID }
func (d *Donor) Kind() AccountKind   { return KindDonor }
func (d *Donor) DisplayName() string { return d.FullName }
func (d *Donor) LoginEmail() string  { return d.Email }
func (d *Donor) SecretHash() string  { return d.PasswordHash }

func (d *Donor) Contacts() []Contact {
	cs := []Contact{
		{Channel: ChannelEmail, Address: d.Email},
		{Channel: ChannelPhone, Address: d.Phone},
	}
	if d.Whatsapp != nil && *d.Whatsapp != "" {
		cs = append(cs, Contact{Channel: ChannelWhatsApp, Address: *d.Whatsapp})
	}
	return cs
}

// PrepareForSave runs before every write: it hashes a pending plaintext
// password, recomputes age from dob and maintains timestamps.
func (d *Donor) PrepareForSave(now time.Time) error {
	if d.Password != "" {
		h, err := hashSecret(d.Password)
		if err != nil {
			return err
		}
		d.PasswordHash = h
		d.Password = ""
	}
	d.Age = AgeAt(d.DOB, now)
	if d.DonationHistory == nil {
		d.DonationHistory = []string{}
	}
	if d.DonationRequestsHistory == nil {
		d.DonationRequestsHistory = []string{}
	}
	stamp(&d.CreatedAt, &d.UpdatedAt, now)
	return nil
}

// RegisterDonorRequest is the body of POST /doner/register-doner.
type RegisterDonorRequest struct {
	FullName        string  `json:"fullName" validate:"required,min=3"`
	DOB             string  `json:"dob" validate:"required,datetime=2006-01-02"`
	Weight          float64 `json:"weight" validate:"required,gte=45"`
	BloodGroup      string  `json:"bloodGroup" validate:"required,bloodgroup"`
	Email           string  `json:"email" validate:"required,contact_email"`
	Phone           string  `json:"phone" validate:"required,phone10"`
	Whatsapp        string  `json:"whatsapp" validate:"omitempty,phone10"`
	State           string  `json:"state" validate:"required"`
	Password        string  `json:"password" validate:"required"`
	ConfirmPassword string  `json:"confirmPassword" validate:"required"`
}

// NewDonor validates req and builds an unsaved donor carrying the plaintext
// password. Errors unwrap to ErrBadRequest.
func NewDonor(req *RegisterDonorRequest, now time.Time) (*Donor, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Whatsapp = strings.TrimSpace(req.Whatsapp)
	req.State = strings.TrimSpace(req.State)
	req.BloodGroup = strings.TrimSpace(req.BloodGroup)

	if err := checkRegistration(req, req.Password, req.ConfirmPassword); err != nil {
		return nil, err
	}
	dob, err := parseDate("dob", req.DOB)
	if err != nil {
		return nil, err
	}
	if !dob.Before(now) {
		return nil, invalid("Invalid field values", FieldError{Field: "dob", Message: "must be in the past"})
	}

	d := &Donor{
		FullName:      req.FullName,
		DOB:           dob,
		Weight:        req.Weight,
		BloodGroup:    BloodGroup(req.BloodGroup),
		Email:         req.Email,
		Phone:         req.Phone,
		State:         req.State,
		EmailVerified: true,
		Password:      req.Password,
	}
	if req.Whatsapp != "" {
		w := req.Whatsapp
		d.Whatsapp = &w
	}
	return d, nil
}
