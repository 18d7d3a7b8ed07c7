package domain

import (
	"strings"
	"time"
)

// CampApprovalPending is the status of a camp awaiting blood bank review.
const CampApprovalPending = "pending"

// Address is the venue of a donation camp.
type Address struct {
	AddressLine1 string `json:"addressLine1" dynamodbav:"address_line1" bson:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty" dynamodbav:"address_line2,omitempty" bson:"addressLine2,omitempty"`
	State        string `json:"state" dynamodbav:"state" bson:"state"`
	City         string `json:"city" dynamodbav:"city" bson:"city"`
	Pincode      string `json:"pincode" dynamodbav:"pincode" bson:"pincode"`
	AddressType  string `json:"addressType" dynamodbav:"address_type" bson:"addressType"`
}

// Camp is a donation camp organizer account.
type Camp struct {
	CampID                  string    `json:"_id" dynamodbav:"camp_id" bson:"_id"`
	OrganizationName        string    `json:"organizationName" dynamodbav:"organization_name" bson:"organizationName"`
	OrganizationType        string    `json:"organizationType" dynamodbav:"organization_type" bson:"organizationType"`
	OrganizerName           string    `json:"organizerName" dynamodbav:"organizer_name" bson:"organizerName"`
	OrganizerMobileNumber   string    `json:"organizerMobileNumber" dynamodbav:"organizer_mobile_number" bson:"organizerMobileNumber"`
	OrganizerEmail          string    `json:"organizerEmail" dynamodbav:"organizer_email" bson:"organizerEmail"`
	CoOrganizerName         string    `json:"coOrganizerName,omitempty" dynamodbav:"co_organizer_name,omitempty" bson:"coOrganizerName,omitempty"`
	CoOrganizerMobileNumber string    `json:"coOrganizerMobileNumber,omitempty" dynamodbav:"co_organizer_mobile_number,omitempty" bson:"coOrganizerMobileNumber,omitempty"`
	CampName                string    `json:"campName" dynamodbav:"camp_name" bson:"campName"`
	Address                 Address   `json:"address" dynamodbav:"address" bson:"address"`
	BloodBank               string    `json:"bloodbank,omitempty" dynamodbav:"blood_bank,omitempty" bson:"bloodbank,omitempty"`
	CampDate                time.Time `json:"campDate" dynamodbav:"camp_date" bson:"campDate"`
	CampStartTime           string    `json:"campStartTime" dynamodbav:"camp_start_time" bson:"campStartTime"`
	CampEndTime             string    `json:"campEndTime" dynamodbav:"camp_end_time" bson:"campEndTime"`
	EstimatedParticipants   int       `json:"estimatedParticipants" dynamodbav:"estimated_participants" bson:"estimatedParticipants"`
	Supporter               string    `json:"supporter,omitempty" dynamodbav:"supporter,omitempty" bson:"supporter,omitempty"`
	Remarks                 string    `json:"remarks,omitempty" dynamodbav:"remarks,omitempty" bson:"remarks,omitempty"`
	ApprovalStatus          string    `json:"approvalStatus" dynamodbav:"approval_status" bson:"approvalStatus"`
	EmailVerified           bool      `json:"emailVerified" dynamodbav:"email_verified" bson:"emailVerified"`
	PasswordHash            string    `json:"-" dynamodbav:"password_hash" bson:"password,omitempty"`
	CreatedAt               time.Time `json:"createdAt" dynamodbav:"created_at" bson:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt" dynamodbav:"updated_at" bson:"updatedAt"`

	Password string `json:"-" dynamodbav:"-" bson:"-"`
}

func (c *Camp) AccountID() string   { return c.CampID }
func (c *Camp) Kind() AccountKind   { return KindCamp }
func (c *Camp) DisplayName() string { return c.OrganizerName }
func (c *Camp) LoginEmail() string  { return c.OrganizerEmail }
func (c *Camp) SecretHash() string  { return c.PasswordHash }

func (c *Camp) Contacts() []Contact {
	return []Contact{
		{Channel: ChannelEmail, Address: c.OrganizerEmail},
		{Channel: ChannelPhone, Address: c.OrganizerMobileNumber},
	}
}

// PrepareForSave hashes a pending plaintext password and maintains timestamps.
func (c *Camp) PrepareForSave(now time.Time) error {
	if c.Password != "" {
		h, err := hashSecret(c.Password)
		if err != nil {
			return err
		}
		c.PasswordHash = h
		c.Password = ""
	}
	if c.ApprovalStatus == "" {
		c.ApprovalStatus = CampApprovalPending
	}
	stamp(&c.CreatedAt, &c.UpdatedAt, now)
	return nil
}

// CampAddressRequest is the nested venue of a camp registration.
type CampAddressRequest struct {
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2"`
	State        string `json:"state" validate:"required"`
	City         string `json:"city" validate:"required"`
	Pincode      string `json:"pincode" validate:"required,numeric,len=6"`
}

// RegisterCampRequest is the body of POST /camp/register-camp.
type RegisterCampRequest struct {
	OrganizationName        string              `json:"organizationName" validate:"required"`
	OrganizationType        string              `json:"organizationType" validate:"required"`
	OrganizerName           string              `json:"organizerName" validate:"required"`
	OrganizerMobileNumber   string              `json:"organizerMobileNumber" validate:"required,phone10"`
	OrganizerEmail          string              `json:"organizerEmail" validate:"required,contact_email"`
	CoOrganizerName         string              `json:"coOrganizerName"`
	CoOrganizerMobileNumber string              `json:"coOrganizerMobileNumber" validate:"omitempty,phone10"`
	CampName                string              `json:"campName" validate:"required"`
	Address                 *CampAddressRequest `json:"address" validate:"required"`
	BloodBank               string              `json:"bloodbank"`
	CampDate                string              `json:"campDate" validate:"required,datetime=2006-01-02"`
	CampStartTime           string              `json:"campStartTime" validate:"required,datetime=15:04"`
	CampEndTime             string              `json:"campEndTime" validate:"required,datetime=15:04"`
	EstimatedParticipants   int                 `json:"estimatedParticipants" validate:"required,gt=0"`
	Supporter               string              `json:"supporter"`
	Remarks                 string              `json:"remarks"`
	Password                string              `json:"password" validate:"required"`
	ConfirmPassword         string              `json:"confirmPassword" validate:"required"`
}

// NewCamp validates req and builds an unsaved camp account awaiting approval.
func NewCamp(req *RegisterCampRequest) (*Camp, error) {
	req.OrganizerEmail = strings.ToLower(strings.TrimSpace(req.OrganizerEmail))
	req.OrganizerMobileNumber = strings.TrimSpace(req.OrganizerMobileNumber)
	req.CoOrganizerMobileNumber = strings.TrimSpace(req.CoOrganizerMobileNumber)
	if a := req.Address; a != nil {
		a.AddressLine1 = strings.TrimSpace(a.AddressLine1)
		a.State = strings.TrimSpace(a.State)
		a.City = strings.TrimSpace(a.City)
		a.Pincode = strings.TrimSpace(a.Pincode)
	}

	if err := checkRegistration(req, req.Password, req.ConfirmPassword); err != nil {
		return nil, err
	}
	date, err := parseDate("campDate", req.CampDate)
	if err != nil {
		return nil, err
	}
	start, _ := time.Parse(timeLayout, req.CampStartTime)
	end, _ := time.Parse(timeLayout, req.CampEndTime)
	if !end.After(start) {
		return nil, invalid("Invalid field values", FieldError{Field: "campEndTime", Message: "must be after campStartTime"})
	}

	return &Camp{
		OrganizationName:        strings.TrimSpace(req.OrganizationName),
		OrganizationType:        strings.TrimSpace(req.OrganizationType),
		OrganizerName:           strings.TrimSpace(req.OrganizerName),
		OrganizerMobileNumber:   req.OrganizerMobileNumber,
		OrganizerEmail:          req.OrganizerEmail,
		CoOrganizerName:         strings.TrimSpace(req.CoOrganizerName),
		CoOrganizerMobileNumber: req.CoOrganizerMobileNumber,
		CampName:                strings.TrimSpace(req.CampName),
		Address: Address{
			AddressLine1: req.Address.AddressLine1,
			AddressLine2: strings.TrimSpace(req.Address.AddressLine2),
			State:        req.Address.State,
			City:         req.Address.City,
			Pincode:      req.Address.Pincode,
			AddressType:  "Camp",
		},
		BloodBank:             strings.TrimSpace(req.BloodBank),
		CampDate:              date,
		CampStartTime:         req.CampStartTime,
		CampEndTime:           req.CampEndTime,
		EstimatedParticipants: req.EstimatedParticipants,
		Supporter:             strings.TrimSpace(req.Supporter),
		Remarks:               strings.TrimSpace(req.Remarks),
		ApprovalStatus:        CampApprovalPending,
		EmailVerified:         true,
		Password:              req.Password,
	}, nil
}
