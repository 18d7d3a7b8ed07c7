package dynamo

// DynamoDB attribute and index names used in keys and expressions across repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	attrAddress    = "address"
	attrType       = "type"
	attrCode       = "code"
	attrStatus     = "status"
	attrExpiresAt  = "expires_at"
	attrVerifiedAt = "verified_at"
	attrPurgeAt    = "purge_at"

	attrDonorID        = "donor_id"
	attrCampID         = "camp_id"
	attrEmail          = "email"
	attrOrganizerEmail = "organizer_email"

	attrClaimKey = "claim_key"
	attrOwnerID  = "owner_id"

	indexDonorEmail = "email-index"
	indexCampEmail  = "organizer_email-index"
)
