package dynamo

import (
	"context"
	"time"

	"github.com/bloodlink-api/internal/domain"
)

// DonorRepo provides typed DynamoDB operations for the donors table.
type DonorRepo struct {
	t *accountTable[domain.Donor]
}

func NewDonorRepo(client API, tableName, claimsTable string) *DonorRepo {
	return &DonorRepo{t: &accountTable[domain.Donor]{
		client:      client,
		now:         time.Now,
		tableName:   tableName,
		claimsTable: claimsTable,
		kind:        domain.KindDonor,
		idAttr:      attrDonorID,
		emailIndex:  indexDonorEmail,
		emailAttr:   attrEmail,
	}}
}

// Create hashes a pending password, derives age and persists the donor.
func (r *DonorRepo) Create(ctx context.Context, d *domain.Donor) error {
	return r.t.create(ctx, d, d)
}

func (r *DonorRepo) ContactTaken(ctx context.Context, c domain.Contact) (bool, error) {
	return r.t.contactTaken(ctx, c)
}

// FindByID returns the donor profile without its password hash.
func (r *DonorRepo) FindByID(ctx context.Context, id string) (domain.Account, error) {
	d, err := r.t.get(ctx, id)
	if err != nil {
		return nil, err
	}
	d.PasswordHash = ""
	return d, nil
}

// FindByEmail returns the donor including its password hash, for login.
func (r *DonorRepo) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	d, err := r.t.getByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return d, nil
}
