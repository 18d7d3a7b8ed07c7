package dynamo

import (
	"context"
	"time"

	"github.com/bloodlink-api/internal/domain"
)

// CampRepo provides typed DynamoDB operations for the camps table.
type CampRepo struct {
	t *accountTable[domain.Camp]
}

func NewCampRepo(client API, tableName, claimsTable string) *CampRepo {
	return &CampRepo{t: &accountTable[domain.Camp]{
		client:      client,
		now:         time.Now,
		tableName:   tableName,
		claimsTable: claimsTable,
		kind:        domain.KindCamp,
		idAttr:      attrCampID,
		emailIndex:  indexCampEmail,
		emailAttr:   attrOrganizerEmail,
	}}
}

// Create hashes a pending password and persists the camp.
func (r *CampRepo) Create(ctx context.Context, c *domain.Camp) error {
	return r.t.create(ctx, c, c)
}

func (r *CampRepo) ContactTaken(ctx context.Context, c domain.Contact) (bool, error) {
	return r.t.contactTaken(ctx, c)
}

func (r *CampRepo) FindByID(ctx context.Context, id string) (domain.Account, error) {
	c, err := r.t.get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.PasswordHash = ""
	return c, nil
}

func (r *CampRepo) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	c, err := r.t.getByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return c, nil
}
