package mongoinfra

import (
	"context"
	"time"

	"github.com/bloodlink-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CampRepo stores camp organizers in the "donationcamps" collection.
type CampRepo struct {
	c *accountCollection[domain.Camp]
}

func NewCampRepo(ctx context.Context, db *mongo.Database) (*CampRepo, error) {
	c := &accountCollection[domain.Camp]{
		coll: db.Collection("donationcamps"),
		kind: domain.KindCamp,
		fields: map[domain.Channel]string{
			domain.ChannelEmail: "organizerEmail",
			domain.ChannelPhone: "organizerMobileNumber",
		},
		now: time.Now,
	}
	if err := c.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return &CampRepo{c: c}, nil
}

func (r *CampRepo) Create(ctx context.Context, c *domain.Camp) error {
	return r.c.create(ctx, c, c)
}

func (r *CampRepo) ContactTaken(ctx context.Context, c domain.Contact) (bool, error) {
	return r.c.contactTaken(ctx, c)
}

func (r *CampRepo) FindByID(ctx context.Context, id string) (domain.Account, error) {
	c, err := r.c.findOne(ctx, bson.M{"_id": id}, profileProjection)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CampRepo) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	c, err := r.c.findOne(ctx, bson.M{"organizerEmail": email}, nil)
	if err != nil {
		return nil, err
	}
	return c, nil
}
