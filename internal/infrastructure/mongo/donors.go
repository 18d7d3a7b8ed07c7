package mongoinfra

import (
	"context"
	"time"

	"github.com/bloodlink-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DonorRepo stores donors in the "donors" collection.
type DonorRepo struct {
	c *accountCollection[domain.Donor]
}

func NewDonorRepo(ctx context.Context, db *mongo.Database) (*DonorRepo, error) {
	c := &accountCollection[domain.Donor]{
		coll: db.Collection("donors"),
		kind: domain.KindDonor,
		fields: map[domain.Channel]string{
			domain.ChannelEmail:    "email",
			domain.ChannelPhone:    "phone",
			domain.ChannelWhatsApp: "whatsapp",
		},
		now: time.Now,
	}
	if err := c.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return &DonorRepo{c: c}, nil
}

func (r *DonorRepo) Create(ctx context.Context, d *domain.Donor) error {
	return r.c.create(ctx, d, d)
}

func (r *DonorRepo) ContactTaken(ctx context.Context, c domain.Contact) (bool, error) {
	return r.c.contactTaken(ctx, c)
}

func (r *DonorRepo) FindByID(ctx context.Context, id string) (domain.Account, error) {
	d, err := r.c.findOne(ctx, bson.M{"_id": id}, profileProjection)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DonorRepo) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	d, err := r.c.findOne(ctx, bson.M{"email": email}, nil)
	if err != nil {
		return nil, err
	}
	return d, nil
}
