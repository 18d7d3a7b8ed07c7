package mongoinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bloodlink-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// profileProjection keeps the password hash out of profile reads.
var profileProjection = bson.M{"password": 0}

// savedAccount is an account with a save-time hook.
type savedAccount interface {
	domain.Account
	PrepareForSave(now time.Time) error
}

// accountCollection holds the operations shared by donors and camps.
// Unique indexes on the contact fields make duplicate inserts fail atomically.
type accountCollection[T any] struct {
	coll   *mongo.Collection
	kind   domain.AccountKind
	fields map[domain.Channel]string // contact channel -> document field
	now    func() time.Time
}

// contactIndexes builds one unique index per contact field. They are sparse
// so optional fields such as whatsapp may be absent on many documents.
func contactIndexes(fields map[domain.Channel]string) []mongo.IndexModel {
	models := make([]mongo.IndexModel, 0, len(fields))
	for _, f := range fields {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: f, Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		})
	}
	return models
}

func (c *accountCollection[T]) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	if _, err := c.coll.Indexes().CreateMany(ctx, contactIndexes(c.fields)); err != nil {
		return fmt.Errorf("create %s indexes: %w", c.kind, err)
	}
	return nil
}

// create runs the account's save hook, then inserts it.
func (c *accountCollection[T]) create(ctx context.Context, acct savedAccount, v *T) error {
	if err := acct.PrepareForSave(c.now()); err != nil {
		return fmt.Errorf("prepare %s: %w", c.kind, err)
	}
	ctx, cancel := newContext(ctx)
	defer cancel()

	_, err := c.coll.InsertOne(ctx, v)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s contact already registered: %w", c.kind, domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", c.kind, err)
	}
	return nil
}

func (c *accountCollection[T]) contactTaken(ctx context.Context, contact domain.Contact) (bool, error) {
	field, ok := c.fields[contact.Channel]
	if !ok {
		return false, nil
	}
	ctx, cancel := newContext(ctx)
	defer cancel()

	n, err := c.coll.CountDocuments(ctx, bson.M{field: contact.Address}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count %s by %s: %w", c.kind, field, err)
	}
	return n > 0, nil
}

func (c *accountCollection[T]) findOne(ctx context.Context, filter bson.M, projection bson.M) (*T, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}
	var v T
	err := c.coll.FindOne(ctx, filter, opts).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s not found: %w", c.kind, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.kind, err)
	}
	return &v, nil
}
