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

// OTPRepo stores one-time codes in a collection with a unique
// (address, type) index and a TTL index on purgeAt.
type OTPRepo struct {
	coll *mongo.Collection
}

func NewOTPRepo(ctx context.Context, db *mongo.Database) (*OTPRepo, error) {
	r := &OTPRepo{coll: db.Collection("otps")}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *OTPRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "address", Value: 1}, {Key: "type", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "purgeAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("create otp indexes: %w", err)
	}
	return nil
}

func key(address string) bson.M {
	return bson.M{"address": address, "type": domain.OTPTypeVerification}
}

// replaceableFilter matches the (address, type) record only when it no
// longer blocks a new code: not pending, or pending but expired at now.
func replaceableFilter(address, typ string, now time.Time) bson.M {
	return bson.M{
		"address": address,
		"type":    typ,
		"$or": bson.A{
			bson.M{"status": bson.M{"$ne": domain.OTPStatusPending}},
			bson.M{"expiresAt": bson.M{"$lte": now}},
		},
	}
}

// verifiableFilter matches the pending record holding code that is still
// unexpired at now.
func verifiableFilter(address, code string, now time.Time) bson.M {
	f := key(address)
	f["code"] = code
	f["status"] = domain.OTPStatusPending
	f["expiresAt"] = bson.M{"$gt": now}
	return f
}

// consumableFilter matches the record only while it is verified.
func consumableFilter(address string) bson.M {
	f := key(address)
	f["status"] = domain.OTPStatusVerified
	return f
}

// Issue replaces the record for (address, type) unless it is pending and
// unexpired. In that case the filter misses, the upsert collides with the
// unique index and ErrConflict is returned.
func (r *OTPRepo) Issue(ctx context.Context, rec *domain.OtpRecord) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := replaceableFilter(rec.Address, rec.Type, rec.CreatedAt)
	_, err := r.coll.ReplaceOne(ctx, filter, rec, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("otp already pending for %s: %w", rec.Address, domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("issue otp: %w", err)
	}
	return nil
}

// Verify flips the pending, unexpired record with exactly this code to verified.
func (r *OTPRepo) Verify(ctx context.Context, address, code string, now time.Time) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, verifiableFilter(address, code, now), bson.M{"$set": bson.M{
		"status":     domain.OTPStatusVerified,
		"verifiedAt": now.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("no pending otp matches: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *OTPRepo) Get(ctx context.Context, address string) (*domain.OtpRecord, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var rec domain.OtpRecord
	err := r.coll.FindOne(ctx, key(address)).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get otp: %w", err)
	}
	return &rec, nil
}

// Consume moves a verified record to consumed.
func (r *OTPRepo) Consume(ctx context.Context, address string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, consumableFilter(address), bson.M{"$set": bson.M{"status": domain.OTPStatusConsumed}})
	if err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("otp not verified: %w", domain.ErrNotFound)
	}
	return nil
}

// Discard deletes the record for address if it still holds code.
func (r *OTPRepo) Discard(ctx context.Context, address, code string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := key(address)
	filter["code"] = code
	if _, err := r.coll.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("discard otp: %w", err)
	}
	return nil
}
