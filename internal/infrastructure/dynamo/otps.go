package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bloodlink-api/internal/domain"
)

// OTPRepo stores one-time codes.
// PK: address, SK: type ("verification"). TTL attribute: purge_at.
type OTPRepo struct {
	client    API
	tableName string
}

func NewOTPRepo(client API, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName}
}

func unixValue(t time.Time) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(t.Unix(), 10)}
}

// Issue writes rec unless a pending, unexpired code already exists for the
// same address and type. That case returns ErrConflict.
func (r *OTPRepo) Issue(ctx context.Context, rec *domain.OtpRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal otp: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#a) OR #s <> :pending OR #e <= :now"),
		ExpressionAttributeNames: map[string]string{
			"#a": attrAddress,
			"#s": attrStatus,
			"#e": attrExpiresAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: domain.OTPStatusPending},
			":now":     unixValue(rec.CreatedAt),
		},
	})
	if isConditionFailure(err) {
		return fmt.Errorf("otp already pending for %s: %w", rec.Address, domain.ErrConflict)
	}
	return err
}

// Verify flips the pending, unexpired record with exactly this code to
// verified. When no such record exists nothing is written and ErrNotFound
// is returned.
func (r *OTPRepo) Verify(ctx context.Context, address, code string, now time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		attrStatus:     domain.OTPStatusVerified,
		attrVerifiedAt: now.UTC(),
	})
	if err != nil {
		return err
	}
	ue.Names["#s"] = attrStatus
	ue.Names["#c"] = attrCode
	ue.Names["#e"] = attrExpiresAt
	ue.Values[":pending"] = &types.AttributeValueMemberS{Value: domain.OTPStatusPending}
	ue.Values[":code"] = &types.AttributeValueMemberS{Value: code}
	ue.Values[":now"] = unixValue(now)

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey(attrAddress, address, attrType, domain.OTPTypeVerification),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#s = :pending AND #c = :code AND #e > :now"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailure(err) {
		return fmt.Errorf("no pending otp matches: %w", domain.ErrNotFound)
	}
	return err
}

// Get returns the current record for address.
func (r *OTPRepo) Get(ctx context.Context, address string) (*domain.OtpRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            compositeKey(attrAddress, address, attrType, domain.OTPTypeVerification),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	var rec domain.OtpRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal otp: %w", err)
	}
	return &rec, nil
}

// Consume moves a verified record to consumed. ErrNotFound when the record
// is not currently verified.
func (r *OTPRepo) Consume(ctx context.Context, address string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{attrStatus: domain.OTPStatusConsumed})
	if err != nil {
		return err
	}
	ue.Names["#s"] = attrStatus
	ue.Values[":verified"] = &types.AttributeValueMemberS{Value: domain.OTPStatusVerified}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey(attrAddress, address, attrType, domain.OTPTypeVerification),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#s = :verified"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailure(err) {
		return fmt.Errorf("otp not verified: %w", domain.ErrNotFound)
	}
	return err
}

// Discard deletes the record for address if it still holds code. Used when
// a freshly issued code could not be delivered.
func (r *OTPRepo) Discard(ctx context.Context, address, code string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey(attrAddress, address, attrType, domain.OTPTypeVerification),
		ConditionExpression:       aws.String("#c = :code"),
		ExpressionAttributeNames:  map[string]string{"#c": attrCode},
		ExpressionAttributeValues: map[string]types.AttributeValue{":code": &types.AttributeValueMemberS{Value: code}},
	})
	if isConditionFailure(err) {
		return nil
	}
	return err
}
