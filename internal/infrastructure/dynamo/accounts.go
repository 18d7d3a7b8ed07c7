package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bloodlink-api/internal/domain"
)

// accountTable holds the operations shared by the donor and camp tables.
// Contact uniqueness is enforced through claim items written in the same
// transaction as the account, one claim per (kind, channel, address).
type accountTable[T any] struct {
	client      API
	now         func() time.Time
	tableName   string
	claimsTable string
	kind        domain.AccountKind
	idAttr      string
	emailIndex  string
	emailAttr   string
}

// savedAccount is an account with a save-time hook.
type savedAccount interface {
	domain.Account
	PrepareForSave(now time.Time) error
}

// create runs the account's save hook, then writes the item together with
// its contact claims. Any claim already held makes the whole transaction
// fail with ErrConflict.
func (t *accountTable[T]) create(ctx context.Context, acct savedAccount, v *T) error {
	if err := acct.PrepareForSave(t.now()); err != nil {
		return fmt.Errorf("prepare %s: %w", t.kind, err)
	}
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", t.kind, err)
	}
	items := []types.TransactWriteItem{{
		Put: &types.Put{
			TableName:                aws.String(t.tableName),
			Item:                     item,
			ConditionExpression:      aws.String("attribute_not_exists(#id)"),
			ExpressionAttributeNames: map[string]string{"#id": t.idAttr},
		},
	}}
	for _, c := range acct.Contacts() {
		if c.Address == "" {
			continue
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(t.claimsTable),
				Item: map[string]types.AttributeValue{
					attrClaimKey: &types.AttributeValueMemberS{Value: claimKey(t.kind, c)},
					attrOwnerID:  &types.AttributeValueMemberS{Value: acct.AccountID()},
				},
				ConditionExpression:      aws.String("attribute_not_exists(#k)"),
				ExpressionAttributeNames: map[string]string{"#k": attrClaimKey},
			},
		})
	}

	_, err = t.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if isConditionFailure(err) {
		return fmt.Errorf("%s contact already registered: %w", t.kind, domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", t.kind, err)
	}
	return nil
}

func (t *accountTable[T]) contactTaken(ctx context.Context, c domain.Contact) (bool, error) {
	out, err := t.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(t.claimsTable),
		Key:            strKey(attrClaimKey, claimKey(t.kind, c)),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, err
	}
	return out.Item != nil, nil
}

func (t *accountTable[T]) get(ctx context.Context, id string) (*T, error) {
	out, err := t.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(t.tableName),
		Key:       strKey(t.idAttr, id),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("%s not found: %w", t.kind, domain.ErrNotFound)
	}
	var v T
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", t.kind, err)
	}
	return &v, nil
}

func (t *accountTable[T]) getByEmail(ctx context.Context, email string) (*T, error) {
	out, err := t.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(t.tableName),
		IndexName:                 aws.String(t.emailIndex),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": t.emailAttr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("%s not found: %w", t.kind, domain.ErrNotFound)
	}
	var v T
	if err := attributevalue.UnmarshalMap(out.Items[0], &v); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", t.kind, err)
	}
	return &v, nil
}
