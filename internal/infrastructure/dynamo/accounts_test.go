package dynamo

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bloodlink-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newDonor() *domain.Donor {
	w := "9000000001"
	return &domain.Donor{
		DonorID:  "D1",
		FullName: "Asha Rao",
		DOB:      time.Date(1995, 6, 20, 0, 0, 0, 0, time.UTC),
		Email:    "a@b.com",
		Phone:    "9876543210",
		Whatsapp: &w,
		Password: "p1",
	}
}

func TestDonorRepo_Create_RunsSaveHook(t *testing.T) {
	api := &fakeAPI{}
	repo := NewDonorRepo(api, "donors", "contact_claims")
	repo.t.now = func() time.Time { return issuedAt }
	d := newDonor()

	require.NoError(t, repo.Create(context.Background(), d))
	assert.Empty(t, d.Password)
	assert.Equal(t, 30, d.Age)

	require.NotNil(t, api.transact)
	items := api.transact.TransactItems
	require.Len(t, items, 4)
	item := items[0].Put.Item
	hash := stringOf(t, item["password_hash"])
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("p1")))
	assert.NotContains(t, item, "password")
	assert.Equal(t, int64(30), numberOf(t, item["age"]))
	assert.Equal(t, "attribute_not_exists(#id)", aws.ToString(items[0].Put.ConditionExpression))
}

func TestDonorRepo_Create_ClaimsEveryContact(t *testing.T) {
	api := &fakeAPI{}
	require.NoError(t, NewDonorRepo(api, "donors", "contact_claims").Create(context.Background(), newDonor()))

	var claims []string
	for _, it := range api.transact.TransactItems[1:] {
		assert.Equal(t, "contact_claims", aws.ToString(it.Put.TableName))
		assert.Equal(t, "attribute_not_exists(#k)", aws.ToString(it.Put.ConditionExpression))
		assert.Equal(t, "D1", stringOf(t, it.Put.Item[attrOwnerID]))
		claims = append(claims, stringOf(t, it.Put.Item[attrClaimKey]))
	}
	assert.Equal(t, []string{
		"donor#email#a@b.com",
		"donor#phone#9876543210",
		"donor#whatsapp#9000000001",
	}, claims)
}

func TestDonorRepo_Create_HeldClaimIsConflict(t *testing.T) {
	api := &fakeAPI{err: &types.TransactionCanceledException{
		Message: aws.String("Transaction cancelled"),
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("None")},
			{Code: aws.String("ConditionalCheckFailed")},
		},
	}}

	err := NewDonorRepo(api, "donors", "contact_claims").Create(context.Background(), newDonor())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCampRepo_Create_RunsSaveHook(t *testing.T) {
	api := &fakeAPI{}
	c := &domain.Camp{CampID: "C1", OrganizerEmail: "o@camp.org", OrganizerMobileNumber: "9123456780", Password: "s3cret"}

	require.NoError(t, NewCampRepo(api, "camps", "contact_claims").Create(context.Background(), c))
	assert.Empty(t, c.Password)
	assert.Equal(t, domain.CampApprovalPending, c.ApprovalStatus)
	item := api.transact.TransactItems[0].Put.Item
	hash := stringOf(t, item["password_hash"])
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
	assert.Len(t, api.transact.TransactItems, 3)
}
