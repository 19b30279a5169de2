package repository

import (
	"context"
	"testing"

	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAttempt() entities.PaymentAttempt {
	return entities.PaymentAttempt{
		ID:           "pi_1",
		HoldID:       "hold-1",
		Boxes:        []string{"A", "B"},
		PriceEachUSD: 3,
		Amount:       600,
		Currency:     "usd",
		Status:       entities.PaymentAttemptPending,
		CreatedAt:    repoNow,
		UpdatedAt:    repoNow,
	}
}

func TestPaymentAttemptDynamoRepository_Open(t *testing.T) {
	t.Run("records attempt and stamps boxes", func(t *testing.T) {
		fake := &fakeDynamo{}
		repo := NewPaymentAttemptDynamoRepository(fake, "", "")

		require.NoError(t, repo.Open(context.Background(), sampleAttempt()))
		require.Len(t, fake.transacts, 1)
		items := fake.transacts[0].TransactItems
		require.Len(t, items, 3)
		assert.Equal(t, "payment_attempts", aws.ToString(items[0].Put.TableName))
		assert.Equal(t, "boxes", aws.ToString(items[1].Update.TableName))
		assert.Equal(t, "pi_1", sAttr(items[2].Update.ExpressionAttributeValues[":pi"]))
	})

	t.Run("hold lost", func(t *testing.T) {
		fake := &fakeDynamo{transact: func(*dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
			return nil, canceled("None", "None", conditionalCheckFailed)
		}}
		err := NewPaymentAttemptDynamoRepository(fake, "", "").Open(context.Background(), sampleAttempt())
		assert.ErrorIs(t, err, interfaces.ErrHoldLost)
	})

	t.Run("already recorded", func(t *testing.T) {
		fake := &fakeDynamo{transact: func(*dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
			return nil, canceled(conditionalCheckFailed, "None", "None")
		}}
		err := NewPaymentAttemptDynamoRepository(fake, "", "").Open(context.Background(), sampleAttempt())
		assert.ErrorIs(t, err, interfaces.ErrStoreConflict)
	})
}

func TestPaymentAttemptDynamoRepository_GetByID(t *testing.T) {
	av, err := attributevalue.MarshalMap(toPaymentAttemptItem(sampleAttempt()))
	require.NoError(t, err)

	fake := &fakeDynamo{getItem: func(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
		if sAttr(in.Key["id"]) == "pi_1" {
			return &dynamodb.GetItemOutput{Item: av}, nil
		}
		return &dynamodb.GetItemOutput{}, nil
	}}
	repo := NewPaymentAttemptDynamoRepository(fake, "", "")

	got, err := repo.GetByID(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, got.Boxes)
	assert.Equal(t, int64(600), got.Amount)
	assert.True(t, got.CreatedAt.Equal(repoNow))

	missing, err := repo.GetByID(context.Background(), "pi_x")
	require.NoError(t, err)
	assert.Empty(t, missing.ID)
}

func TestPaymentAttemptDynamoRepository_Confirm(t *testing.T) {
	cases := []struct {
		name  string
		codes []string
		want  error
	}{
		{"success", nil, nil},
		{"attempt already final", []string{conditionalCheckFailed, "None", "None"}, interfaces.ErrAttemptFinalized},
		{"box taken by another hold", []string{"None", conditionalCheckFailed, "None"}, interfaces.ErrHoldLost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeDynamo{transact: func(in *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
				if tc.codes == nil {
					return &dynamodb.TransactWriteItemsOutput{}, nil
				}
				return nil, canceled(tc.codes...)
			}}
			err := NewPaymentAttemptDynamoRepository(fake, "", "").Confirm(context.Background(), sampleAttempt(), repoNow)
			if tc.want == nil {
				require.NoError(t, err)
				upd := fake.transacts[0].TransactItems[1].Update
				assert.Equal(t, "sold", sAttr(upd.ExpressionAttributeValues[":sold"]))
				assert.Equal(t, "#status = :pending", aws.ToString(fake.transacts[0].TransactItems[0].Update.ConditionExpression))
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPaymentAttemptDynamoRepository_Cancel(t *testing.T) {
	t.Run("cancels and releases", func(t *testing.T) {
		fake := &fakeDynamo{}
		err := NewPaymentAttemptDynamoRepository(fake, "", "").Cancel(context.Background(), sampleAttempt(), repoNow)
		require.NoError(t, err)
		require.Len(t, fake.updates, 3)
		assert.Equal(t, "canceled", sAttr(fake.updates[0].ExpressionAttributeValues[":status"]))
		assert.Equal(t, "hold-1", sAttr(fake.updates[1].ExpressionAttributeValues[":hold_id"]))
	})

	t.Run("already final", func(t *testing.T) {
		fake := &fakeDynamo{updateItem: func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
			return nil, conditionFailed()
		}}
		err := NewPaymentAttemptDynamoRepository(fake, "", "").Cancel(context.Background(), sampleAttempt(), repoNow)
		assert.ErrorIs(t, err, interfaces.ErrAttemptFinalized)
		assert.Len(t, fake.updates, 1)
	})
}

func TestSettingsDynamoRepository(t *testing.T) {
	stored := map[string]types.AttributeValue{}
	fake := &fakeDynamo{
		putItem: func(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			stored = in.Item
			return &dynamodb.PutItemOutput{}, nil
		},
		getItem: func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: stored}, nil
		},
	}
	repo := NewSettingsDynamoRepository(fake, "")

	missing, err := repo.Get(context.Background(), entities.SettingKeyPriceUSD)
	require.NoError(t, err)
	assert.Empty(t, missing.Key)

	_, err = repo.Upsert(context.Background(), entities.SettingKeyPriceUSD, 4.25, repoNow)
	require.NoError(t, err)

	got, err := repo.Get(context.Background(), entities.SettingKeyPriceUSD)
	require.NoError(t, err)
	assert.Equal(t, 4.25, got.Value)
	assert.True(t, got.UpdatedAt.Equal(repoNow))
}
