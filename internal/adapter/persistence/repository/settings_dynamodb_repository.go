package repository

import (
	"context"
	"time"

	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultSettingsTableName = "settings"

type settingItem struct {
	Key       string  `dynamodbav:"key"`
	Value     float64 `dynamodbav:"value"`
	UpdatedAt string  `dynamodbav:"updated_at"`
}

// SettingsDynamoRepository persists Setting rows in DynamoDB.
//
// Table requirements:
//   - PK: key (string)

type SettingsDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ interfaces.ISettingsRepository = (*SettingsDynamoRepository)(nil)

func NewSettingsDynamoRepository(ddb DynamoDBAPI, tableName string) *SettingsDynamoRepository {
	if tableName == "" {
		tableName = defaultSettingsTableName
	}
	return &SettingsDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *SettingsDynamoRepository) Get(ctx context.Context, key string) (entities.Setting, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"key": strAV(key),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Setting{}, err
	}
	if len(out.Item) == 0 {
		return entities.Setting{}, nil
	}

	var it settingItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Setting{}, err
	}
	return entities.Setting{Key: it.Key, Value: it.Value, UpdatedAt: parseTime(it.UpdatedAt)}, nil
}

func (r *SettingsDynamoRepository) Upsert(ctx context.Context, key string, value float64, now time.Time) (entities.Setting, error) {
	av, err := attributevalue.MarshalMap(settingItem{Key: key, Value: value, UpdatedAt: formatTime(now)})
	if err != nil {
		return entities.Setting{}, err
	}
	if _, err := r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return entities.Setting{}, err
	}
	return entities.Setting{Key: key, Value: value, UpdatedAt: now.UTC()}, nil
}
