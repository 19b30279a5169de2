package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultBoxesTableName = "boxes"
	transactionConflict   = "TransactionConflict"
	maxBatchGetAttempts   = 5
)

type boxItem struct {
	ID              string `dynamodbav:"id"`
	Status          string `dynamodbav:"status"`
	HoldID          string `dynamodbav:"hold_id,omitempty"`
	HoldExpiresAt   int64  `dynamodbav:"hold_expires_at,omitempty"`
	SoldAt          string `dynamodbav:"sold_at,omitempty"`
	PaymentIntentID string `dynamodbav:"payment_intent_id,omitempty"`
	UpdatedAt       string `dynamodbav:"updated_at"`
}

// BoxDynamoRepository persists the box registry in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// hold_expires_at is a number (unix ms); the other timestamps are RFC3339.

type BoxDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ interfaces.IBoxRepository = (*BoxDynamoRepository)(nil)

func NewBoxDynamoRepository(ddb DynamoDBAPI, tableName string) *BoxDynamoRepository {
	if tableName == "" {
		tableName = defaultBoxesTableName
	}
	return &BoxDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *BoxDynamoRepository) ListAll(ctx context.Context) ([]entities.Box, error) {
	var boxes []entities.Box
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName:      aws.String(r.tableName),
		ConsistentRead: aws.Bool(true),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			b, err := unmarshalBox(raw)
			if err != nil {
				return nil, err
			}
			boxes = append(boxes, b)
		}
	}
	sortBoxes(boxes)
	return boxes, nil
}

func (r *BoxDynamoRepository) GetByIDs(ctx context.Context, ids []string) ([]entities.Box, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(ids))
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, boxKey(id))
	}

	request := map[string]types.KeysAndAttributes{
		r.tableName: {Keys: keys, ConsistentRead: aws.Bool(true)},
	}
	var boxes []entities.Box
	for attempt := 0; len(request) > 0; attempt++ {
		if attempt == maxBatchGetAttempts {
			return nil, errors.New("batch get boxes: unprocessed keys remain")
		}
		out, err := r.ddb.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Responses[r.tableName] {
			b, err := unmarshalBox(raw)
			if err != nil {
				return nil, err
			}
			boxes = append(boxes, b)
		}
		request = out.UnprocessedKeys
	}
	sortBoxes(boxes)
	return boxes, nil
}

// Hold writes every box in one transaction. A cancellation is mapped back to
// the ids whose condition failed.
func (r *BoxDynamoRepository) Hold(ctx context.Context, ids []string, holdID string, expiresAt, now time.Time) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	items := make([]types.TransactWriteItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, types.TransactWriteItem{Update: &types.Update{
			TableName:           aws.String(r.tableName),
			Key:                 boxKey(id),
			UpdateExpression:    aws.String("SET #status = :held, #hold_id = :hold_id, #hold_expires_at = :expires_at, #updated_at = :now REMOVE #payment_intent_id"),
			ConditionExpression: aws.String("attribute_exists(#id) AND (#status = :available OR (#status = :held AND #hold_expires_at <= :now_ms))"),
			ExpressionAttributeNames: exprNames(
				"id", "status", "hold_id", "hold_expires_at", "updated_at", "payment_intent_id",
			),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":held":       strAV(string(entities.BoxStatusHeld)),
				":available":  strAV(string(entities.BoxStatusAvailable)),
				":hold_id":    strAV(holdID),
				":expires_at": numAV(toMillis(expiresAt)),
				":now":        strAV(formatTime(now)),
				":now_ms":     numAV(toMillis(now)),
			},
		}})
	}

	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return nil, nil
	}
	reasons := canceledReasons(err)
	if reasons == nil {
		return nil, err
	}
	// Only a failed condition proves a box is taken. TransactionConflict means
	// another write was in flight on the item and the caller may retry.
	var blocked []string
	for i, code := range reasons {
		if i < len(ids) && code == conditionalCheckFailed {
			blocked = append(blocked, ids[i])
		}
	}
	if len(blocked) == 0 {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrStoreConflict, err)
	}
	return blocked, nil
}

func (r *BoxDynamoRepository) Release(ctx context.Context, ids []string, holdID string, now time.Time) error {
	var errs []error
	for _, id := range ids {
		if _, err := releaseBox(ctx, r.ddb, r.tableName, id, holdID, now); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (r *BoxDynamoRepository) ReleaseExpired(ctx context.Context, now time.Time) (int, error) {
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		ProjectionExpression:     aws.String("#id"),
		FilterExpression:         aws.String("#status = :held AND #hold_expires_at <= :now_ms"),
		ExpressionAttributeNames: exprNames("id", "status", "hold_expires_at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":held":   strAV(string(entities.BoxStatusHeld)),
			":now_ms": numAV(toMillis(now)),
		},
	})

	released := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return released, err
		}
		for _, raw := range page.Items {
			var it boxItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return released, err
			}
			ok, err := releaseExpiredBox(ctx, r.ddb, r.tableName, it.ID, now)
			if err != nil {
				return released, fmt.Errorf("release %s: %w", it.ID, err)
			}
			if ok {
				released++
			}
		}
	}
	return released, nil
}

// Seed creates the missing registry rows. Existing rows are left untouched.
func (r *BoxDynamoRepository) Seed(ctx context.Context, now time.Time) (int, error) {
	created := 0
	for _, id := range entities.BoxIDs() {
		av, err := attributevalue.MarshalMap(boxItem{
			ID:        id,
			Status:    string(entities.BoxStatusAvailable),
			UpdatedAt: formatTime(now),
		})
		if err != nil {
			return created, err
		}
		_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:                aws.String(r.tableName),
			Item:                     av,
			ConditionExpression:      aws.String("attribute_not_exists(#id)"),
			ExpressionAttributeNames: exprNames("id"),
		})
		if err != nil {
			if isConditionalCheckFailed(err) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}

// releaseBox returns a box held under holdID to available. A box no longer
// held by holdID is left alone and reported as false.
func releaseBox(ctx context.Context, ddb DynamoDBAPI, table, id, holdID string, now time.Time) (bool, error) {
	return resetBox(ctx, ddb, table, id, "#status = :held AND #hold_id = :hold_id", map[string]types.AttributeValue{
		":hold_id": strAV(holdID),
	}, now)
}

func releaseExpiredBox(ctx context.Context, ddb DynamoDBAPI, table, id string, now time.Time) (bool, error) {
	return resetBox(ctx, ddb, table, id, "#status = :held AND #hold_expires_at <= :now_ms", map[string]types.AttributeValue{
		":now_ms": numAV(toMillis(now)),
	}, now)
}

func resetBox(ctx context.Context, ddb DynamoDBAPI, table, id, condition string, values map[string]types.AttributeValue, now time.Time) (bool, error) {
	vals := map[string]types.AttributeValue{
		":held":      strAV(string(entities.BoxStatusHeld)),
		":available": strAV(string(entities.BoxStatusAvailable)),
		":now":       strAV(formatTime(now)),
	}
	for k, v := range values {
		vals[k] = v
	}
	names := exprNames("status", "updated_at", "hold_id", "hold_expires_at", "payment_intent_id")

	_, err := ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       boxKey(id),
		UpdateExpression:          aws.String("SET #status = :available, #updated_at = :now REMOVE #hold_id, #hold_expires_at, #payment_intent_id"),
		ConditionExpression:       aws.String(condition),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: vals,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func boxKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": strAV(id)}
}

func unmarshalBox(raw map[string]types.AttributeValue) (entities.Box, error) {
	var it boxItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return entities.Box{}, err
	}
	return entities.Box{
		ID:              it.ID,
		Status:          entities.BoxStatus(it.Status),
		HoldID:          it.HoldID,
		HoldExpiresAt:   fromMillisPtr(it.HoldExpiresAt),
		SoldAt:          parseTimePtr(it.SoldAt),
		PaymentIntentID: it.PaymentIntentID,
		UpdatedAt:       parseTime(it.UpdatedAt),
	}, nil
}

func sortBoxes(boxes []entities.Box) {
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].ID < boxes[j].ID })
}
