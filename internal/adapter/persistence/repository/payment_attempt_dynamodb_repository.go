package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultPaymentAttemptsTableName = "payment_attempts"

type paymentAttemptItem struct {
	ID           string   `dynamodbav:"id"`
	HoldID       string   `dynamodbav:"hold_id"`
	Boxes        []string `dynamodbav:"boxes"`
	PriceEachUSD float64  `dynamodbav:"price_each_usd"`
	Amount       int64    `dynamodbav:"amount"`
	Currency     string   `dynamodbav:"currency"`
	Status       string   `dynamodbav:"status"`
	CreatedAt    string   `dynamodbav:"created_at"`
	UpdatedAt    string   `dynamodbav:"updated_at"`
}

// PaymentAttemptDynamoRepository persists payment attempts and drives the
// matching box transitions in the same transaction.
//
// Table requirements:
//   - PK: id (string), the processor transaction id

type PaymentAttemptDynamoRepository struct {
	ddb        DynamoDBAPI
	tableName  string
	boxesTable string
}

var _ interfaces.IPaymentAttemptRepository = (*PaymentAttemptDynamoRepository)(nil)

func NewPaymentAttemptDynamoRepository(ddb DynamoDBAPI, tableName, boxesTable string) *PaymentAttemptDynamoRepository {
	if tableName == "" {
		tableName = defaultPaymentAttemptsTableName
	}
	if boxesTable == "" {
		boxesTable = defaultBoxesTableName
	}
	return &PaymentAttemptDynamoRepository{ddb: ddb, tableName: tableName, boxesTable: boxesTable}
}

func (r *PaymentAttemptDynamoRepository) Open(ctx context.Context, attempt entities.PaymentAttempt) error {
	av, err := attributevalue.MarshalMap(toPaymentAttemptItem(attempt))
	if err != nil {
		return err
	}

	items := []types.TransactWriteItem{{Put: &types.Put{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: exprNames("id"),
	}}}
	for _, id := range attempt.Boxes {
		items = append(items, types.TransactWriteItem{Update: &types.Update{
			TableName:                aws.String(r.boxesTable),
			Key:                      boxKey(id),
			UpdateExpression:         aws.String("SET #payment_intent_id = :pi, #updated_at = :now"),
			ConditionExpression:      aws.String("#status = :held AND #hold_id = :hold_id"),
			ExpressionAttributeNames: exprNames("payment_intent_id", "updated_at", "status", "hold_id"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pi":      strAV(attempt.ID),
				":now":     strAV(formatTime(attempt.CreatedAt)),
				":held":    strAV(string(entities.BoxStatusHeld)),
				":hold_id": strAV(attempt.HoldID),
			},
		}})
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return nil
	}
	attemptFailed, boxFailed := splitReasons(canceledReasons(err))
	switch {
	case attemptFailed:
		return fmt.Errorf("%w: payment attempt %s already recorded", interfaces.ErrStoreConflict, attempt.ID)
	case boxFailed:
		return interfaces.ErrHoldLost
	default:
		return err
	}
}

func (r *PaymentAttemptDynamoRepository) GetByID(ctx context.Context, id string) (entities.PaymentAttempt, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            map[string]types.AttributeValue{"id": strAV(id)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.PaymentAttempt{}, err
	}
	if len(out.Item) == 0 {
		return entities.PaymentAttempt{}, nil
	}

	var it paymentAttemptItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.PaymentAttempt{}, err
	}
	return fromPaymentAttemptItem(it), nil
}

// Confirm sells every box of the attempt. A box is sellable when it is still
// held for this payment intent, or when nobody else holds it any more.
func (r *PaymentAttemptDynamoRepository) Confirm(ctx context.Context, attempt entities.PaymentAttempt, now time.Time) error {
	items := []types.TransactWriteItem{r.finalizeAttempt(attempt.ID, entities.PaymentAttemptConfirmed, now)}
	for _, id := range attempt.Boxes {
		items = append(items, types.TransactWriteItem{Update: &types.Update{
			TableName:           aws.String(r.boxesTable),
			Key:                 boxKey(id),
			UpdateExpression:    aws.String("SET #status = :sold, #sold_at = :now, #payment_intent_id = :pi, #updated_at = :now REMOVE #hold_id, #hold_expires_at"),
			ConditionExpression: aws.String("#status = :available OR (#status = :held AND (#payment_intent_id = :pi OR #hold_expires_at <= :now_ms))"),
			ExpressionAttributeNames: exprNames(
				"status", "sold_at", "payment_intent_id", "updated_at", "hold_id", "hold_expires_at",
			),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":sold":      strAV(string(entities.BoxStatusSold)),
				":available": strAV(string(entities.BoxStatusAvailable)),
				":held":      strAV(string(entities.BoxStatusHeld)),
				":pi":        strAV(attempt.ID),
				":now":       strAV(formatTime(now)),
				":now_ms":    numAV(toMillis(now)),
			},
		}})
	}

	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return nil
	}
	attemptFailed, boxFailed := splitReasons(canceledReasons(err))
	switch {
	case attemptFailed:
		return interfaces.ErrAttemptFinalized
	case boxFailed:
		return interfaces.ErrHoldLost
	default:
		return err
	}
}

// Cancel finalizes the attempt first, then releases whatever boxes are still
// held under its hold id. Boxes that fail to release expire on their own.
func (r *PaymentAttemptDynamoRepository) Cancel(ctx context.Context, attempt entities.PaymentAttempt, now time.Time) error {
	upd := r.finalizeAttempt(attempt.ID, entities.PaymentAttemptCanceled, now).Update
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 upd.TableName,
		Key:                       upd.Key,
		UpdateExpression:          upd.UpdateExpression,
		ConditionExpression:       upd.ConditionExpression,
		ExpressionAttributeNames:  upd.ExpressionAttributeNames,
		ExpressionAttributeValues: upd.ExpressionAttributeValues,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return interfaces.ErrAttemptFinalized
		}
		return err
	}

	var errs []error
	for _, id := range attempt.Boxes {
		if _, err := releaseBox(ctx, r.ddb, r.boxesTable, id, attempt.HoldID, now); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (r *PaymentAttemptDynamoRepository) finalizeAttempt(id string, status entities.PaymentAttemptStatus, now time.Time) types.TransactWriteItem {
	return types.TransactWriteItem{Update: &types.Update{
		TableName:                aws.String(r.tableName),
		Key:                      map[string]types.AttributeValue{"id": strAV(id)},
		UpdateExpression:         aws.String("SET #status = :status, #updated_at = :now"),
		ConditionExpression:      aws.String("#status = :pending"),
		ExpressionAttributeNames: exprNames("status", "updated_at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":  strAV(string(status)),
			":now":     strAV(formatTime(now)),
			":pending": strAV(string(entities.PaymentAttemptPending)),
		},
	}}
}

// splitReasons reports whether the first transaction item (the attempt) or
// any later one (a box) failed its condition.
func splitReasons(codes []string) (attemptFailed, boxFailed bool) {
	for i, code := range codes {
		if code != conditionalCheckFailed {
			continue
		}
		if i == 0 {
			attemptFailed = true
		} else {
			boxFailed = true
		}
	}
	return attemptFailed, boxFailed
}

func toPaymentAttemptItem(a entities.PaymentAttempt) paymentAttemptItem {
	return paymentAttemptItem{
		ID:           a.ID,
		HoldID:       a.HoldID,
		Boxes:        a.Boxes,
		PriceEachUSD: a.PriceEachUSD,
		Amount:       a.Amount,
		Currency:     a.Currency,
		Status:       string(a.Status),
		CreatedAt:    formatTime(a.CreatedAt),
		UpdatedAt:    formatTime(a.UpdatedAt),
	}
}

func fromPaymentAttemptItem(it paymentAttemptItem) entities.PaymentAttempt {
	return entities.PaymentAttempt{
		ID:           it.ID,
		HoldID:       it.HoldID,
		Boxes:        it.Boxes,
		PriceEachUSD: it.PriceEachUSD,
		Amount:       it.Amount,
		Currency:     it.Currency,
		Status:       entities.PaymentAttemptStatus(it.Status),
		CreatedAt:    parseTime(it.CreatedAt),
		UpdatedAt:    parseTime(it.UpdatedAt),
	}
}
