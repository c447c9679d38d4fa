package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TransactOp is one element of an atomic write: either a put (optionally
// conditional) or a delete, never both.
type TransactOp struct {
	Table     string
	Put       interface{}
	Condition string // condition expression applied to a put
	Delete    map[string]types.AttributeValue
}

// DataStore is the abstract store surface the domain services depend on:
// keyed reads, queries, atomic upserts, conditional puts and transactional
// writes. DynamoService is the production implementation.
type DataStore interface {
	GetItem(ctx context.Context, table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error)
	PutItem(ctx context.Context, table string, item interface{}) error
	PutItemIfAbsent(ctx context.Context, table string, item interface{}, keyAttr string) (bool, error)
	DeleteItem(ctx context.Context, table string, key map[string]types.AttributeValue) error
	QueryItems(ctx context.Context, table, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error)
	QueryItemsWithIndex(ctx context.Context, table, index, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error)
	ScanItems(ctx context.Context, table, filterExpression string, values map[string]types.AttributeValue, names map[string]string) ([]map[string]types.AttributeValue, error)
	TransactWrite(ctx context.Context, ops []TransactOp) error
}

type DynamoService struct {
	Client *dynamodb.Client
}

var _ DataStore = (*DynamoService)(nil)

// NewDynamoDBClient initializes the DynamoDB client. A non-empty endpoint
// overrides the resolved one (local development).
func NewDynamoDBClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// GetItem retrieves an item from DynamoDB. A missing item is (nil, nil).
func (ds *DynamoService) GetItem(ctx context.Context, table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &table,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", table, err)
	}
	return output.Item, nil
}

// PutItem marshals and unconditionally upserts an item.
func (ds *DynamoService) PutItem(ctx context.Context, table string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &table,
		Item:      marshaled,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in table '%s': %w", table, err)
	}
	return nil
}

// PutItemIfAbsent inserts the item only if no item with the same key exists
// yet, using a condition on keyAttr. Returns false when the item was already
// present; the losing writer of a race sees false, not an error.
func (ds *DynamoService) PutItemIfAbsent(ctx context.Context, table string, item interface{}, keyAttr string) (bool, error) {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return false, fmt.Errorf("failed to marshal item: %w", err)
	}
	condition := "attribute_not_exists(#k)"
	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                &table,
		Item:                     marshaled,
		ConditionExpression:      &condition,
		ExpressionAttributeNames: map[string]string{"#k": keyAttr},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return false, nil
		}
		return false, fmt.Errorf("failed to put item in table '%s': %w", table, err)
	}
	return true, nil
}

// DeleteItem removes an item from DynamoDB
func (ds *DynamoService) DeleteItem(ctx context.Context, table string, key map[string]types.AttributeValue) error {
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &table,
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from table '%s': %w", table, err)
	}
	return nil
}

// QueryItems queries items using a KeyConditionExpression
func (ds *DynamoService) QueryItems(
	ctx context.Context,
	table, keyCondition string,
	values map[string]types.AttributeValue,
	names map[string]string,
	limit int32,
) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:                 &table,
		KeyConditionExpression:    &keyCondition,
		ExpressionAttributeValues: values,
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}
	if limit > 0 {
		input.Limit = &limit
	}
	output, err := ds.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query items from table '%s': %w", table, err)
	}
	return output.Items, nil
}

// QueryItemsWithIndex queries items through a Global Secondary Index
func (ds *DynamoService) QueryItemsWithIndex(
	ctx context.Context,
	table, index, keyCondition string,
	values map[string]types.AttributeValue,
	names map[string]string,
	limit int32,
) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:                 &table,
		IndexName:                 &index,
		KeyConditionExpression:    &keyCondition,
		ExpressionAttributeValues: values,
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}
	if limit > 0 {
		input.Limit = &limit
	}
	output, err := ds.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query GSI '%s': %w", index, err)
	}
	return output.Items, nil
}

// ScanItems performs a filtered scan. Pagination is followed to the end so
// callers see the complete filtered set.
func (ds *DynamoService) ScanItems(
	ctx context.Context,
	table, filterExpression string,
	values map[string]types.AttributeValue,
	names map[string]string,
) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:         &table,
			ExclusiveStartKey: startKey,
		}
		if filterExpression != "" {
			input.FilterExpression = &filterExpression
			input.ExpressionAttributeValues = values
		}
		if len(names) > 0 {
			input.ExpressionAttributeNames = names
		}
		output, err := ds.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table '%s': %w", table, err)
		}
		items = append(items, output.Items...)
		if output.LastEvaluatedKey == nil {
			return items, nil
		}
		startKey = output.LastEvaluatedKey
	}
}

// TransactWrite executes the operations as a single atomic unit. A
// cancellation caused by a failed condition surfaces as
// ErrTransactionConflict so callers can take their idempotent path.
func (ds *DynamoService) TransactWrite(ctx context.Context, ops []TransactOp) error {
	if len(ops) == 0 {
		return nil
	}

	writeItems := make([]types.TransactWriteItem, 0, len(ops))
	for _, op := range ops {
		switch {
		case op.Put != nil:
			marshaled, err := attributevalue.MarshalMap(op.Put)
			if err != nil {
				return fmt.Errorf("failed to marshal item for table '%s': %w", op.Table, err)
			}
			put := &types.Put{TableName: aws.String(op.Table), Item: marshaled}
			if op.Condition != "" {
				put.ConditionExpression = aws.String(op.Condition)
			}
			writeItems = append(writeItems, types.TransactWriteItem{Put: put})
		case op.Delete != nil:
			writeItems = append(writeItems, types.TransactWriteItem{
				Delete: &types.Delete{TableName: aws.String(op.Table), Key: op.Delete},
			})
		}
	}

	_, err := ds.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: writeItems,
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			for _, reason := range canceled.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					return ErrTransactionConflict
				}
			}
		}
		return fmt.Errorf("transactional write failed: %w", err)
	}
	return nil
}
