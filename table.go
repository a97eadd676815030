package dynafetch

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	dexp "github.com/aws/aws-sdk-go/service/dynamodb/expression"
)

type DynaTable struct {
	session   *DynaSession
	tableName string
}

func (dt *DynaTable) GetTableName() string {
	return dt.tableName
}

// QueryKeyWithContext query the records with the partition key provided
//
// At most ReadOptions.Limit records are read, the count in the outcome is therefore capped.
func (dt *DynaTable) QueryKeyWithContext(ctx context.Context, keyName string, key AttributeValue, options ...ReadOption) (*QueryOutcome, error) {
	readOptions := NewReadOptions(options...)

	ctx = setOperationName(ctx, "Query")

	cond := dexp.Key(keyName).Equal(dexp.Value(key))

	expr, err := dexp.NewBuilder().WithKeyCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build exp: %w", err)
	}

	query := &dynamodb.QueryInput{
		TableName:                 aws.String(dt.GetTableName()),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ConsistentRead:            aws.Bool(readOptions.consistent),
	}

	if readOptions.limit > 0 {
		query.Limit = aws.Int64(readOptions.limit)
	}

	ctx = dt.session.storeHooks.requestBuilt(ctx, query)

	res, err := dt.session.QueryWithContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}

	outcome := &QueryOutcome{Count: aws.Int64Value(res.Count)}

	if outcome.Count == 1 && len(res.Items) > 0 {
		outcome.Item, err = DecodeItem(res.Items[0])
		if err != nil {
			return nil, fmt.Errorf("failed to decode item: %w", err)
		}
	}

	return outcome, nil
}

// PutItemWithContext write the complete item, replacing any record with the same key unless
// WriteIfNotExists is supplied.
func (dt *DynaTable) PutItemWithContext(ctx context.Context, fields map[string]AttributeValue, options ...WriteOption) error {
	writeOptions := NewWriteOptions(options...)

	ctx = setOperationName(ctx, "PutItem")

	putItem := &dynamodb.PutItemInput{
		TableName: aws.String(dt.GetTableName()),
		Item:      DynamoItem(fields),
	}

	if keyName, ok := writeOptions.IfNotExists(); ok {
		expr, err := dexp.NewBuilder().WithCondition(dexp.AttributeNotExists(dexp.Name(keyName))).Build()
		if err != nil {
			return fmt.Errorf("failed to build condition expression: %w", err)
		}

		putItem.ConditionExpression = expr.Condition()
		putItem.ExpressionAttributeNames = expr.Names()

		// an empty values map is rejected by the service
		if values := expr.Values(); len(values) > 0 {
			putItem.ExpressionAttributeValues = values
		}
	}

	ctx = dt.session.storeHooks.requestBuilt(ctx, putItem)

	_, err := dt.session.PutItemWithContext(ctx, putItem)
	if err != nil {
		if awsErr, ok := err.(awserr.Error); ok {
			if awsErr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
				return ErrKeyExists
			}
		}
		return fmt.Errorf("failed to put item: %w", err)
	}

	return nil
}
