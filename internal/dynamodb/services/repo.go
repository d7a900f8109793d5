package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/dynamodb/token"
	"foodgram.io/backend/internal/exceptions"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

const BATCH_GET_LIMIT = 100

// Attempts at draining UnprocessedKeys before a batch read gives up.
const MAX_BATCH_ROUNDS = 5

type RepositoryDynamoDBService[T interface{}, I interface{}] struct {
	DynamoDB       DynamoDBClient
	TableName      string
	TokenMarshaler token.TokenMarshaler
	Name           string
	Descending     bool
	Shim           func(pk string, sk string) T
	OnCreate       func(I, time.Time, string, string) T
	OnUpdate       func(I, expression.UpdateBuilder) expression.UpdateBuilder
	// OnConflict replaces the default Conflict error for an occupied key.
	OnConflict func(itemId string) error
	// OnMissing replaces the NotFound error when an update or delete finds
	// no item.
	OnMissing func(itemId string) error
	NewId     func() (string, error)
}

// Query describes a single partition read, on the table or on an index.
type Query struct {
	IndexName  string
	KeyName    string
	KeyValue   string
	Filter     *expression.ConditionBuilder
	Descending bool
}

func NewId() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (rs *RepositoryDynamoDBService[T, I]) resource() string {
	return strings.ToLower(rs.Name)
}

func (rs *RepositoryDynamoDBService[T, I]) conflict(itemId string) error {
	if rs.OnConflict != nil {
		return rs.OnConflict(itemId)
	}
	return exceptions.Conflict(rs.resource(), itemId)
}

func (rs *RepositoryDynamoDBService[T, I]) missing(itemId string) error {
	if rs.OnMissing != nil {
		return rs.OnMissing(itemId)
	}
	return exceptions.NotFound(rs.resource(), itemId)
}

// Query reads one page of at most params.GetLimit() items. Filtered reads keep
// querying until the page is full or the partition is exhausted.
func (rs *RepositoryDynamoDBService[T, I]) Query(ctx context.Context, query Query, params data.QueryParams) (data.QueryResults[T], error) {
	builder := expression.NewBuilder().WithKeyCondition(expression.Key(query.KeyName).Equal(expression.Value(query.KeyValue)))
	if query.Filter != nil {
		builder = builder.WithFilter(*query.Filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return data.QueryResults[T]{}, err
	}
	startKey, err := rs.TokenMarshaler.Unmarshal(query.KeyValue, params.NextToken)
	if err != nil {
		return data.QueryResults[T]{}, exceptions.InvalidInput(fmt.Sprintf("invalid page token: %s", err))
	}
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(rs.TableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(!query.Descending),
	}
	if query.IndexName != "" {
		input.IndexName = aws.String(query.IndexName)
	}
	limit := *params.GetLimit()
	items := make([]T, 0, limit)
	for {
		remaining := limit - int32(len(items))
		input.Limit = aws.Int32(remaining)
		input.ExclusiveStartKey = startKey
		output, err := rs.DynamoDB.Query(ctx, input)
		if err != nil {
			return data.QueryResults[T]{}, err
		}
		var page []T
		if err := attributevalue.UnmarshalListOfMaps(output.Items, &page); err != nil {
			return data.QueryResults[T]{}, err
		}
		items = append(items, page...)
		startKey = output.LastEvaluatedKey
		if len(startKey) == 0 || int32(len(items)) >= limit {
			break
		}
	}
	nextToken, err := rs.TokenMarshaler.Marshal(query.KeyValue, startKey)
	if err != nil {
		return data.QueryResults[T]{}, err
	}
	return data.QueryResults[T]{
		Items:     items,
		NextToken: nextToken,
	}, nil
}

func (rs *RepositoryDynamoDBService[T, I]) List(ctx context.Context, accountId string, params data.QueryParams) (data.QueryResults[T], error) {
	return rs.Query(ctx, Query{
		KeyName:    "PK",
		KeyValue:   PrimaryKey(accountId, rs.Name),
		Descending: rs.Descending,
	}, params)
}

func (rs *RepositoryDynamoDBService[T, I]) ListByIndex(ctx context.Context, indexName string, indexKey string, params data.QueryParams) (data.QueryResults[T], error) {
	return rs.Query(ctx, Query{
		IndexName:  indexName,
		KeyName:    INDEX_KEY,
		KeyValue:   indexKey,
		Descending: rs.Descending,
	}, params)
}

func (rs *RepositoryDynamoDBService[T, I]) Get(ctx context.Context, accountId string, itemId string) (T, error) {
	pk := PrimaryKey(accountId, rs.Name)
	shim := rs.Shim(pk, itemId)
	key, err := Key(pk, itemId)
	if err != nil {
		return shim, err
	}
	response, err := rs.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(rs.TableName),
		Key:       key,
	})
	if err != nil {
		return shim, err
	}
	if response.Item == nil {
		return shim, exceptions.NotFound(rs.resource(), itemId)
	}
	err = attributevalue.UnmarshalMap(response.Item, &shim)
	return shim, err
}

// BatchGet returns the items that exist, in the order of itemIds.
func (rs *RepositoryDynamoDBService[T, I]) BatchGet(ctx context.Context, accountId string, itemIds []string) ([]T, error) {
	pk := PrimaryKey(accountId, rs.Name)
	found := make(map[string]map[string]types.AttributeValue, len(itemIds))
	var ordered []string
	for _, itemId := range itemIds {
		if _, seen := found[itemId]; !seen {
			found[itemId] = nil
			ordered = append(ordered, itemId)
		}
	}
	for start := 0; start < len(ordered); start += BATCH_GET_LIMIT {
		end := min(start+BATCH_GET_LIMIT, len(ordered))
		keys := make([]map[string]types.AttributeValue, 0, end-start)
		for _, itemId := range ordered[start:end] {
			key, err := Key(pk, itemId)
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
		}
		request := map[string]types.KeysAndAttributes{
			rs.TableName: {Keys: keys},
		}
		for round := 0; len(request) > 0; round++ {
			if round == MAX_BATCH_ROUNDS {
				return nil, fmt.Errorf("batch read of %s left unprocessed keys", rs.resource())
			}
			output, err := rs.DynamoDB.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
				RequestItems: request,
			})
			if err != nil {
				return nil, err
			}
			for _, item := range output.Responses[rs.TableName] {
				var sk string
				if err := attributevalue.Unmarshal(item["SK"], &sk); err != nil {
					return nil, err
				}
				found[sk] = item
			}
			request = output.UnprocessedKeys
		}
	}
	items := make([]T, 0, len(ordered))
	for _, itemId := range ordered {
		item := found[itemId]
		if item == nil {
			continue
		}
		shim := rs.Shim(pk, itemId)
		if err := attributevalue.UnmarshalMap(item, &shim); err != nil {
			return nil, err
		}
		items = append(items, shim)
	}
	return items, nil
}

func (rs *RepositoryDynamoDBService[T, I]) Create(ctx context.Context, accountId string, input I) (T, error) {
	newId := rs.NewId
	if newId == nil {
		newId = NewId
	}
	itemId, err := newId()
	if err != nil {
		var empty T
		return empty, err
	}
	return rs.CreateWithItemId(ctx, accountId, input, itemId)
}

func (rs *RepositoryDynamoDBService[T, I]) CreateWithItemId(ctx context.Context, accountId string, input I, itemId string) (T, error) {
	now := time.Now()
	shim := rs.OnCreate(input, now, PrimaryKey(accountId, rs.Name), itemId)
	item, err := attributevalue.MarshalMap(shim)
	if err != nil {
		return shim, err
	}
	expr, err := expression.NewBuilder().WithCondition(notExists()).Build()
	if err != nil {
		return shim, err
	}
	_, err = rs.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		Item:                     item,
		TableName:                aws.String(rs.TableName),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if IsConditionFailed(err) {
			return shim, rs.conflict(itemId)
		}
		return shim, err
	}
	return shim, nil
}

func (rs *RepositoryDynamoDBService[T, I]) Update(ctx context.Context, accountId string, itemId string, input I) (T, error) {
	pk := PrimaryKey(accountId, rs.Name)
	shim := rs.Shim(pk, itemId)
	key, err := Key(pk, itemId)
	if err != nil {
		return shim, err
	}
	update := expression.Set(expression.Name("updateTime"), expression.Value(time.Now()))
	if rs.OnUpdate != nil {
		update = rs.OnUpdate(input, update)
	}
	expr, err := expression.NewBuilder().WithCondition(exists()).WithUpdate(update).Build()
	if err != nil {
		return shim, err
	}
	response, err := rs.DynamoDB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(rs.TableName),
		Key:                       key,
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if IsConditionFailed(err) {
			return shim, rs.missing(itemId)
		}
		return shim, err
	}
	err = attributevalue.UnmarshalMap(response.Attributes, &shim)
	return shim, err
}

func (rs *RepositoryDynamoDBService[T, I]) Delete(ctx context.Context, accountId string, itemId string) error {
	key, err := Key(PrimaryKey(accountId, rs.Name), itemId)
	if err != nil {
		return err
	}
	expr, err := expression.NewBuilder().WithCondition(exists()).Build()
	if err != nil {
		return err
	}
	_, err = rs.DynamoDB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		Key:                      key,
		TableName:                aws.String(rs.TableName),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if IsConditionFailed(err) {
		return rs.missing(itemId)
	}
	return err
}
