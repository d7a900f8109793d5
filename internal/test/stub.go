package test

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// StubDynamoDB answers each call with the matching function, or an empty
// output when none is set. Calls are recorded for assertions.
type StubDynamoDB struct {
	mu                   sync.Mutex
	Calls                []string
	OnGetItem            func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	OnPutItem            func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	OnUpdateItem         func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error)
	OnDeleteItem         func(*dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error)
	OnQuery              func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
	OnBatchGetItem       func(*dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error)
	OnTransactWriteItems func(*dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error)
}

func (s *StubDynamoDB) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, call)
}

func (s *StubDynamoDB) Count(call string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, c := range s.Calls {
		if c == call {
			count++
		}
	}
	return count
}

func (s *StubDynamoDB) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	s.record("GetItem")
	if s.OnGetItem == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return s.OnGetItem(params)
}

func (s *StubDynamoDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	s.record("PutItem")
	if s.OnPutItem == nil {
		return &dynamodb.PutItemOutput{}, nil
	}
	return s.OnPutItem(params)
}

func (s *StubDynamoDB) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	s.record("UpdateItem")
	if s.OnUpdateItem == nil {
		return &dynamodb.UpdateItemOutput{}, nil
	}
	return s.OnUpdateItem(params)
}

func (s *StubDynamoDB) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	s.record("DeleteItem")
	if s.OnDeleteItem == nil {
		return &dynamodb.DeleteItemOutput{}, nil
	}
	return s.OnDeleteItem(params)
}

func (s *StubDynamoDB) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	s.record("Query")
	if s.OnQuery == nil {
		return &dynamodb.QueryOutput{}, nil
	}
	return s.OnQuery(params)
}

func (s *StubDynamoDB) BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	s.record("BatchGetItem")
	if s.OnBatchGetItem == nil {
		return &dynamodb.BatchGetItemOutput{}, nil
	}
	return s.OnBatchGetItem(params)
}

func (s *StubDynamoDB) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	s.record("TransactWriteItems")
	if s.OnTransactWriteItems == nil {
		return &dynamodb.TransactWriteItemsOutput{}, nil
	}
	return s.OnTransactWriteItems(params)
}
