package token

import "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

// TokenMarshaler turns a DynamoDB LastEvaluatedKey into an opaque page token
// bound to the scope (account or index key) of the query that produced it.
type TokenMarshaler interface {
	Marshal(scope string, lastKey map[string]types.AttributeValue) ([]byte, error)
	Unmarshal(scope string, token []byte) (map[string]types.AttributeValue, error)
}
