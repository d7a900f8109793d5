package apitokens

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/dynamodb/services"
	"foodgram.io/backend/internal/dynamodb/token"
)

const RESOURCE = "ApiToken"

// Bytes of randomness in an issued token, hex encoded on the wire.
const TOKEN_BYTES = 20

func NewKey() (string, error) {
	key := make([]byte, TOKEN_BYTES)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

func IndexKey(accountId string) string {
	return services.PrimaryKey(accountId, RESOURCE)
}

func NewApiTokenService(tableName string, client services.DynamoDBClient, marshaler token.TokenMarshaler) *services.RepositoryDynamoDBService[data.ApiTokenDTO, data.ApiTokenInputDTO] {
	return &services.RepositoryDynamoDBService[data.ApiTokenDTO, data.ApiTokenInputDTO]{
		DynamoDB:       client,
		TableName:      tableName,
		TokenMarshaler: marshaler,
		Name:           RESOURCE,
		NewId:          NewKey,
		Shim: func(pk, sk string) data.ApiTokenDTO {
			return data.ApiTokenDTO{PK: pk, SK: sk}
		},
		OnCreate: func(atid data.ApiTokenInputDTO, t time.Time, pk, sk string) data.ApiTokenDTO {
			return data.ApiTokenDTO{
				PK:         pk,
				SK:         sk,
				FirstIndex: IndexKey(*atid.AccountId),
				AccountId:  *atid.AccountId,
				CreateTime: t,
				UpdateTime: t,
			}
		},
	}
}
