package tags

import (
	"strings"
	"time"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/dynamodb/services"
	"foodgram.io/backend/internal/dynamodb/token"
	"foodgram.io/backend/internal/exceptions"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/google/uuid"
)

const RESOURCE = "Tag"

var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://foodgram.io/tags"))

// TagId derives the id from the slug, which makes slugs unique.
func TagId(slug string) string {
	return uuid.NewSHA1(namespace, []byte(strings.ToLower(slug))).String()
}

func NewTagService(tableName string, client services.DynamoDBClient, marshaler token.TokenMarshaler) *services.RepositoryDynamoDBService[data.TagDTO, data.TagInputDTO] {
	return &services.RepositoryDynamoDBService[data.TagDTO, data.TagInputDTO]{
		DynamoDB:       client,
		TableName:      tableName,
		TokenMarshaler: marshaler,
		Name:           RESOURCE,
		Shim: func(pk, sk string) data.TagDTO {
			return data.TagDTO{PK: pk, SK: sk}
		},
		OnCreate: func(tid data.TagInputDTO, t time.Time, pk, sk string) data.TagDTO {
			return data.TagDTO{
				PK:         pk,
				SK:         sk,
				Name:       *tid.Name,
				Slug:       *tid.Slug,
				CreateTime: t,
				UpdateTime: t,
			}
		},
		OnUpdate: func(tid data.TagInputDTO, ub expression.UpdateBuilder) expression.UpdateBuilder {
			if tid.Name != nil {
				ub = ub.Set(expression.Name("name"), expression.Value(tid.Name))
			}
			return ub
		},
		OnConflict: func(itemId string) error {
			return exceptions.InvalidInput("A tag with this slug already exists.")
		},
	}
}
