package ingredients

import (
	"context"
	"strings"
	"time"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/dynamodb/services"
	"foodgram.io/backend/internal/dynamodb/token"
	"foodgram.io/backend/internal/exceptions"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/google/uuid"
)

const RESOURCE = "Ingredient"

var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://foodgram.io/ingredients"))

// IngredientId is stable for a (name, unit) pair, so the pair is unique by key.
func IngredientId(name string, measurementUnit string) string {
	return uuid.NewSHA1(namespace, []byte(name+"\x00"+measurementUnit)).String()
}

type IngredientDynamoDBService struct {
	*services.RepositoryDynamoDBService[data.IngredientDTO, data.IngredientInputDTO]
}

func NewIngredientService(tableName string, client services.DynamoDBClient, marshaler token.TokenMarshaler) *IngredientDynamoDBService {
	return &IngredientDynamoDBService{
		RepositoryDynamoDBService: &services.RepositoryDynamoDBService[data.IngredientDTO, data.IngredientInputDTO]{
			DynamoDB:       client,
			TableName:      tableName,
			TokenMarshaler: marshaler,
			Name:           RESOURCE,
			Shim: func(pk, sk string) data.IngredientDTO {
				return data.IngredientDTO{PK: pk, SK: sk}
			},
			OnCreate: func(iid data.IngredientInputDTO, t time.Time, pk, sk string) data.IngredientDTO {
				return data.IngredientDTO{
					PK:              pk,
					SK:              sk,
					Name:            *iid.Name,
					MeasurementUnit: *iid.MeasurementUnit,
					SearchName:      strings.ToLower(*iid.Name),
					CreateTime:      t,
					UpdateTime:      t,
				}
			},
			OnConflict: func(itemId string) error {
				return exceptions.Conflict("ingredient", itemId)
			},
		},
	}
}

// Create keys the ingredient by its (name, unit) pair.
func (is *IngredientDynamoDBService) Create(ctx context.Context, accountId string, input data.IngredientInputDTO) (data.IngredientDTO, error) {
	return is.CreateWithItemId(ctx, accountId, input, IngredientId(*input.Name, *input.MeasurementUnit))
}

// Search matches names starting with prefix, ignoring case.
func (is *IngredientDynamoDBService) Search(ctx context.Context, prefix string, params data.QueryParams) (data.QueryResults[data.IngredientDTO], error) {
	query := services.Query{
		KeyName:  "PK",
		KeyValue: services.PrimaryKey(data.GLOBAL_ACCOUNT, RESOURCE),
	}
	if prefix != "" {
		filter := expression.Name("searchName").BeginsWith(strings.ToLower(prefix))
		query.Filter = &filter
	}
	return is.Query(ctx, query, params)
}
