package references

import (
	"context"
	"time"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/dynamodb/services"
	"foodgram.io/backend/internal/dynamodb/token"
	"foodgram.io/backend/internal/exceptions"
)

const (
	FAVORITE      = "Favorite"
	SHOPPING_CART = "ShoppingCart"
	REFERENCE     = "Reference"
)

// IndexKey groups every reference to a recipe under one index partition.
func IndexKey(recipeId string) string {
	return services.PrimaryKey(recipeId, REFERENCE)
}

func newReferenceService(name string, tableName string, client services.DynamoDBClient, marshaler token.TokenMarshaler) *services.RepositoryDynamoDBService[data.ReferenceDTO, data.ReferenceInputDTO] {
	return &services.RepositoryDynamoDBService[data.ReferenceDTO, data.ReferenceInputDTO]{
		DynamoDB:       client,
		TableName:      tableName,
		TokenMarshaler: marshaler,
		Name:           name,
		Descending:     true,
		Shim: func(pk, sk string) data.ReferenceDTO {
			return data.ReferenceDTO{PK: pk, SK: sk}
		},
		OnCreate: func(rid data.ReferenceInputDTO, t time.Time, pk, sk string) data.ReferenceDTO {
			return data.ReferenceDTO{
				PK:         pk,
				SK:         sk,
				FirstIndex: IndexKey(sk),
				AccountId:  *rid.AccountId,
				CreateTime: t,
				UpdateTime: t,
			}
		},
	}
}

func NewFavoriteService(tableName string, client services.DynamoDBClient, marshaler token.TokenMarshaler) *services.RepositoryDynamoDBService[data.ReferenceDTO, data.ReferenceInputDTO] {
	service := newReferenceService(FAVORITE, tableName, client, marshaler)
	service.OnConflict = func(itemId string) error {
		return exceptions.InvalidInput("Recipe is already in favorites.")
	}
	service.OnMissing = func(itemId string) error {
		return exceptions.InvalidInput("Recipe is not in favorites.")
	}
	return service
}

type ShoppingCartDynamoDBService struct {
	*services.RepositoryDynamoDBService[data.ReferenceDTO, data.ReferenceInputDTO]
	Recipes data.RecipeRepository
}

func NewShoppingCartService(tableName string, client services.DynamoDBClient, marshaler token.TokenMarshaler, recipes data.RecipeRepository) *ShoppingCartDynamoDBService {
	service := newReferenceService(SHOPPING_CART, tableName, client, marshaler)
	service.OnConflict = func(itemId string) error {
		return exceptions.InvalidInput("Recipe is already in the shopping cart.")
	}
	service.OnMissing = func(itemId string) error {
		return exceptions.InvalidInput("Recipe is not in the shopping cart.")
	}
	return &ShoppingCartDynamoDBService{
		RepositoryDynamoDBService: service,
		Recipes:                   recipes,
	}
}

// Ingredients flattens the ingredient lines of every recipe in the cart.
// Entries whose recipe is gone contribute nothing.
func (sc *ShoppingCartDynamoDBService) Ingredients(ctx context.Context, accountId string) ([]data.RecipeIngredientDTO, error) {
	entries, err := data.ListAll(ctx, func(ctx context.Context, params data.QueryParams) (data.QueryResults[data.ReferenceDTO], error) {
		return sc.List(ctx, accountId, params)
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	recipeIds := make([]string, len(entries))
	for i, entry := range entries {
		recipeIds[i] = entry.SK
	}
	recipes, err := sc.Recipes.BatchGet(ctx, recipeIds)
	if err != nil {
		return nil, err
	}
	var lines []data.RecipeIngredientDTO
	for _, recipe := range recipes {
		lines = append(lines, recipe.Ingredients...)
	}
	return lines, nil
}
