package data

import (
	"context"
	"time"
)

// ReferenceDTO links an account to a recipe: a cart entry or a favorite.
type ReferenceDTO struct {
	PK         string    `dynamodbav:"PK"`
	SK         string    `dynamodbav:"SK"`
	FirstIndex string    `dynamodbav:"GS1-PK"`
	AccountId  string    `dynamodbav:"accountId"`
	CreateTime time.Time `dynamodbav:"createTime"`
	UpdateTime time.Time `dynamodbav:"updateTime"`
}

type ReferenceInputDTO struct {
	AccountId *string `dynamodbav:"accountId"`
}

type FavoriteRepository interface {
	Repository[ReferenceDTO, ReferenceInputDTO]
}

type ShoppingCartRepository interface {
	Repository[ReferenceDTO, ReferenceInputDTO]
	// Ingredients flattens the ingredient lines of every recipe in the cart.
	Ingredients(ctx context.Context, accountId string) ([]RecipeIngredientDTO, error)
}
