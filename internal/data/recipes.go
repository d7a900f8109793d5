package data

import (
	"context"
	"time"
)

type RecipeTagDTO struct {
	Id   string `dynamodbav:"id"`
	Name string `dynamodbav:"name"`
	Slug string `dynamodbav:"slug"`
}

type RecipeIngredientDTO struct {
	Id              string `dynamodbav:"id"`
	Name            string `dynamodbav:"name"`
	MeasurementUnit string `dynamodbav:"measurementUnit"`
	Amount          int    `dynamodbav:"amount"`
}

type RecipeDTO struct {
	PK          string                `dynamodbav:"PK"`
	SK          string                `dynamodbav:"SK"`
	FirstIndex  string                `dynamodbav:"GS1-PK"`
	Author      string                `dynamodbav:"author"`
	Name        string                `dynamodbav:"name"`
	Text        string                `dynamodbav:"text"`
	Image       string                `dynamodbav:"image"`
	CookingTime int                   `dynamodbav:"cookingTime"`
	ShortCode   string                `dynamodbav:"shortCode"`
	Tags        []RecipeTagDTO        `dynamodbav:"tags"`
	TagSlugs    []string              `dynamodbav:"tagSlugs,stringset,omitempty"`
	Ingredients []RecipeIngredientDTO `dynamodbav:"ingredients"`
	CreateTime  time.Time             `dynamodbav:"createTime"`
	UpdateTime  time.Time             `dynamodbav:"updateTime"`
}

type RecipeInputDTO struct {
	Author      *string                `dynamodbav:"author"`
	Name        *string                `dynamodbav:"name"`
	Text        *string                `dynamodbav:"text"`
	Image       *string                `dynamodbav:"image"`
	CookingTime *int                   `dynamodbav:"cookingTime"`
	Tags        *[]RecipeTagDTO        `dynamodbav:"tags"`
	Ingredients *[]RecipeIngredientDTO `dynamodbav:"ingredients"`
}

type RecipeFilter struct {
	Author string
	Tags   []string
}

func (f RecipeFilter) Matches(recipe RecipeDTO) bool {
	if f.Author != "" && recipe.Author != f.Author {
		return false
	}
	if len(f.Tags) == 0 {
		return true
	}
	for _, wanted := range f.Tags {
		for _, slug := range recipe.TagSlugs {
			if slug == wanted {
				return true
			}
		}
	}
	return false
}

type RecipeRepository interface {
	Get(ctx context.Context, recipeId string) (RecipeDTO, error)
	BatchGet(ctx context.Context, recipeIds []string) ([]RecipeDTO, error)
	List(ctx context.Context, filter RecipeFilter, params QueryParams) (QueryResults[RecipeDTO], error)
	Create(ctx context.Context, input RecipeInputDTO) (RecipeDTO, error)
	Update(ctx context.Context, recipeId string, input RecipeInputDTO) (RecipeDTO, error)
	Delete(ctx context.Context, recipeId string) error
	ShortCodeRepository
}

type ShortCodeRepository interface {
	FindByShortCode(ctx context.Context, code string) (RecipeDTO, error)
	Exists(ctx context.Context, code string) (bool, error)
}
