package data

import (
	"context"
	"time"
)

type TagDTO struct {
	PK         string    `dynamodbav:"PK"`
	SK         string    `dynamodbav:"SK"`
	Name       string    `dynamodbav:"name"`
	Slug       string    `dynamodbav:"slug"`
	CreateTime time.Time `dynamodbav:"createTime"`
	UpdateTime time.Time `dynamodbav:"updateTime"`
}

type TagInputDTO struct {
	Name *string `dynamodbav:"name"`
	Slug *string `dynamodbav:"slug"`
}

type TagRepository interface {
	Repository[TagDTO, TagInputDTO]
}

type IngredientDTO struct {
	PK              string    `dynamodbav:"PK"`
	SK              string    `dynamodbav:"SK"`
	Name            string    `dynamodbav:"name"`
	MeasurementUnit string    `dynamodbav:"measurementUnit"`
	SearchName      string    `dynamodbav:"searchName"`
	CreateTime      time.Time `dynamodbav:"createTime"`
	UpdateTime      time.Time `dynamodbav:"updateTime"`
}

type IngredientInputDTO struct {
	Name            *string `dynamodbav:"name"`
	MeasurementUnit *string `dynamodbav:"measurementUnit"`
}

type IngredientRepository interface {
	Repository[IngredientDTO, IngredientInputDTO]
	Search(ctx context.Context, prefix string, params QueryParams) (QueryResults[IngredientDTO], error)
}
