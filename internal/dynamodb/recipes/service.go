package recipes

import (
	"context"
	"time"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/dynamodb/services"
	"foodgram.io/backend/internal/dynamodb/token"
	"foodgram.io/backend/internal/exceptions"
	"foodgram.io/backend/internal/shortcode"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

const (
	RESOURCE   = "Recipe"
	SHORT_CODE = "ShortCode"
	// Write attempts before a short code collision is reported to the caller.
	MAX_CLAIM_ATTEMPTS = 3
)

// ShortCodeDTO claims a code for exactly one recipe.
type ShortCodeDTO struct {
	PK         string    `dynamodbav:"PK"`
	SK         string    `dynamodbav:"SK"`
	RecipeId   string    `dynamodbav:"recipeId"`
	CreateTime time.Time `dynamodbav:"createTime"`
}

type RecipeDynamoDBService struct {
	DynamoDB  services.DynamoDBClient
	TableName string
	IndexName string
	Generator *shortcode.Generator
	Recipes   *services.RepositoryDynamoDBService[data.RecipeDTO, data.RecipeInputDTO]
}

func AuthorIndexKey(authorId string) string {
	return services.PrimaryKey(authorId, RESOURCE)
}

// slugSet marshals as a string set so contains() matches whole slugs.
type slugSet []string

func (s slugSet) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberSS{Value: s}, nil
}

func tagSlugs(tags []data.RecipeTagDTO) []string {
	slugs := make([]string, len(tags))
	for i, tag := range tags {
		slugs[i] = tag.Slug
	}
	return slugs
}

func NewRecipeService(tableName string, indexName string, client services.DynamoDBClient, marshaler token.TokenMarshaler) *RecipeDynamoDBService {
	return &RecipeDynamoDBService{
		DynamoDB:  client,
		TableName: tableName,
		IndexName: indexName,
		Generator: shortcode.NewGenerator(),
		Recipes: &services.RepositoryDynamoDBService[data.RecipeDTO, data.RecipeInputDTO]{
			DynamoDB:       client,
			TableName:      tableName,
			TokenMarshaler: marshaler,
			Name:           RESOURCE,
			Descending:     true,
			Shim: func(pk, sk string) data.RecipeDTO {
				return data.RecipeDTO{PK: pk, SK: sk}
			},
			OnCreate: func(input data.RecipeInputDTO, now time.Time, pk, sk string) data.RecipeDTO {
				return data.RecipeDTO{
					PK:          pk,
					SK:          sk,
					FirstIndex:  AuthorIndexKey(*input.Author),
					Author:      *input.Author,
					Name:        *input.Name,
					Text:        *input.Text,
					Image:       *input.Image,
					CookingTime: *input.CookingTime,
					Tags:        *input.Tags,
					TagSlugs:    tagSlugs(*input.Tags),
					Ingredients: *input.Ingredients,
					CreateTime:  now,
					UpdateTime:  now,
				}
			},
			OnUpdate: func(input data.RecipeInputDTO, update expression.UpdateBuilder) expression.UpdateBuilder {
				if input.Name != nil {
					update = update.Set(expression.Name("name"), expression.Value(input.Name))
				}
				if input.Text != nil {
					update = update.Set(expression.Name("text"), expression.Value(input.Text))
				}
				if input.Image != nil {
					update = update.Set(expression.Name("image"), expression.Value(input.Image))
				}
				if input.CookingTime != nil {
					update = update.Set(expression.Name("cookingTime"), expression.Value(input.CookingTime))
				}
				if input.Tags != nil {
					update = update.Set(expression.Name("tags"), expression.Value(input.Tags))
					if slugs := tagSlugs(*input.Tags); len(slugs) > 0 {
						update = update.Set(expression.Name("tagSlugs"), expression.Value(slugSet(slugs)))
					} else {
						update = update.Remove(expression.Name("tagSlugs"))
					}
				}
				if input.Ingredients != nil {
					update = update.Set(expression.Name("ingredients"), expression.Value(input.Ingredients))
				}
				return update
			},
		},
	}
}

func (rs *RecipeDynamoDBService) Get(ctx context.Context, recipeId string) (data.RecipeDTO, error) {
	return rs.Recipes.Get(ctx, data.GLOBAL_ACCOUNT, recipeId)
}

func (rs *RecipeDynamoDBService) BatchGet(ctx context.Context, recipeIds []string) ([]data.RecipeDTO, error) {
	return rs.Recipes.BatchGet(ctx, data.GLOBAL_ACCOUNT, recipeIds)
}

// List returns recipes newest first. Authored listings read the author's
// index partition; tag slugs match when the recipe carries any of them.
func (rs *RecipeDynamoDBService) List(ctx context.Context, filter data.RecipeFilter, params data.QueryParams) (data.QueryResults[data.RecipeDTO], error) {
	query := services.Query{
		KeyName:    "PK",
		KeyValue:   services.PrimaryKey(data.GLOBAL_ACCOUNT, RESOURCE),
		Descending: true,
	}
	if filter.Author != "" {
		query.IndexName = rs.IndexName
		query.KeyName = services.INDEX_KEY
		query.KeyValue = AuthorIndexKey(filter.Author)
	}
	if len(filter.Tags) > 0 {
		condition := expression.Contains(expression.Name("tagSlugs"), filter.Tags[0])
		for _, slug := range filter.Tags[1:] {
			condition = condition.Or(expression.Contains(expression.Name("tagSlugs"), slug))
		}
		query.Filter = &condition
	}
	return rs.Recipes.Query(ctx, query, params)
}

func (rs *RecipeDynamoDBService) claimKey(code string) (map[string]types.AttributeValue, error) {
	return services.Key(services.PrimaryKey(data.GLOBAL_ACCOUNT, SHORT_CODE), code)
}

func (rs *RecipeDynamoDBService) Exists(ctx context.Context, code string) (bool, error) {
	key, err := rs.claimKey(code)
	if err != nil {
		return false, err
	}
	output, err := rs.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(rs.TableName),
		Key:                  key,
		ProjectionExpression: aws.String("SK"),
	})
	if err != nil {
		return false, err
	}
	return output.Item != nil, nil
}

func (rs *RecipeDynamoDBService) FindByShortCode(ctx context.Context, code string) (data.RecipeDTO, error) {
	key, err := rs.claimKey(code)
	if err != nil {
		return data.RecipeDTO{}, err
	}
	output, err := rs.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(rs.TableName),
		Key:       key,
	})
	if err != nil {
		return data.RecipeDTO{}, err
	}
	if output.Item == nil {
		return data.RecipeDTO{}, exceptions.NotFound("short link", code)
	}
	var claim ShortCodeDTO
	if err := attributevalue.UnmarshalMap(output.Item, &claim); err != nil {
		return data.RecipeDTO{}, err
	}
	recipe, err := rs.Get(ctx, claim.RecipeId)
	if exceptions.IsNotFound(err) {
		return recipe, exceptions.NotFound("short link", code)
	}
	return recipe, err
}

// Create writes the recipe together with the claim on a fresh short code.
// A code taken between the check and the write is redrawn.
func (rs *RecipeDynamoDBService) Create(ctx context.Context, input data.RecipeInputDTO) (data.RecipeDTO, error) {
	var code string
	for attempt := 1; attempt <= MAX_CLAIM_ATTEMPTS; attempt++ {
		var err error
		code, err = rs.Generator.Candidate(ctx, rs)
		if err != nil {
			return data.RecipeDTO{}, err
		}
		recipeId, err := services.NewId()
		if err != nil {
			return data.RecipeDTO{}, err
		}
		now := time.Now()
		recipe := rs.Recipes.OnCreate(input, now, services.PrimaryKey(data.GLOBAL_ACCOUNT, RESOURCE), recipeId)
		recipe.ShortCode = code
		recipePut, err := services.PutNew(rs.TableName, recipe)
		if err != nil {
			return recipe, err
		}
		claimPut, err := services.PutNew(rs.TableName, ShortCodeDTO{
			PK:         services.PrimaryKey(data.GLOBAL_ACCOUNT, SHORT_CODE),
			SK:         code,
			RecipeId:   recipeId,
			CreateTime: now,
		})
		if err != nil {
			return recipe, err
		}
		_, err = rs.DynamoDB.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: []types.TransactWriteItem{recipePut, claimPut},
		})
		if err == nil {
			return recipe, nil
		}
		if services.CanceledAt(err, 0) {
			return recipe, exceptions.Conflict("recipe", recipeId)
		}
		if !services.CanceledAt(err, 1) {
			return recipe, err
		}
		log.Debug().Str("code", code).Int("attempt", attempt).Msg("short code claimed concurrently, drawing another")
	}
	return data.RecipeDTO{}, exceptions.Conflict("short code", code)
}

func (rs *RecipeDynamoDBService) Update(ctx context.Context, recipeId string, input data.RecipeInputDTO) (data.RecipeDTO, error) {
	return rs.Recipes.Update(ctx, data.GLOBAL_ACCOUNT, recipeId, input)
}

// Delete removes the recipe and releases its short code in one transaction.
func (rs *RecipeDynamoDBService) Delete(ctx context.Context, recipeId string) error {
	recipe, err := rs.Get(ctx, recipeId)
	if err != nil {
		return err
	}
	recipeDelete, err := services.DeleteKey(rs.TableName, recipe.PK, recipe.SK)
	if err != nil {
		return err
	}
	items := []types.TransactWriteItem{recipeDelete}
	if recipe.ShortCode != "" {
		claimDelete, err := services.DeleteKey(rs.TableName, services.PrimaryKey(data.GLOBAL_ACCOUNT, SHORT_CODE), recipe.ShortCode)
		if err != nil {
			return err
		}
		items = append(items, claimDelete)
	}
	_, err = rs.DynamoDB.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	return err
}
