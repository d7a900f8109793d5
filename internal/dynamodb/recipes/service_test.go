package recipes_test

import (
	"context"
	"errors"
	"testing"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/dynamodb/recipes"
	"foodgram.io/backend/internal/dynamodb/token"
	"foodgram.io/backend/internal/exceptions"
	"foodgram.io/backend/internal/shortcode"
	"foodgram.io/backend/internal/test"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/maps"
)

func recipeInput() data.RecipeInputDTO {
	return data.RecipeInputDTO{
		Author:      aws.String("author-1"),
		Name:        aws.String("Borscht"),
		Text:        aws.String("Boil the beets."),
		Image:       aws.String("recipes/images/borscht.png"),
		CookingTime: aws.Int(90),
		Tags: &[]data.RecipeTagDTO{
			{Id: "tag-1", Name: "Lunch", Slug: "lunch"},
		},
		Ingredients: &[]data.RecipeIngredientDTO{
			{Id: "ing-1", Name: "beet", MeasurementUnit: "g", Amount: 300},
		},
	}
}

func claimCollision() error {
	return &types.TransactionCanceledException{
		Message: aws.String("Transaction cancelled"),
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("None")},
			{Code: aws.String("ConditionalCheckFailed")},
		},
	}
}

func newService(stub *test.StubDynamoDB) *recipes.RecipeDynamoDBService {
	return recipes.NewRecipeService(test.TABLE_NAME, test.INDEX_NAME, stub, token.NewGCM("test"))
}

func claimOf(t *testing.T, input *dynamodb.TransactWriteItemsInput) recipes.ShortCodeDTO {
	t.Helper()
	require.Len(t, input.TransactItems, 2)
	var claim recipes.ShortCodeDTO
	require.NoError(t, attributevalue.UnmarshalMap(input.TransactItems[1].Put.Item, &claim))
	return claim
}

func TestCreateRecipe(t *testing.T) {
	t.Run("ClaimsShortCode", func(t *testing.T) {
		stub := &test.StubDynamoDB{}
		var claims []recipes.ShortCodeDTO
		stub.OnTransactWriteItems = func(input *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
			claims = append(claims, claimOf(t, input))
			return &dynamodb.TransactWriteItemsOutput{}, nil
		}
		recipe, err := newService(stub).Create(context.Background(), recipeInput())
		require.NoError(t, err)
		require.Len(t, claims, 1)
		assert.Len(t, recipe.ShortCode, shortcode.DefaultLength)
		assert.True(t, shortcode.Valid(recipe.ShortCode))
		assert.Equal(t, recipe.ShortCode, claims[0].SK)
		assert.Equal(t, "Global:ShortCode", claims[0].PK)
		assert.Equal(t, recipe.SK, claims[0].RecipeId)
		assert.Equal(t, "Global:Recipe", recipe.PK)
		assert.Equal(t, "author-1:Recipe", recipe.FirstIndex)
		assert.Equal(t, []string{"lunch"}, recipe.TagSlugs)
	})

	t.Run("RetriesOnCollision", func(t *testing.T) {
		stub := &test.StubDynamoDB{}
		var claims []recipes.ShortCodeDTO
		stub.OnTransactWriteItems = func(input *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
			claims = append(claims, claimOf(t, input))
			if len(claims) == 1 {
				return nil, claimCollision()
			}
			return &dynamodb.TransactWriteItemsOutput{}, nil
		}
		service := newService(stub)
		codes := []string{"abc", "def"}
		service.Generator.Source = func(length int) (string, error) {
			code := codes[0]
			codes = codes[1:]
			return code, nil
		}
		recipe, err := service.Create(context.Background(), recipeInput())
		require.NoError(t, err)
		assert.Equal(t, "def", recipe.ShortCode)
		assert.Equal(t, 2, stub.Count("TransactWriteItems"))
		assert.Equal(t, "abc", claims[0].SK)
		assert.Equal(t, "def", claims[1].SK)
	})

	t.Run("GivesUpAfterMaxAttempts", func(t *testing.T) {
		stub := &test.StubDynamoDB{
			OnTransactWriteItems: func(input *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
				return nil, claimCollision()
			},
		}
		_, err := newService(stub).Create(context.Background(), recipeInput())
		require.Error(t, err)
		assert.True(t, exceptions.IsConflict(err))
		assert.Equal(t, recipes.MAX_CLAIM_ATTEMPTS, stub.Count("TransactWriteItems"))
	})

	t.Run("SkipsCodesThatExist", func(t *testing.T) {
		stub := &test.StubDynamoDB{
			OnGetItem: func(input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
				var code string
				require.NoError(t, attributevalue.Unmarshal(input.Key["SK"], &code))
				if code == "aaa" {
					return &dynamodb.GetItemOutput{Item: input.Key}, nil
				}
				return &dynamodb.GetItemOutput{}, nil
			},
		}
		service := newService(stub)
		codes := []string{"aaa", "bbb"}
		service.Generator.Source = func(length int) (string, error) {
			code := codes[0]
			codes = codes[1:]
			return code, nil
		}
		recipe, err := service.Create(context.Background(), recipeInput())
		require.NoError(t, err)
		assert.Equal(t, "bbb", recipe.ShortCode)
		assert.Equal(t, 1, stub.Count("TransactWriteItems"))
	})

	t.Run("PassesThroughStoreFailures", func(t *testing.T) {
		failure := errors.New("throttled")
		stub := &test.StubDynamoDB{
			OnTransactWriteItems: func(input *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
				return nil, failure
			},
		}
		_, err := newService(stub).Create(context.Background(), recipeInput())
		assert.ErrorIs(t, err, failure)
		assert.Equal(t, 1, stub.Count("TransactWriteItems"))
	})
}

func TestFindByShortCode(t *testing.T) {
	recipe := data.RecipeDTO{
		PK:        "Global:Recipe",
		SK:        "recipe-1",
		Name:      "Borscht",
		ShortCode: "7f3",
	}
	recipeItem, err := attributevalue.MarshalMap(recipe)
	require.NoError(t, err)
	claimItem, err := attributevalue.MarshalMap(recipes.ShortCodeDTO{
		PK:       "Global:ShortCode",
		SK:       "7f3",
		RecipeId: "recipe-1",
	})
	require.NoError(t, err)
	stub := &test.StubDynamoDB{
		OnGetItem: func(input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			var pk, sk string
			require.NoError(t, attributevalue.Unmarshal(input.Key["PK"], &pk))
			require.NoError(t, attributevalue.Unmarshal(input.Key["SK"], &sk))
			switch {
			case pk == "Global:ShortCode" && sk == "7f3":
				return &dynamodb.GetItemOutput{Item: claimItem}, nil
			case pk == "Global:Recipe" && sk == "recipe-1":
				return &dynamodb.GetItemOutput{Item: recipeItem}, nil
			}
			return &dynamodb.GetItemOutput{}, nil
		},
	}
	service := newService(stub)

	t.Run("Found", func(t *testing.T) {
		found, err := service.FindByShortCode(context.Background(), "7f3")
		require.NoError(t, err)
		assert.Equal(t, "recipe-1", found.SK)
		assert.Equal(t, "Borscht", found.Name)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := service.FindByShortCode(context.Background(), "000")
		assert.True(t, exceptions.IsNotFound(err))
	})

	t.Run("Exists", func(t *testing.T) {
		exists, err := service.Exists(context.Background(), "7f3")
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = service.Exists(context.Background(), "000")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestUpdateRecipe(t *testing.T) {
	stub := &test.StubDynamoDB{}
	var captured *dynamodb.UpdateItemInput
	stub.OnUpdateItem = func(input *dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
		captured = input
		return &dynamodb.UpdateItemOutput{}, nil
	}
	input := recipeInput()
	_, err := newService(stub).Update(context.Background(), "recipe-1", input)
	require.NoError(t, err)
	require.NotNil(t, captured)
	names := maps.Values(captured.ExpressionAttributeNames)
	assert.Contains(t, names, "tagSlugs")
	assert.Contains(t, names, "ingredients")
	assert.NotContains(t, names, "shortCode")
	assert.NotContains(t, names, "author")
}

func TestListRecipes(t *testing.T) {
	t.Run("NewestFirstWithTags", func(t *testing.T) {
		stub := &test.StubDynamoDB{}
		var captured *dynamodb.QueryInput
		stub.OnQuery = func(input *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			captured = input
			return &dynamodb.QueryOutput{}, nil
		}
		results, err := newService(stub).List(context.Background(), data.RecipeFilter{
			Tags: []string{"lunch", "dinner"},
		}, data.QueryParams{Limit: 6})
		require.NoError(t, err)
		assert.Empty(t, results.Items)
		assert.Nil(t, results.NextToken)
		require.NotNil(t, captured)
		assert.False(t, aws.ToBool(captured.ScanIndexForward))
		assert.Nil(t, captured.IndexName)
		assert.NotNil(t, captured.FilterExpression)
		assert.Equal(t, int32(6), aws.ToInt32(captured.Limit))
	})

	t.Run("ByAuthor", func(t *testing.T) {
		stub := &test.StubDynamoDB{}
		var captured *dynamodb.QueryInput
		stub.OnQuery = func(input *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			captured = input
			return &dynamodb.QueryOutput{}, nil
		}
		_, err := newService(stub).List(context.Background(), data.RecipeFilter{Author: "author-1"}, data.QueryParams{})
		require.NoError(t, err)
		require.NotNil(t, captured)
		assert.Equal(t, test.INDEX_NAME, aws.ToString(captured.IndexName))
		assert.Nil(t, captured.FilterExpression)
		assert.Contains(t, maps.Values(captured.ExpressionAttributeNames), "GS1-PK")
	})
}

func TestDeleteRecipe(t *testing.T) {
	recipeItem, err := attributevalue.MarshalMap(data.RecipeDTO{
		PK:        "Global:Recipe",
		SK:        "recipe-1",
		ShortCode: "7f3",
	})
	require.NoError(t, err)
	stub := &test.StubDynamoDB{
		OnGetItem: func(input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: recipeItem}, nil
		},
	}
	var captured *dynamodb.TransactWriteItemsInput
	stub.OnTransactWriteItems = func(input *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
		captured = input
		return &dynamodb.TransactWriteItemsOutput{}, nil
	}
	require.NoError(t, newService(stub).Delete(context.Background(), "recipe-1"))
	require.NotNil(t, captured)
	require.Len(t, captured.TransactItems, 2)
	var claimCode string
	require.NoError(t, attributevalue.Unmarshal(captured.TransactItems[1].Delete.Key["SK"], &claimCode))
	assert.Equal(t, "7f3", claimCode)
}
