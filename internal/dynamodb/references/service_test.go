package references_test

import (
	"context"
	"testing"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/dynamodb/references"
	"foodgram.io/backend/internal/dynamodb/token"
	"foodgram.io/backend/internal/exceptions"
	"foodgram.io/backend/internal/test"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoritesLocal(t *testing.T) {
	client, tableName := test.NewLocalTable(test.LOCAL_DDB_PORT, t)
	ctx := context.Background()
	favorites := references.NewFavoriteService(tableName, client, token.NewGCM("local"))
	recipeIds := []string{"recipe-1", "recipe-2", "recipe-3"}

	t.Run("Create", func(t *testing.T) {
		for _, recipeId := range recipeIds {
			created, err := favorites.CreateWithItemId(ctx, "user-1", data.ReferenceInputDTO{
				AccountId: aws.String("user-1"),
			}, recipeId)
			require.NoError(t, err)
			assert.Equal(t, "user-1:Favorite", created.PK)
			assert.Equal(t, references.IndexKey(recipeId), created.FirstIndex)
		}
		_, err := favorites.CreateWithItemId(ctx, "user-1", data.ReferenceInputDTO{
			AccountId: aws.String("user-1"),
		}, "recipe-1")
		assert.Equal(t, "Recipe is already in favorites.", err.Error())
	})

	t.Run("ListPages", func(t *testing.T) {
		first, err := favorites.List(ctx, "user-1", data.QueryParams{Limit: 2})
		require.NoError(t, err)
		require.Len(t, first.Items, 2)
		assert.Equal(t, "recipe-3", first.Items[0].SK)
		require.NotEmpty(t, first.NextToken)

		second, err := favorites.List(ctx, "user-1", data.QueryParams{Limit: 2, NextToken: first.NextToken})
		require.NoError(t, err)
		require.Len(t, second.Items, 1)
		assert.Equal(t, "recipe-1", second.Items[0].SK)

		_, err = favorites.List(ctx, "user-2", data.QueryParams{Limit: 2, NextToken: first.NextToken})
		assert.Error(t, err)
	})

	t.Run("BatchGet", func(t *testing.T) {
		found, err := favorites.BatchGet(ctx, "user-1", []string{"recipe-2", "recipe-9", "recipe-1"})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "recipe-2", found[0].SK)
		assert.Equal(t, "recipe-1", found[1].SK)
	})

	t.Run("ListByIndex", func(t *testing.T) {
		referencing, err := favorites.ListByIndex(ctx, test.INDEX_NAME, references.IndexKey("recipe-2"), data.QueryParams{})
		require.NoError(t, err)
		require.Len(t, referencing.Items, 1)
		assert.Equal(t, "user-1", referencing.Items[0].AccountId)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, favorites.Delete(ctx, "user-1", "recipe-2"))
		err := favorites.Delete(ctx, "user-1", "recipe-2")
		assert.Equal(t, 400, exceptions.StatusCode(err))
	})
}
