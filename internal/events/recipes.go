package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/exceptions"
	"foodgram.io/backend/internal/notifications"
	"foodgram.io/backend/internal/shortcode"
	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
)

func isRecipe(record events.DynamoDBEventRecord) bool {
	account, resource := resourceOf(record)
	return account == data.GLOBAL_ACCOUNT && resource == "Recipe"
}

// PublishRecipeHandler tells the author's followers about a new recipe.
type PublishRecipeHandler struct {
	Notifications notifications.NotificationService
	BaseURL       string
}

func (ph *PublishRecipeHandler) Filter(record events.DynamoDBEventRecord) bool {
	return record.EventName == "INSERT" && isRecipe(record)
}

func (ph *PublishRecipeHandler) Apply(ctx context.Context, record events.DynamoDBEventRecord) error {
	image := record.Change.NewImage
	name := stringAttribute(image, "name")
	message := fmt.Sprintf("A new recipe was published: %s", name)
	if code := stringAttribute(image, "shortCode"); code != "" && ph.BaseURL != "" {
		message = fmt.Sprintf("%s\n%s", message, shortcode.Link(ph.BaseURL, code))
	}
	return ph.Notifications.Publish(ctx, notifications.PublishInput{
		AuthorId: stringAttribute(image, "author"),
		Subject:  fmt.Sprintf("New recipe: %s", name),
		Message:  message,
	})
}

// DeleteRecipeReferencesHandler clears favorites and cart entries that point
// at a deleted recipe.
type DeleteRecipeReferencesHandler struct {
	IndexName string
	// References by resource name. The index holds every kind of reference,
	// so each repository only deletes the entries of its own partitions.
	References map[string]data.Repository[data.ReferenceDTO, data.ReferenceInputDTO]
}

func DefaultDeleteReferencesHandler(indexName string, favorites data.FavoriteRepository, cart data.ShoppingCartRepository) *DeleteRecipeReferencesHandler {
	return &DeleteRecipeReferencesHandler{
		IndexName: indexName,
		References: map[string]data.Repository[data.ReferenceDTO, data.ReferenceInputDTO]{
			"Favorite":     favorites,
			"ShoppingCart": cart,
		},
	}
}

func (dh *DeleteRecipeReferencesHandler) Filter(record events.DynamoDBEventRecord) bool {
	return record.EventName == "REMOVE" && isRecipe(record)
}

func (dh *DeleteRecipeReferencesHandler) Apply(ctx context.Context, record events.DynamoDBEventRecord) error {
	recipeId := stringAttribute(record.Change.Keys, "SK")
	if recipeId == "" {
		recipeId = stringAttribute(record.Change.OldImage, "SK")
	}
	removed := 0
	for name, repository := range dh.References {
		references, err := data.ListAll(ctx, func(ctx context.Context, params data.QueryParams) (data.QueryResults[data.ReferenceDTO], error) {
			return repository.ListByIndex(ctx, dh.IndexName, recipeId+":Reference", params)
		})
		if err != nil {
			return err
		}
		for _, reference := range references {
			if !strings.HasSuffix(reference.PK, ":"+name) {
				continue
			}
			err := repository.Delete(ctx, reference.AccountId, reference.SK)
			var requestError exceptions.RequestError
			if err != nil && !errors.As(err, &requestError) {
				return err
			}
			removed++
		}
	}
	log.Info().Str("recipe", recipeId).Int("references", removed).Msg("removed references to deleted recipe")
	return nil
}
