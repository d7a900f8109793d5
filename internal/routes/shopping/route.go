package shopping

import (
	"context"
	"net/http"
	"time"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/exceptions"
	"foodgram.io/backend/internal/routes"
	"foodgram.io/backend/internal/routes/recipes"
	"foodgram.io/backend/internal/routes/util"
	"foodgram.io/backend/internal/shoppinglist"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog/log"
)

type ShoppingCartService struct {
	cart    data.ShoppingCartRepository
	recipes data.RecipeRepository
	now     func() time.Time
}

func NewRoute(cart data.ShoppingCartRepository, recipes data.RecipeRepository) routes.Service {
	return &ShoppingCartService{
		cart:    cart,
		recipes: recipes,
		now:     time.Now,
	}
}

func (s *ShoppingCartService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/api/recipes/download_shopping_cart":     util.AuthorizedRoute(s.Download),
		"POST:/api/recipes/:recipeId/shopping_cart":   util.AuthorizedRoute(s.AddRecipe),
		"DELETE:/api/recipes/:recipeId/shopping_cart": util.AuthorizedRoute(s.RemoveRecipe),
	}
}

func (s *ShoppingCartService) AddRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	recipe, err := s.recipes.Get(ctx, util.RequestParam(ctx, "recipeId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	userId := util.UserId(ctx)
	_, err = s.cart.CreateWithItemId(ctx, userId, data.ReferenceInputDTO{
		AccountId: aws.String(userId),
	}, recipe.SK)
	return util.SerializeResponseCreated(recipes.NewShortRecipe, recipe, err)
}

func (s *ShoppingCartService) RemoveRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	recipe, err := s.recipes.Get(ctx, util.RequestParam(ctx, "recipeId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return util.SerializeResponseNoContent(s.cart.Delete(ctx, util.UserId(ctx), recipe.SK))
}

// Download sums the ingredients of every recipe in the cart into a text
// document.
func (s *ShoppingCartService) Download(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	userId := util.UserId(ctx)
	lines, err := s.cart.Ingredients(ctx, userId)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	items := make([]shoppinglist.Item, len(lines))
	for i, line := range lines {
		items[i] = shoppinglist.Item{
			Name:            line.Name,
			MeasurementUnit: line.MeasurementUnit,
			Amount:          line.Amount,
		}
	}
	aggregated, err := shoppinglist.Aggregate(items)
	if err != nil {
		log.Error().Err(err).Str("user", userId).Msg("shopping cart holds an invalid amount")
		return events.APIGatewayV2HTTPResponse{}, &exceptions.ServiceError{
			StatusCode: http.StatusConflict,
			Cause:      err,
		}
	}
	body := shoppinglist.Format(aggregated, s.now())
	return util.SerializeAttachment(shoppinglist.Filename, shoppinglist.ContentType, body, nil)
}
