package favorites

import (
	"context"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/routes"
	"foodgram.io/backend/internal/routes/recipes"
	"foodgram.io/backend/internal/routes/util"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
)

type FavoriteService struct {
	favorites data.FavoriteRepository
	recipes   data.RecipeRepository
}

func NewRoute(favorites data.FavoriteRepository, recipes data.RecipeRepository) routes.Service {
	return &FavoriteService{
		favorites: favorites,
		recipes:   recipes,
	}
}

func (f *FavoriteService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"POST:/api/recipes/:recipeId/favorite":   util.AuthorizedRoute(f.AddFavorite),
		"DELETE:/api/recipes/:recipeId/favorite": util.AuthorizedRoute(f.RemoveFavorite),
	}
}

func (f *FavoriteService) AddFavorite(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	recipe, err := f.recipes.Get(ctx, util.RequestParam(ctx, "recipeId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	userId := util.UserId(ctx)
	_, err = f.favorites.CreateWithItemId(ctx, userId, data.ReferenceInputDTO{
		AccountId: aws.String(userId),
	}, recipe.SK)
	return util.SerializeResponseCreated(recipes.NewShortRecipe, recipe, err)
}

func (f *FavoriteService) RemoveFavorite(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	recipe, err := f.recipes.Get(ctx, util.RequestParam(ctx, "recipeId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return util.SerializeResponseNoContent(f.favorites.Delete(ctx, util.UserId(ctx), recipe.SK))
}
