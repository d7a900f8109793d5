package ingredients

import (
	"context"
	"strings"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/routes"
	"foodgram.io/backend/internal/routes/util"
	"github.com/aws/aws-lambda-go/events"
	"golang.org/x/exp/slices"
)

type Ingredient struct {
	Id              string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func NewIngredient(ingredient data.IngredientDTO) Ingredient {
	return Ingredient{
		Id:              ingredient.SK,
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}

type IngredientService struct {
	data data.IngredientRepository
}

func NewRoute(data data.IngredientRepository) routes.Service {
	return &IngredientService{
		data: data,
	}
}

func (is *IngredientService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/api/ingredients":               is.ListIngredients,
		"GET:/api/ingredients/:ingredientId": is.GetIngredient,
	}
}

// ListIngredients matches the name parameter as a case insensitive prefix and
// orders the matches by name.
func (is *IngredientService) ListIngredients(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	prefix := event.QueryStringParameters["name"]
	items, err := data.ListAll(ctx, func(ctx context.Context, params data.QueryParams) (data.QueryResults[data.IngredientDTO], error) {
		return is.data.Search(ctx, prefix, params)
	})
	slices.SortStableFunc(items, func(a, b data.IngredientDTO) int {
		return strings.Compare(a.SearchName, b.SearchName)
	})
	return util.SerializeResponseOK(func(items []data.IngredientDTO) []Ingredient {
		return *util.MapOnList(&items, NewIngredient)
	}, items, err)
}

func (is *IngredientService) GetIngredient(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	item, err := is.data.Get(ctx, data.GLOBAL_ACCOUNT, util.RequestParam(ctx, "ingredientId"))
	return util.SerializeResponseOK(NewIngredient, item, err)
}
