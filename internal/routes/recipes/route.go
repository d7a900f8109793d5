package recipes

import (
	"context"
	"fmt"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/exceptions"
	"foodgram.io/backend/internal/routes"
	"foodgram.io/backend/internal/routes/users"
	"foodgram.io/backend/internal/routes/util"
	"foodgram.io/backend/internal/shortcode"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog/log"
)

type Repositories struct {
	Recipes       data.RecipeRepository
	Tags          data.TagRepository
	Ingredients   data.IngredientRepository
	Users         data.UserRepository
	Favorites     data.FavoriteRepository
	ShoppingCart  data.ShoppingCartRepository
	Subscriptions data.SubscriptionRepository
}

type RecipeService struct {
	data     Repositories
	baseURL  string
	pageSize int
}

func NewRoute(repositories Repositories, baseURL string, pageSize int) routes.Service {
	return &RecipeService{
		data:     repositories,
		baseURL:  baseURL,
		pageSize: pageSize,
	}
}

func (rs *RecipeService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/api/recipes":                      rs.ListRecipes,
		"POST:/api/recipes":                     util.AuthorizedRoute(rs.CreateRecipe),
		"GET:/api/recipes/:recipeId":            rs.GetRecipe,
		"PATCH:/api/recipes/:recipeId":          util.AuthorizedRoute(rs.UpdateRecipe),
		"DELETE:/api/recipes/:recipeId":         util.AuthorizedRoute(rs.DeleteRecipe),
		"GET:/api/recipes/:recipeId/get-link":   rs.GetLink,
		"GET:/api/recipes/:recipeId/short-link": rs.GetLink,
	}
}

func referencedIds(ctx context.Context, repo data.Repository[data.ReferenceDTO, data.ReferenceInputDTO], accountId string, recipeIds []string) (map[string]bool, error) {
	found := make(map[string]bool, len(recipeIds))
	if accountId == "" || len(recipeIds) == 0 {
		return found, nil
	}
	entries, err := repo.BatchGet(ctx, accountId, recipeIds)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		found[entry.SK] = true
	}
	return found, nil
}

func (rs *RecipeService) newViewer(ctx context.Context, recipes []data.RecipeDTO) (*viewer, error) {
	recipeIds := make([]string, len(recipes))
	authorIds := make([]string, len(recipes))
	for i, recipe := range recipes {
		recipeIds[i] = recipe.SK
		authorIds[i] = recipe.Author
	}
	authors, err := rs.data.Users.BatchGet(ctx, data.GLOBAL_ACCOUNT, authorIds)
	if err != nil {
		return nil, err
	}
	v := &viewer{authors: make(map[string]data.UserDTO, len(authors))}
	for _, author := range authors {
		v.authors[author.SK] = author
	}
	userId, _ := util.OptionalUserId(ctx)
	if v.favorites, err = referencedIds(ctx, rs.data.Favorites, userId, recipeIds); err != nil {
		return nil, err
	}
	if v.cart, err = referencedIds(ctx, rs.data.ShoppingCart, userId, recipeIds); err != nil {
		return nil, err
	}
	if v.following, err = users.Following(ctx, rs.data.Subscriptions, userId, authorIds); err != nil {
		return nil, err
	}
	return v, nil
}

func (rs *RecipeService) view(ctx context.Context, recipe data.RecipeDTO) (Recipe, error) {
	v, err := rs.newViewer(ctx, []data.RecipeDTO{recipe})
	if err != nil {
		return Recipe{}, err
	}
	return v.recipe(recipe), nil
}

// referenced pages through one of the caller's reference partitions instead
// of the recipe listing.
func (rs *RecipeService) referenced(ctx context.Context, repo data.Repository[data.ReferenceDTO, data.ReferenceInputDTO], accountId string, filter data.RecipeFilter, params data.QueryParams) (data.QueryResults[data.RecipeDTO], error) {
	entries, err := repo.List(ctx, accountId, params)
	if err != nil {
		return data.QueryResults[data.RecipeDTO]{}, err
	}
	ids := make([]string, len(entries.Items))
	for i, entry := range entries.Items {
		ids[i] = entry.SK
	}
	found, err := rs.data.Recipes.BatchGet(ctx, ids)
	if err != nil {
		return data.QueryResults[data.RecipeDTO]{}, err
	}
	items := make([]data.RecipeDTO, 0, len(found))
	for _, recipe := range found {
		if filter.Matches(recipe) {
			items = append(items, recipe)
		}
	}
	return data.QueryResults[data.RecipeDTO]{
		Items:     items,
		NextToken: entries.NextToken,
	}, nil
}

func (rs *RecipeService) ListRecipes(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	params, err := util.QueryParams(event, rs.pageSize)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	filter := data.RecipeFilter{
		Author: event.QueryStringParameters["author"],
		Tags:   util.ListParameter(event, "tags"),
	}
	favorited := util.FlagParameter(event, "is_favorited")
	inCart := util.FlagParameter(event, "is_in_shopping_cart")
	userId, authenticated := util.OptionalUserId(ctx)
	var results data.QueryResults[data.RecipeDTO]
	switch {
	case authenticated && favorited:
		results, err = rs.referenced(ctx, rs.data.Favorites, userId, filter, params)
	case authenticated && inCart:
		results, err = rs.referenced(ctx, rs.data.ShoppingCart, userId, filter, params)
	default:
		results, err = rs.data.Recipes.List(ctx, filter, params)
	}
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	v, err := rs.newViewer(ctx, results.Items)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	if authenticated && favorited && inCart {
		kept := results.Items[:0]
		for _, recipe := range results.Items {
			if v.cart[recipe.SK] {
				kept = append(kept, recipe)
			}
		}
		results.Items = kept
	}
	return util.SerializeResponseOK(util.ConvertQueryResultsPartial(v.recipe), results, nil)
}

func (rs *RecipeService) GetRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	recipe, err := rs.data.Recipes.Get(ctx, util.RequestParam(ctx, "recipeId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	view, err := rs.view(ctx, recipe)
	return util.SerializeResponseOK(util.Identity[Recipe], view, err)
}

// resolve replaces tag and ingredient ids with the catalog entries they name.
func (rs *RecipeService) resolve(ctx context.Context, input RecipeInput) (data.RecipeInputDTO, error) {
	tags, err := rs.data.Tags.BatchGet(ctx, data.GLOBAL_ACCOUNT, input.Tags)
	if err != nil {
		return data.RecipeInputDTO{}, err
	}
	if len(tags) != len(input.Tags) {
		return data.RecipeInputDTO{}, exceptions.InvalidInput(fmt.Sprintf("tags must exist, found %d of %d", len(tags), len(input.Tags)))
	}
	ingredientIds := make([]string, len(input.Ingredients))
	for i, line := range input.Ingredients {
		ingredientIds[i] = line.Id
	}
	found, err := rs.data.Ingredients.BatchGet(ctx, data.GLOBAL_ACCOUNT, ingredientIds)
	if err != nil {
		return data.RecipeInputDTO{}, err
	}
	if len(found) != len(ingredientIds) {
		return data.RecipeInputDTO{}, exceptions.InvalidInput(fmt.Sprintf("ingredients must exist, found %d of %d", len(found), len(ingredientIds)))
	}
	recipeTags := make([]data.RecipeTagDTO, len(tags))
	for i, tag := range tags {
		recipeTags[i] = data.RecipeTagDTO{Id: tag.SK, Name: tag.Name, Slug: tag.Slug}
	}
	lines := make([]data.RecipeIngredientDTO, len(found))
	for i, ingredient := range found {
		lines[i] = data.RecipeIngredientDTO{
			Id:              ingredient.SK,
			Name:            ingredient.Name,
			MeasurementUnit: ingredient.MeasurementUnit,
			Amount:          input.Ingredients[i].Amount,
		}
	}
	return data.RecipeInputDTO{
		Name:        aws.String(input.Name),
		Text:        aws.String(input.Text),
		Image:       aws.String(input.Image),
		CookingTime: aws.Int(input.CookingTime),
		Tags:        &recipeTags,
		Ingredients: &lines,
	}, nil
}

func (rs *RecipeService) CreateRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input := RecipeInput{}
	if err := util.DecodeBody(event, &input); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	recipe, err := rs.resolve(ctx, input)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	recipe.Author = aws.String(util.UserId(ctx))
	created, err := rs.data.Recipes.Create(ctx, recipe)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	log.Info().Str("recipe", created.SK).Str("code", created.ShortCode).Msg("recipe created")
	view, err := rs.view(ctx, created)
	return util.SerializeResponseCreated(util.Identity[Recipe], view, err)
}

// authorize lets the author or a superuser change a recipe.
func (rs *RecipeService) authorize(ctx context.Context) (data.RecipeDTO, error) {
	recipe, err := rs.data.Recipes.Get(ctx, util.RequestParam(ctx, "recipeId"))
	if err != nil {
		return recipe, err
	}
	userId := util.UserId(ctx)
	if recipe.Author == userId {
		return recipe, nil
	}
	caller, err := rs.data.Users.Get(ctx, data.GLOBAL_ACCOUNT, userId)
	if err != nil && !exceptions.IsNotFound(err) {
		return recipe, err
	}
	if caller.IsSuperuser {
		return recipe, nil
	}
	return recipe, exceptions.Forbidden("You do not have permission to perform this action.")
}

func (rs *RecipeService) UpdateRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	recipe, err := rs.authorize(ctx)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	input := RecipeInput{}
	if err := util.DecodeBody(event, &input); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	update, err := rs.resolve(ctx, input)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	updated, err := rs.data.Recipes.Update(ctx, recipe.SK, update)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	view, err := rs.view(ctx, updated)
	return util.SerializeResponseOK(util.Identity[Recipe], view, err)
}

func (rs *RecipeService) DeleteRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	recipe, err := rs.authorize(ctx)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return util.SerializeResponseNoContent(rs.data.Recipes.Delete(ctx, recipe.SK))
}

func (rs *RecipeService) GetLink(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	recipe, err := rs.data.Recipes.Get(ctx, util.RequestParam(ctx, "recipeId"))
	return util.SerializeResponseOK(func(recipe data.RecipeDTO) ShortLink {
		return ShortLink{ShortLink: shortcode.Link(util.BaseURL(event, rs.baseURL), recipe.ShortCode)}
	}, recipe, err)
}
