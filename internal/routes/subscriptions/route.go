package subscriptions

import (
	"context"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/exceptions"
	"foodgram.io/backend/internal/routes"
	"foodgram.io/backend/internal/routes/recipes"
	"foodgram.io/backend/internal/routes/users"
	"foodgram.io/backend/internal/routes/util"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
)

type SubscriptionService struct {
	subscriptions data.SubscriptionRepository
	users         data.UserRepository
	recipes       data.RecipeRepository
	pageSize      int
}

func NewRoute(subscriptions data.SubscriptionRepository, users data.UserRepository, recipes data.RecipeRepository, pageSize int) routes.Service {
	return &SubscriptionService{
		subscriptions: subscriptions,
		users:         users,
		recipes:       recipes,
		pageSize:      pageSize,
	}
}

func (s *SubscriptionService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/api/users/subscriptions":          util.AuthorizedRoute(s.ListSubscriptions),
		"POST:/api/users/:authorId/subscribe":   util.AuthorizedRoute(s.Subscribe),
		"DELETE:/api/users/:authorId/subscribe": util.AuthorizedRoute(s.Unsubscribe),
	}
}

// author renders a followed user with at most limit of their newest recipes.
// A negative limit keeps every recipe.
func (s *SubscriptionService) author(ctx context.Context, user data.UserDTO, limit int) (Author, error) {
	authored, err := data.ListAll(ctx, func(ctx context.Context, params data.QueryParams) (data.QueryResults[data.RecipeDTO], error) {
		return s.recipes.List(ctx, data.RecipeFilter{Author: user.SK}, params)
	})
	if err != nil {
		return Author{}, err
	}
	preview := authored
	if limit >= 0 && limit < len(preview) {
		preview = preview[:limit]
	}
	return Author{
		User:         users.NewUser(user, true),
		Recipes:      *util.MapOnList(&preview, recipes.NewShortRecipe),
		RecipesCount: len(authored),
	}, nil
}

func recipesLimit(event events.APIGatewayV2HTTPRequest) (int, error) {
	limit, ok, err := util.IntParameter(event, "recipes_limit")
	if err != nil || !ok {
		return -1, err
	}
	if limit < 0 {
		return -1, exceptions.InvalidInput("recipes_limit parameter must not be negative.")
	}
	return limit, nil
}

func (s *SubscriptionService) ListSubscriptions(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	params, err := util.QueryParams(event, s.pageSize)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	limit, err := recipesLimit(event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	followed, err := s.subscriptions.List(ctx, util.UserId(ctx), params)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	authorIds := make([]string, len(followed.Items))
	for i, subscription := range followed.Items {
		authorIds[i] = subscription.SK
	}
	found, err := s.users.BatchGet(ctx, data.GLOBAL_ACCOUNT, authorIds)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	page := util.Page[Author]{
		Items:     make([]Author, 0, len(found)),
		NextToken: string(followed.NextToken),
	}
	for _, user := range found {
		author, err := s.author(ctx, user, limit)
		if err != nil {
			return events.APIGatewayV2HTTPResponse{}, err
		}
		page.Items = append(page.Items, author)
	}
	return util.SerializeResponseOK(util.Identity[util.Page[Author]], page, nil)
}

func (s *SubscriptionService) Subscribe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	limit, err := recipesLimit(event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	target, err := s.users.Get(ctx, data.GLOBAL_ACCOUNT, util.RequestParam(ctx, "authorId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	userId := util.UserId(ctx)
	if target.SK == userId {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("You cannot subscribe to yourself.")
	}
	_, err = s.subscriptions.CreateWithItemId(ctx, userId, data.SubscriptionInputDTO{
		AccountId: aws.String(userId),
	}, target.SK)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	author, err := s.author(ctx, target, limit)
	return util.SerializeResponseCreated(util.Identity[Author], author, err)
}

func (s *SubscriptionService) Unsubscribe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	target, err := s.users.Get(ctx, data.GLOBAL_ACCOUNT, util.RequestParam(ctx, "authorId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return util.SerializeResponseNoContent(s.subscriptions.Delete(ctx, util.UserId(ctx), target.SK))
}
