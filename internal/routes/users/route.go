package users

import (
	"context"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/exceptions"
	"foodgram.io/backend/internal/routes"
	"foodgram.io/backend/internal/routes/util"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog/log"
)

type UserService struct {
	users         data.UserRepository
	subscriptions data.SubscriptionRepository
	pageSize      int
}

func NewRoute(users data.UserRepository, subscriptions data.SubscriptionRepository, pageSize int) routes.Service {
	return &UserService{
		users:         users,
		subscriptions: subscriptions,
		pageSize:      pageSize,
	}
}

func (us *UserService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/api/users":               us.ListUsers,
		"POST:/api/users":              us.CreateUser,
		"GET:/api/users/me":            util.AuthorizedRoute(us.Me),
		"POST:/api/users/set_password": util.AuthorizedRoute(us.SetPassword),
		"PUT:/api/users/me/avatar":     util.AuthorizedRoute(us.UpdateAvatar),
		"DELETE:/api/users/me/avatar":  util.AuthorizedRoute(us.DeleteAvatar),
		"GET:/api/users/:userId":       us.GetUser,
	}
}

func (us *UserService) ListUsers(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	params, err := util.QueryParams(event, us.pageSize)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	results, err := us.users.List(ctx, data.GLOBAL_ACCOUNT, params)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	ids := make([]string, len(results.Items))
	for i, user := range results.Items {
		ids[i] = user.SK
	}
	userId, _ := util.OptionalUserId(ctx)
	following, err := Following(ctx, us.subscriptions, userId, ids)
	return util.SerializeResponseOK(util.ConvertQueryResultsPartial(func(user data.UserDTO) User {
		return NewUser(user, following[user.SK])
	}), results, err)
}

func (us *UserService) GetUser(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	user, err := us.users.Get(ctx, data.GLOBAL_ACCOUNT, util.RequestParam(ctx, "userId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	userId, _ := util.OptionalUserId(ctx)
	following, err := Following(ctx, us.subscriptions, userId, []string{user.SK})
	return util.SerializeResponseOK(func(user data.UserDTO) User {
		return NewUser(user, following[user.SK])
	}, user, err)
}

func (us *UserService) Me(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	user, err := us.users.Get(ctx, data.GLOBAL_ACCOUNT, util.UserId(ctx))
	return util.SerializeResponseOK(func(user data.UserDTO) User {
		return NewUser(user, false)
	}, user, err)
}

func (us *UserService) CreateUser(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input := UserInput{}
	if err := util.DecodeBody(event, &input); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	hash, err := HashPassword(input.Password)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	created, err := us.users.Register(ctx, data.UserInputDTO{
		Email:        aws.String(input.Email),
		Username:     aws.String(input.Username),
		FirstName:    aws.String(input.FirstName),
		LastName:     aws.String(input.LastName),
		PasswordHash: aws.String(hash),
	})
	if err == nil {
		log.Info().Str("user", created.SK).Msg("user registered")
	}
	return util.SerializeResponseCreated(NewCreatedUser, created, err)
}

func (us *UserService) SetPassword(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input := PasswordInput{}
	if err := util.DecodeBody(event, &input); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	user, err := us.users.Get(ctx, data.GLOBAL_ACCOUNT, util.UserId(ctx))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	if !CheckPassword(user, input.CurrentPassword) {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("current_password is incorrect")
	}
	if input.NewPassword == input.CurrentPassword {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("new_password must differ from current_password")
	}
	hash, err := HashPassword(input.NewPassword)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	_, err = us.users.Update(ctx, data.GLOBAL_ACCOUNT, user.SK, data.UserInputDTO{
		PasswordHash: aws.String(hash),
	})
	return util.SerializeResponseNoContent(err)
}

func (us *UserService) UpdateAvatar(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input := AvatarInput{}
	if err := util.DecodeBody(event, &input); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	updated, err := us.users.Update(ctx, data.GLOBAL_ACCOUNT, util.UserId(ctx), data.UserInputDTO{
		Avatar: aws.String(input.Avatar),
	})
	return util.SerializeResponseOK(NewAvatar, updated, err)
}

func (us *UserService) DeleteAvatar(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	_, err := us.users.Update(ctx, data.GLOBAL_ACCOUNT, util.UserId(ctx), data.UserInputDTO{
		Avatar: aws.String(""),
	})
	return util.SerializeResponseNoContent(err)
}
