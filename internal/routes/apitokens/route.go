package apitokens

import (
	"context"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/exceptions"
	"foodgram.io/backend/internal/routes"
	"foodgram.io/backend/internal/routes/users"
	"foodgram.io/backend/internal/routes/util"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
)

const INVALID_CREDENTIALS = "Unable to log in with provided credentials."

type ApiTokenService struct {
	data  data.ApiTokenRepository
	users data.UserRepository
}

func NewRoute(data data.ApiTokenRepository, users data.UserRepository) routes.Service {
	return &ApiTokenService{
		data:  data,
		users: users,
	}
}

func (as *ApiTokenService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"POST:/api/auth/token/login":  as.Login,
		"POST:/api/auth/token/logout": util.AuthorizedRoute(as.Logout),
	}
}

// Login trades an email and password for a new token. Unknown emails and
// wrong passwords are reported the same way.
func (as *ApiTokenService) Login(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input := LoginInput{}
	if err := util.DecodeBody(event, &input); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	user, err := as.users.FindByEmail(ctx, input.Email)
	if exceptions.IsNotFound(err) {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput(INVALID_CREDENTIALS)
	}
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	if !users.CheckPassword(user, input.Password) {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput(INVALID_CREDENTIALS)
	}
	created, err := as.data.Create(ctx, data.GLOBAL_ACCOUNT, data.ApiTokenInputDTO{
		AccountId: aws.String(user.SK),
	})
	return util.SerializeResponseOK(NewApiToken, created, err)
}

func (as *ApiTokenService) Logout(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	token := util.Token(ctx)
	if token == "" {
		return events.APIGatewayV2HTTPResponse{}, exceptions.Unauthorized("Authentication credentials were not provided.")
	}
	err := as.data.Delete(ctx, data.GLOBAL_ACCOUNT, token)
	if exceptions.IsNotFound(err) {
		err = nil
	}
	return util.SerializeResponseNoContent(err)
}
