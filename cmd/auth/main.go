package main

import (
	"context"
	"strings"

	"foodgram.io/backend/internal/config"
	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/dynamodb/apitokens"
	"foodgram.io/backend/internal/dynamodb/token"
	"foodgram.io/backend/internal/logging"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog/log"
)

const tokenScheme = "Token"

type Authorizer struct {
	ApiTokens data.ApiTokenRepository
}

// HandleRequest never denies: anonymous callers reach the API without an
// identity and protected routes answer 401 themselves.
func (a *Authorizer) HandleRequest(ctx context.Context, event events.APIGatewayV2CustomAuthorizerV2Request) (events.APIGatewayV2CustomAuthorizerSimpleResponse, error) {
	response := events.APIGatewayV2CustomAuthorizerSimpleResponse{
		IsAuthorized: true,
	}
	header, ok := event.Headers["authorization"]
	if !ok {
		return response, nil
	}
	scheme, key, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || scheme != tokenScheme || key == "" {
		log.Debug().Str("routeArn", event.RouteArn).Msg("unsupported authorization header")
		return response, nil
	}
	apiToken, err := a.ApiTokens.Get(ctx, data.GLOBAL_ACCOUNT, key)
	if err != nil {
		log.Debug().Err(err).Msg("token rejected")
		return response, nil
	}
	response.Context = map[string]interface{}{
		"userId": apiToken.AccountId,
		"token":  apiToken.SK,
	}
	return response, nil
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AWS config")
	}
	client := dynamodb.NewFromConfig(awsCfg)
	authorizer := &Authorizer{
		ApiTokens: apitokens.NewApiTokenService(cfg.TableName, client, token.NewGCM(cfg.TokenSecret)),
	}
	lambda.Start(authorizer.HandleRequest)
}
