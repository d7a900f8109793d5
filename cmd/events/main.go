package main

import (
	"context"

	"foodgram.io/backend/internal/config"
	"foodgram.io/backend/internal/dynamodb/recipes"
	"foodgram.io/backend/internal/dynamodb/references"
	"foodgram.io/backend/internal/dynamodb/subscriptions"
	"foodgram.io/backend/internal/dynamodb/token"
	"foodgram.io/backend/internal/dynamodb/users"
	"foodgram.io/backend/internal/events"
	"foodgram.io/backend/internal/logging"
	"foodgram.io/backend/internal/sns/services"
	lambdaEvents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog/log"
)

type App struct {
	Handlers []events.EventFilter
}

func NewApp(ctx context.Context) App {
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
	marshaler := token.NewGCM(cfg.TokenSecret)
	notifications := services.NewNotificationService(sns.NewFromConfig(awsCfg), cfg.TopicArn)
	recipeRepo := recipes.NewRecipeService(cfg.TableName, cfg.IndexName, client, marshaler)

	return App{
		Handlers: []events.EventFilter{
			&events.PublishRecipeHandler{
				Notifications: notifications,
				BaseURL:       cfg.BaseURL,
			},
			events.DefaultDeleteReferencesHandler(
				cfg.IndexName,
				references.NewFavoriteService(cfg.TableName, client, marshaler),
				references.NewShoppingCartService(cfg.TableName, client, marshaler, recipeRepo),
			),
			&events.ManageFollowerHandler{
				Users:         users.NewUserService(cfg.TableName, client, marshaler),
				Subscriptions: subscriptions.NewSubscriptionService(cfg.TableName, client, marshaler),
				Notifications: notifications,
			},
		},
	}
}

func (app *App) HandleRequest(ctx context.Context, event lambdaEvents.DynamoDBEvent) error {
	return events.Dispatch(ctx, app.Handlers, event.Records)
}

func main() {
	app := NewApp(context.Background())
	lambda.Start(app.HandleRequest)
}
