package main

import (
	"context"

	"foodgram.io/backend/internal/config"
	tokenData "foodgram.io/backend/internal/dynamodb/apitokens"
	ingredientData "foodgram.io/backend/internal/dynamodb/ingredients"
	recipeData "foodgram.io/backend/internal/dynamodb/recipes"
	referenceData "foodgram.io/backend/internal/dynamodb/references"
	subscriberData "foodgram.io/backend/internal/dynamodb/subscriptions"
	tagData "foodgram.io/backend/internal/dynamodb/tags"
	"foodgram.io/backend/internal/dynamodb/token"
	userData "foodgram.io/backend/internal/dynamodb/users"
	"foodgram.io/backend/internal/logging"
	"foodgram.io/backend/internal/routes"
	"foodgram.io/backend/internal/routes/apitokens"
	"foodgram.io/backend/internal/routes/favorites"
	"foodgram.io/backend/internal/routes/ingredients"
	"foodgram.io/backend/internal/routes/links"
	"foodgram.io/backend/internal/routes/recipes"
	"foodgram.io/backend/internal/routes/shopping"
	"foodgram.io/backend/internal/routes/subscriptions"
	"foodgram.io/backend/internal/routes/tags"
	"foodgram.io/backend/internal/routes/users"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog/log"
)

type App struct {
	Router routes.Router
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

	recipeRepo := recipeData.NewRecipeService(cfg.TableName, cfg.IndexName, client, marshaler)
	userRepo := userData.NewUserService(cfg.TableName, client, marshaler)
	tagRepo := tagData.NewTagService(cfg.TableName, client, marshaler)
	ingredientRepo := ingredientData.NewIngredientService(cfg.TableName, client, marshaler)
	favoriteRepo := referenceData.NewFavoriteService(cfg.TableName, client, marshaler)
	cartRepo := referenceData.NewShoppingCartService(cfg.TableName, client, marshaler, recipeRepo)
	subscriptionRepo := subscriberData.NewSubscriptionService(cfg.TableName, client, marshaler)
	tokenRepo := tokenData.NewApiTokenService(cfg.TableName, client, marshaler)

	router := routes.NewRouter(
		apitokens.NewRoute(tokenRepo, userRepo),
		users.NewRoute(userRepo, subscriptionRepo, cfg.PageSize),
		subscriptions.NewRoute(subscriptionRepo, userRepo, recipeRepo, cfg.PageSize),
		tags.NewRoute(tagRepo),
		ingredients.NewRoute(ingredientRepo),
		recipes.NewRoute(recipes.Repositories{
			Recipes:       recipeRepo,
			Tags:          tagRepo,
			Ingredients:   ingredientRepo,
			Users:         userRepo,
			Favorites:     favoriteRepo,
			ShoppingCart:  cartRepo,
			Subscriptions: subscriptionRepo,
		}, cfg.BaseURL, cfg.PageSize),
		favorites.NewRoute(favoriteRepo, recipeRepo),
		shopping.NewRoute(cartRepo, recipeRepo),
		links.NewRoute(recipeRepo, cfg.BaseURL),
	)
	log.Info().Int("routes", len(router.Routes)).Msg("router ready")
	return App{
		Router: *router,
	}
}

func (app *App) HandleRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return app.Router.Invoke(request, ctx), nil
}

func main() {
	app := NewApp(context.Background())
	lambda.Start(app.HandleRequest)
}
