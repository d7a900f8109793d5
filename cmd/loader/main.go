package main

import (
	"context"
	"flag"
	"os"

	"foodgram.io/backend/internal/catalog"
	"foodgram.io/backend/internal/config"
	"foodgram.io/backend/internal/dynamodb/ingredients"
	"foodgram.io/backend/internal/dynamodb/token"
	"foodgram.io/backend/internal/logging"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog/log"
)

func main() {
	path := flag.String("file", "data/ingredients.json", "ingredient dump to load")
	flag.Parse()

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
	file, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("failed to open ingredient dump")
	}
	records, err := catalog.Decode(file)
	file.Close()
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("failed to read ingredient dump")
	}
	client := dynamodb.NewFromConfig(awsCfg)
	repo := ingredients.NewIngredientService(cfg.TableName, client, token.NewGCM(cfg.TokenSecret))
	report := catalog.LoadIngredients(ctx, repo, records)
	log.Info().
		Int("created", report.Created).
		Int("existing", report.Existing).
		Int("failed", report.Failed).
		Msg("ingredients loaded")
	if report.Failed > 0 {
		os.Exit(1)
	}
}
