package main

import (
	"context"
	"testing"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/test"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizer(t *testing.T) {
	ctx := context.Background()
	tokens := test.NewMemoryApiTokens()
	issued, err := tokens.Create(ctx, data.GLOBAL_ACCOUNT, data.ApiTokenInputDTO{
		AccountId: aws.String("user-1"),
	})
	require.NoError(t, err)
	authorizer := &Authorizer{ApiTokens: tokens}

	request := func(header string) events.APIGatewayV2CustomAuthorizerV2Request {
		headers := map[string]string{}
		if header != "" {
			headers["authorization"] = header
		}
		return events.APIGatewayV2CustomAuthorizerV2Request{Headers: headers}
	}

	t.Run("ValidToken", func(t *testing.T) {
		resp, err := authorizer.HandleRequest(ctx, request("Token "+issued.SK))
		require.NoError(t, err)
		assert.True(t, resp.IsAuthorized)
		assert.Equal(t, map[string]interface{}{"userId": "user-1", "token": issued.SK}, resp.Context)
	})

	for name, header := range map[string]string{
		"Anonymous":    "",
		"UnknownToken": "Token deadbeef",
		"BearerScheme": "Bearer " + issued.SK,
		"MissingKey":   "Token",
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := authorizer.HandleRequest(ctx, request(header))
			require.NoError(t, err)
			assert.True(t, resp.IsAuthorized)
			assert.Empty(t, resp.Context)
		})
	}
}
