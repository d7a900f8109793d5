package apitokens

import "foodgram.io/backend/internal/data"

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ApiToken struct {
	AuthToken string `json:"auth_token"`
}

func NewApiToken(token data.ApiTokenDTO) ApiToken {
	return ApiToken{
		AuthToken: token.SK,
	}
}
