package links

import (
	"context"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/exceptions"
	"foodgram.io/backend/internal/routes"
	"foodgram.io/backend/internal/routes/util"
	"foodgram.io/backend/internal/shortcode"
	"github.com/aws/aws-lambda-go/events"
)

type LinkService struct {
	data    data.ShortCodeRepository
	baseURL string
}

func NewRoute(data data.ShortCodeRepository, baseURL string) routes.Service {
	return &LinkService{
		data:    data,
		baseURL: baseURL,
	}
}

func (ls *LinkService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/s/:code":     ls.Redirect,
		"GET:/api/r/:code": ls.Redirect,
	}
}

// Redirect sends a short link to the recipe page of the site.
func (ls *LinkService) Redirect(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	code := util.RequestParam(ctx, "code")
	if !shortcode.Valid(code) {
		return events.APIGatewayV2HTTPResponse{}, exceptions.NotFound("short link", code)
	}
	recipe, err := ls.data.FindByShortCode(ctx, code)
	return util.SerializeRedirect(util.BaseURL(event, ls.baseURL)+"/recipes/"+recipe.SK, err)
}
