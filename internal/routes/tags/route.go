package tags

import (
	"context"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/routes"
	"foodgram.io/backend/internal/routes/util"
	"github.com/aws/aws-lambda-go/events"
)

type Tag struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func NewTag(tag data.TagDTO) Tag {
	return Tag{
		Id:   tag.SK,
		Name: tag.Name,
		Slug: tag.Slug,
	}
}

type TagService struct {
	data data.TagRepository
}

func NewRoute(data data.TagRepository) routes.Service {
	return &TagService{
		data: data,
	}
}

func (ts *TagService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/api/tags":        ts.ListTags,
		"GET:/api/tags/:tagId": ts.GetTag,
	}
}

// ListTags returns the whole catalog without pagination.
func (ts *TagService) ListTags(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	items, err := data.ListAll(ctx, func(ctx context.Context, params data.QueryParams) (data.QueryResults[data.TagDTO], error) {
		return ts.data.List(ctx, data.GLOBAL_ACCOUNT, params)
	})
	return util.SerializeResponseOK(func(items []data.TagDTO) []Tag {
		return *util.MapOnList(&items, NewTag)
	}, items, err)
}

func (ts *TagService) GetTag(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	item, err := ts.data.Get(ctx, data.GLOBAL_ACCOUNT, util.RequestParam(ctx, "tagId"))
	return util.SerializeResponseOK(NewTag, item, err)
}
