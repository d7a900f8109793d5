package filters

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

type contextKey string

const (
	ParamsKey contextKey = "Params"
	UserIdKey contextKey = "UserId"
	TokenKey  contextKey = "Token"
)

type FilterContext struct {
	Request  *events.APIGatewayV2HTTPRequest
	Response *events.APIGatewayV2HTTPResponse
	Context  *context.Context
}

type RequestFilter interface {
	Filter(ctx *FilterContext) (*FilterContext, bool)
}

type CorsFilter struct {
	Methods []string
	Origins []string
	Headers []string
}

func (cf *CorsFilter) Filter(ctx *FilterContext) (*FilterContext, bool) {
	if ctx.Request.RequestContext.HTTP.Method == "OPTIONS" {
		headers := ctx.Response.Headers
		if headers == nil {
			headers = make(map[string]string, 4)
		}
		headers["content-length"] = "0"
		headers["access-control-allow-headers"] = strings.Join(cf.Headers, ", ")
		headers["access-control-allow-methods"] = strings.Join(cf.Methods, ", ")
		headers["access-control-allow-origin"] = strings.Join(cf.Origins, ", ")
		return &FilterContext{
			Request: ctx.Request,
			Context: ctx.Context,
			Response: &events.APIGatewayV2HTTPResponse{
				Headers:    headers,
				StatusCode: ctx.Response.StatusCode,
			},
		}, true
	}
	return ctx, false
}

// IdentityFilter copies the caller resolved by the Lambda authorizer into the
// request context. Anonymous requests pass through untouched.
type IdentityFilter struct {
	UserField  string
	TokenField string
}

func (f *IdentityFilter) lookup(ctx *FilterContext, field string) (string, bool) {
	value, ok := ctx.Request.RequestContext.Authorizer.Lambda[field]
	if !ok {
		return "", false
	}
	str, ok := value.(string)
	return str, ok && str != ""
}

func (f *IdentityFilter) Filter(ctx *FilterContext) (*FilterContext, bool) {
	if ctx.Request.RequestContext.Authorizer == nil {
		return ctx, false
	}
	userId, ok := f.lookup(ctx, f.UserField)
	if !ok {
		return ctx, false
	}
	updated := context.WithValue(*ctx.Context, UserIdKey, userId)
	if token, ok := f.lookup(ctx, f.TokenField); ok {
		updated = context.WithValue(updated, TokenKey, token)
	}
	return &FilterContext{
		Request:  ctx.Request,
		Response: ctx.Response,
		Context:  &updated,
	}, false
}

func DefaultFilterContext(event events.APIGatewayV2HTTPRequest, ctx context.Context) *FilterContext {
	return &FilterContext{
		Request: &event,
		Response: &events.APIGatewayV2HTTPResponse{
			StatusCode: 200,
		},
		Context: &ctx,
	}
}

func DefaultCorsFilter() *CorsFilter {
	methods := [5]string{"GET", "PUT", "PATCH", "POST", "DELETE"}
	headers := [3]string{"Content-Type", "Content-Length", "Authorization"}
	origins := [1]string{"*"}
	return &CorsFilter{
		Methods: methods[:],
		Headers: headers[:],
		Origins: origins[:],
	}
}

func DefaultIdentityFilter() *IdentityFilter {
	return &IdentityFilter{
		UserField:  "userId",
		TokenField: "token",
	}
}
