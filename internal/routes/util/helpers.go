package util

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/exceptions"
	"foodgram.io/backend/internal/routes"
	"foodgram.io/backend/internal/routes/filters"
	"foodgram.io/backend/internal/validation"
	"github.com/aws/aws-lambda-go/events"
)

// Page is the wire form of data.QueryResults. The token is passed back as
// the nextToken query parameter.
type Page[T interface{}] struct {
	Items     []T    `json:"items"`
	NextToken string `json:"nextToken,omitempty"`
}

func AuthorizedRoute(route routes.Route) routes.Route {
	return func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
		if _, ok := OptionalUserId(ctx); !ok {
			return events.APIGatewayV2HTTPResponse{}, exceptions.Unauthorized("Authentication credentials were not provided.")
		}
		return route(event, ctx)
	}
}

func OptionalUserId(ctx context.Context) (string, bool) {
	userId, ok := ctx.Value(filters.UserIdKey).(string)
	return userId, ok && userId != ""
}

// UserId is only meaningful behind AuthorizedRoute.
func UserId(ctx context.Context) string {
	userId, _ := OptionalUserId(ctx)
	return userId
}

func Token(ctx context.Context) string {
	token, _ := ctx.Value(filters.TokenKey).(string)
	return token
}

func RequestParam(ctx context.Context, name string) string {
	if params, ok := ctx.Value(filters.ParamsKey).(map[string]string); ok {
		return params[name]
	}
	return ""
}

func IntParameter(event events.APIGatewayV2HTTPRequest, name string) (int, bool, error) {
	value, ok := event.QueryStringParameters[name]
	if !ok || value == "" {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, exceptions.InvalidInput(name + " parameter was not a number type.")
	}
	return parsed, true, nil
}

// ListParameter splits repeated query values, which API Gateway joins with commas.
func ListParameter(event events.APIGatewayV2HTTPRequest, name string) []string {
	value, ok := event.QueryStringParameters[name]
	if !ok {
		return nil
	}
	var values []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func FlagParameter(event events.APIGatewayV2HTTPRequest, name string) bool {
	value, ok := event.QueryStringParameters[name]
	if !ok {
		return false
	}
	flag, err := strconv.ParseBool(value)
	return err == nil && flag
}

func QueryParams(event events.APIGatewayV2HTTPRequest, pageSize int) (data.QueryParams, error) {
	limit, ok, err := IntParameter(event, "limit")
	if err != nil {
		return data.QueryParams{}, err
	}
	if !ok {
		limit = pageSize
	}
	params := data.QueryParams{Limit: limit}
	if token, ok := event.QueryStringParameters["nextToken"]; ok && token != "" {
		params.NextToken = []byte(token)
	}
	return params, nil
}

// DecodeBody reads a JSON payload into out and validates it.
func DecodeBody(event events.APIGatewayV2HTTPRequest, out any) error {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return exceptions.InvalidInput(err.Error())
		}
		body = decoded
	}
	if err := json.Unmarshal(body, out); err != nil {
		return exceptions.InvalidInput(err.Error())
	}
	return validation.Struct(out)
}

// BaseURL prefers the configured site address over the domain the request
// arrived on.
func BaseURL(event events.APIGatewayV2HTTPRequest, configured string) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	return "https://" + event.RequestContext.DomainName
}

func SerializeResponse[T interface{}, R interface{}](delayed func(T) R, thing T, err error, statusCode int) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	body, err := json.Marshal(delayed(thing))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(body)),
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

func SerializeResponseOK[T interface{}, R interface{}](delayed func(T) R, thing T, err error) (events.APIGatewayV2HTTPResponse, error) {
	return SerializeResponse(delayed, thing, err, http.StatusOK)
}

func SerializeResponseCreated[T interface{}, R interface{}](delayed func(T) R, thing T, err error) (events.APIGatewayV2HTTPResponse, error) {
	return SerializeResponse(delayed, thing, err, http.StatusCreated)
}

func SerializeResponseNoContent(err error) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusNoContent,
	}, nil
}

func SerializeRedirect(location string, err error) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusFound,
		Headers: map[string]string{
			"Location": location,
		},
	}, nil
}

func SerializeAttachment(filename string, contentType string, body string, err error) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":        contentType + "; charset=utf-8",
			"Content-Disposition": "attachment; filename=\"" + filename + "\"",
			"Content-Length":      strconv.Itoa(len(body)),
		},
		Body: body,
	}, nil
}

func Identity[T interface{}](thing T) T {
	return thing
}

func MapOnList[T interface{}, R interface{}](items *[]T, thunk func(T) R) *[]R {
	if items == nil {
		return nil
	}
	results := make([]R, len(*items))
	for i, item := range *items {
		results[i] = thunk(item)
	}
	return &results
}

func ConvertQueryResults[D interface{}, R interface{}](items data.QueryResults[D], thunk func(D) R) Page[R] {
	return Page[R]{
		Items:     *MapOnList(&items.Items, thunk),
		NextToken: string(items.NextToken),
	}
}

func ConvertQueryResultsPartial[D interface{}, R interface{}](thunk func(D) R) func(data.QueryResults[D]) Page[R] {
	return func(d data.QueryResults[D]) Page[R] {
		return ConvertQueryResults(d, thunk)
	}
}
