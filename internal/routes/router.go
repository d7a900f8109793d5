package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"foodgram.io/backend/internal/exceptions"
	"foodgram.io/backend/internal/routes/filters"
	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

type Route func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error)

type Service interface {
	GetRoutes() map[string]Route
}

var paramPattern = regexp.MustCompile(":[^/]+")

type CachedMatcher struct {
	Matcher    *regexp.Regexp
	ParamNames []string
	Mutex      *sync.Mutex
}

type CachedRoute struct {
	Method  string
	Path    string
	Route   Route
	Matcher *CachedMatcher
}

func (cr *CachedMatcher) Refresh(path string) *regexp.Regexp {
	cr.Mutex.Lock()
	defer cr.Mutex.Unlock()
	if cr.Matcher == nil {
		regexPath := paramPattern.ReplaceAllStringFunc(path, func(found string) string {
			cr.ParamNames = append(cr.ParamNames, found[1:])
			return "([^/]+)"
		})
		cr.Matcher = regexp.MustCompile("^" + regexPath + "$")
	}
	return cr.Matcher
}

func (cr *CachedRoute) params() int {
	return strings.Count(cr.Path, "/:")
}

func (cr *CachedRoute) MatchEvent(method string, path string) (map[string]string, bool) {
	if method != cr.Method {
		return nil, false
	}
	if path == cr.Path {
		return map[string]string{}, true
	}
	matcher := cr.Matcher.Refresh(cr.Path)
	values := matcher.FindStringSubmatch(path)
	if values == nil {
		return nil, false
	}
	params := make(map[string]string, len(cr.Matcher.ParamNames))
	for i, p := range cr.Matcher.ParamNames {
		params[p] = values[i+1]
	}
	return params, true
}

type Router struct {
	Filters []filters.RequestFilter
	Routes  []CachedRoute
}

// NewRouter orders routes so fixed segments are tried before parameters:
// "/api/users/me" wins over "/api/users/:id".
func NewRouter(services ...Service) *Router {
	var routes []CachedRoute
	for _, service := range services {
		for composite, route := range service.GetRoutes() {
			method, path, _ := strings.Cut(composite, ":")
			routes = append(routes, CachedRoute{
				Method: method,
				Path:   path,
				Route:  route,
				Matcher: &CachedMatcher{
					Mutex: &sync.Mutex{},
				},
			})
		}
	}
	slices.SortStableFunc(routes, func(a, b CachedRoute) int {
		if a.params() != b.params() {
			return a.params() - b.params()
		}
		return strings.Compare(a.Path, b.Path)
	})
	return &Router{
		Routes: routes,
		Filters: []filters.RequestFilter{
			filters.DefaultCorsFilter(),
			filters.DefaultIdentityFilter(),
		},
	}
}

func translateError(err error) events.APIGatewayV2HTTPResponse {
	statusCode := exceptions.StatusCode(err)
	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
		message = "Unexpected internal error"
	}
	body, _ := json.Marshal(map[string]string{"message": message})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type":   "application/json",
			"Content-Length": strconv.Itoa(len(body)),
		},
	}
}

func normalize(path string) string {
	if len(path) > 1 {
		return strings.TrimRight(path, "/")
	}
	return path
}

func (r *Router) Invoke(event events.APIGatewayV2HTTPRequest, ctx context.Context) events.APIGatewayV2HTTPResponse {
	filterContext := filters.DefaultFilterContext(event, ctx)
	for _, filter := range r.Filters {
		updatedContext, broken := filter.Filter(filterContext)
		if broken {
			return *updatedContext.Response
		}
		filterContext = updatedContext
	}
	method := filterContext.Request.RequestContext.HTTP.Method
	path := normalize(filterContext.Request.RawPath)
	for _, route := range r.Routes {
		if params, ok := route.MatchEvent(method, path); ok {
			resp, err := route.Route(event, context.WithValue(*filterContext.Context, filters.ParamsKey, params))
			if err != nil {
				log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request rejected")
				return translateError(err)
			}
			return resp
		}
	}
	return translateError(exceptions.NotFound("route", path))
}
